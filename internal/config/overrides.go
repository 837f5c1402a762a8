package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ResolveOverrides
const (
	EnvConfigFile  = "GDSFX_CONFIG"
	EnvCDNURL      = "GDSFX_CDN_URL"
	EnvGameFolder  = "GDSFX_GAME_FOLDER"
	EnvLocale      = "GDSFX_LOCALE"
	EnvMaxParallel = "GDSFX_MAX_PARALLEL"
)

// Overrides are session-only values that take precedence over stored preferences.
// Empty fields leave the preference in effect.
type Overrides struct {
	CDNURL      string
	GameFolder  string
	Locale      string
	MaxParallel int
}

type overridesYAML struct {
	CDNURL      string `yaml:"cdn_url"`
	GameFolder  string `yaml:"game_folder"`
	Locale      string `yaml:"locale"`
	MaxParallel int    `yaml:"max_parallel_downloads"`
}

// ResolveOverrides reads the optional YAML file named by GDSFX_CONFIG and then
// applies environment variable overrides on top of it.
func ResolveOverrides() (Overrides, error) {
	var o Overrides

	configPath := strings.TrimSpace(os.Getenv(EnvConfigFile))
	if configPath != "" {
		resolved, err := expandPath(configPath)
		if err != nil {
			return Overrides{}, err
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return Overrides{}, fmt.Errorf("read config %s: %w", resolved, err)
		}
		var yamlConfig overridesYAML
		if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
			return Overrides{}, fmt.Errorf("parse config %s: %w", resolved, err)
		}
		o.CDNURL = strings.TrimSpace(yamlConfig.CDNURL)
		o.Locale = strings.TrimSpace(yamlConfig.Locale)
		o.MaxParallel = max(yamlConfig.MaxParallel, 0)
		if value := strings.TrimSpace(yamlConfig.GameFolder); value != "" {
			if o.GameFolder, err = expandPath(value); err != nil {
				return Overrides{}, err
			}
		}
	}

	if value := strings.TrimSpace(os.Getenv(EnvCDNURL)); value != "" {
		o.CDNURL = value
	}
	if value := strings.TrimSpace(os.Getenv(EnvGameFolder)); value != "" {
		folder, err := expandPath(value)
		if err != nil {
			return Overrides{}, err
		}
		o.GameFolder = folder
	}
	if value := strings.TrimSpace(os.Getenv(EnvLocale)); value != "" {
		o.Locale = value
	}
	if value := strings.TrimSpace(os.Getenv(EnvMaxParallel)); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return Overrides{}, fmt.Errorf("invalid %s %q", EnvMaxParallel, value)
		}
		o.MaxParallel = n
	}

	return o, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return filepath.Abs(path)
}
