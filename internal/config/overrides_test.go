package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearOverrideEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigFile, EnvCDNURL, EnvGameFolder, EnvLocale, EnvMaxParallel} {
		t.Setenv(key, "")
	}
}

func TestResolveOverrides_Empty(t *testing.T) {
	clearOverrideEnv(t)

	o, err := ResolveOverrides()
	require.NoError(t, err)
	assert.Equal(t, Overrides{}, o)
}

func TestResolveOverrides_YAMLThenEnv(t *testing.T) {
	clearOverrideEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "gdsfx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"cdn_url: https://yaml.example\n"+
			"game_folder: "+filepath.Join(dir, "gd")+"\n"+
			"locale: de_DE\n"+
			"max_parallel_downloads: 3\n"), 0o600))
	t.Setenv(EnvConfigFile, path)

	o, err := ResolveOverrides()
	require.NoError(t, err)
	assert.Equal(t, Overrides{
		CDNURL:      "https://yaml.example",
		GameFolder:  filepath.Join(dir, "gd"),
		Locale:      "de_DE",
		MaxParallel: 3,
	}, o)

	t.Setenv(EnvCDNURL, " https://env.example ")
	t.Setenv(EnvMaxParallel, "6")
	o, err = ResolveOverrides()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", o.CDNURL)
	assert.Equal(t, 6, o.MaxParallel)
	assert.Equal(t, "de_DE", o.Locale)
}

func TestResolveOverrides_Errors(t *testing.T) {
	clearOverrideEnv(t)

	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := ResolveOverrides()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cdn_url: [unclosed"), 0o600))
	t.Setenv(EnvConfigFile, bad)
	_, err = ResolveOverrides()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	t.Setenv(EnvConfigFile, "")
	t.Setenv(EnvMaxParallel, "lots")
	_, err = ResolveOverrides()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvMaxParallel)
}

func TestResolveOverrides_RelativeGameFolder(t *testing.T) {
	clearOverrideEnv(t)
	t.Setenv(EnvGameFolder, "gd-data")

	o, err := ResolveOverrides()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(o.GameFolder))
	assert.Equal(t, "gd-data", filepath.Base(o.GameFolder))
}
