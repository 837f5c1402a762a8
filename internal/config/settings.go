package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/gdsfx/internal/cdn"
	"github.com/ytget/gdsfx/internal/library"
	"github.com/ytget/gdsfx/internal/platform"
)

// FilterMode decides how entries that fail the search are displayed
type FilterMode string

const (
	FilterGrayOut FilterMode = "gray_out"
	FilterHide    FilterMode = "hide"
)

// SelectMode decides whether hovering or clicking selects a sound
type SelectMode string

const (
	SelectHover SelectMode = "hover"
	SelectClick SelectMode = "click"
)

// Settings keys for Fyne preferences
const (
	KeyGameFolder   = "gd_folder"
	KeyFilterMode   = "search_filter_mode"
	KeySelectMode   = "sfx_select_mode"
	KeyPlayOnClick  = "play_sfx_on_click"
	KeyLocale       = "locale"
	KeyDownloadFrom = "download_ids_from"
	KeyDownloadTo   = "download_ids_to"
	KeyMaxParallel  = "max_parallel_downloads"
	KeyFavorites    = "favorite_sounds"
	KeyCDNURL       = "cdn_url"
	KeySortKey      = "sort_key"
)

// Default values
const (
	DefaultFilterMode   = FilterGrayOut
	DefaultSelectMode   = SelectHover
	DefaultPlayOnClick  = true
	DefaultLocale       = "en_US"
	DefaultDownloadFrom = 0
	DefaultDownloadTo   = 14500
	DefaultMaxParallel  = 4
	MaxParallelLimit    = 10
)

// Settings manages application configuration
type Settings struct {
	app       fyne.App
	overrides Overrides
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// WithOverrides applies session-only overrides on top of the stored preferences
func (s *Settings) WithOverrides(overrides Overrides) *Settings {
	s.overrides = overrides
	return s
}

// GetGameFolder returns the folder sound files are stored in
func (s *Settings) GetGameFolder() string {
	if s.overrides.GameFolder != "" {
		return s.overrides.GameFolder
	}
	dir := s.app.Preferences().String(KeyGameFolder)
	if dir == "" {
		defaultDir, err := platform.GameFolder()
		if err != nil {
			return ""
		}
		s.SetGameFolder(defaultDir)
		return defaultDir
	}
	return dir
}

// SetGameFolder sets the folder sound files are stored in
func (s *Settings) SetGameFolder(dir string) {
	s.app.Preferences().SetString(KeyGameFolder, dir)
}

// GetFilterMode returns how filtered-out entries are displayed
func (s *Settings) GetFilterMode() FilterMode {
	switch mode := FilterMode(s.app.Preferences().String(KeyFilterMode)); mode {
	case FilterGrayOut, FilterHide:
		return mode
	default:
		return DefaultFilterMode
	}
}

// SetFilterMode sets how filtered-out entries are displayed
func (s *Settings) SetFilterMode(mode FilterMode) {
	s.app.Preferences().SetString(KeyFilterMode, string(mode))
}

// GetFilterModeOptions returns available filter modes
func (s *Settings) GetFilterModeOptions() []FilterMode {
	return []FilterMode{FilterGrayOut, FilterHide}
}

// GetSelectMode returns how sounds get selected in the tree
func (s *Settings) GetSelectMode() SelectMode {
	switch mode := SelectMode(s.app.Preferences().String(KeySelectMode)); mode {
	case SelectHover, SelectClick:
		return mode
	default:
		return DefaultSelectMode
	}
}

// SetSelectMode sets how sounds get selected in the tree
func (s *Settings) SetSelectMode(mode SelectMode) {
	s.app.Preferences().SetString(KeySelectMode, string(mode))
}

// GetSelectModeOptions returns available select modes
func (s *Settings) GetSelectModeOptions() []SelectMode {
	return []SelectMode{SelectHover, SelectClick}
}

// GetPlayOnClick returns whether clicking a sound plays it
func (s *Settings) GetPlayOnClick() bool {
	return s.app.Preferences().BoolWithFallback(KeyPlayOnClick, DefaultPlayOnClick)
}

// SetPlayOnClick sets whether clicking a sound plays it
func (s *Settings) SetPlayOnClick(play bool) {
	s.app.Preferences().SetBool(KeyPlayOnClick, play)
}

// GetLocale returns the configured locale
func (s *Settings) GetLocale() string {
	if s.overrides.Locale != "" {
		return s.overrides.Locale
	}
	return s.app.Preferences().StringWithFallback(KeyLocale, DefaultLocale)
}

// SetLocale sets the application locale
func (s *Settings) SetLocale(locale string) {
	s.app.Preferences().SetString(KeyLocale, locale)
}

// GetLocaleOptions returns available locales
func (s *Settings) GetLocaleOptions() map[string]string {
	return map[string]string{
		"en_US": "English",
		"de_DE": "Deutsch",
	}
}

// GetDownloadRange returns the half-open id range [from, to) that "download all" covers
func (s *Settings) GetDownloadRange() (from, to int) {
	prefs := s.app.Preferences()
	from = prefs.IntWithFallback(KeyDownloadFrom, DefaultDownloadFrom)
	to = prefs.IntWithFallback(KeyDownloadTo, DefaultDownloadTo)
	return clampRange(from, to)
}

// SetDownloadRange sets the id range that "download all" covers
func (s *Settings) SetDownloadRange(from, to int) {
	from, to = clampRange(from, to)
	s.app.Preferences().SetInt(KeyDownloadFrom, from)
	s.app.Preferences().SetInt(KeyDownloadTo, to)
}

func clampRange(from, to int) (int, int) {
	from = max(from, 0)
	to = max(to, from)
	return from, to
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	if s.overrides.MaxParallel > 0 {
		return min(s.overrides.MaxParallel, MaxParallelLimit)
	}
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < 1 {
		count = 1
	}
	if count > MaxParallelLimit {
		count = MaxParallelLimit
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetFavorites returns the stored favorite sound ids
func (s *Settings) GetFavorites() []int {
	return s.app.Preferences().IntList(KeyFavorites)
}

// SetFavorites stores the favorite sound ids
func (s *Settings) SetFavorites(ids []int) {
	s.app.Preferences().SetIntList(KeyFavorites, ids)
}

// GetCDNURL returns the CDN the library and sounds are fetched from
func (s *Settings) GetCDNURL() string {
	if s.overrides.CDNURL != "" {
		return s.overrides.CDNURL
	}
	return s.app.Preferences().StringWithFallback(KeyCDNURL, cdn.DefaultBaseURL)
}

// SetCDNURL sets the CDN base URL
func (s *Settings) SetCDNURL(url string) {
	if url == "" {
		url = cdn.DefaultBaseURL
	}
	s.app.Preferences().SetString(KeyCDNURL, url)
}

// GetSortKey returns the last used sort order
func (s *Settings) GetSortKey() library.SortKey {
	return library.ParseSortKey(s.app.Preferences().String(KeySortKey))
}

// SetSortKey stores the sort order
func (s *Settings) SetSortKey(key library.SortKey) {
	s.app.Preferences().SetString(KeySortKey, key.String())
}
