package config

import (
	"slices"
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/gdsfx/internal/cdn"
	"github.com/ytget/gdsfx/internal/library"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestGameFolder(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	customDir := "/games/GeometryDash"
	settings.SetGameFolder(customDir)

	retrievedDir := settings.GetGameFolder()
	if retrievedDir != customDir {
		t.Errorf("Expected game folder %s, got %s", customDir, retrievedDir)
	}

	settings.WithOverrides(Overrides{GameFolder: "/override"})
	if settings.GetGameFolder() != "/override" {
		t.Errorf("Override should win, got %s", settings.GetGameFolder())
	}
	if app.Preferences().String(KeyGameFolder) != customDir {
		t.Error("Overrides must not be written to preferences")
	}
}

func TestMaxParallelDownloads(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	maxParallel := settings.GetMaxParallelDownloads()
	if maxParallel != DefaultMaxParallel {
		t.Errorf("Expected default max parallel %d, got %d", DefaultMaxParallel, maxParallel)
	}

	settings.SetMaxParallelDownloads(5)
	if settings.GetMaxParallelDownloads() != 5 {
		t.Errorf("Expected max parallel 5, got %d", settings.GetMaxParallelDownloads())
	}

	// Test boundary values
	settings.SetMaxParallelDownloads(0) // Should be clamped to 1
	if settings.GetMaxParallelDownloads() != 1 {
		t.Error("Max parallel should be clamped to minimum 1")
	}

	settings.SetMaxParallelDownloads(15) // Should be clamped to 10
	if settings.GetMaxParallelDownloads() != 10 {
		t.Error("Max parallel should be clamped to maximum 10")
	}

	settings.WithOverrides(Overrides{MaxParallel: 50})
	if settings.GetMaxParallelDownloads() != MaxParallelLimit {
		t.Errorf("Override should be clamped to %d, got %d", MaxParallelLimit, settings.GetMaxParallelDownloads())
	}
}

func TestFilterMode(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetFilterMode() != FilterGrayOut {
		t.Errorf("Expected default filter mode %s, got %s", FilterGrayOut, settings.GetFilterMode())
	}

	settings.SetFilterMode(FilterHide)
	if settings.GetFilterMode() != FilterHide {
		t.Errorf("Expected filter mode %s, got %s", FilterHide, settings.GetFilterMode())
	}

	app.Preferences().SetString(KeyFilterMode, "sparkle")
	if settings.GetFilterMode() != DefaultFilterMode {
		t.Errorf("Unknown filter mode should fall back to %s", DefaultFilterMode)
	}

	if !slices.Equal(settings.GetFilterModeOptions(), []FilterMode{FilterGrayOut, FilterHide}) {
		t.Errorf("Unexpected filter mode options %v", settings.GetFilterModeOptions())
	}
}

func TestSelectModeAndPlayOnClick(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetSelectMode() != SelectHover {
		t.Errorf("Expected default select mode %s, got %s", SelectHover, settings.GetSelectMode())
	}
	settings.SetSelectMode(SelectClick)
	if settings.GetSelectMode() != SelectClick {
		t.Errorf("Expected select mode %s, got %s", SelectClick, settings.GetSelectMode())
	}
	if len(settings.GetSelectModeOptions()) != 2 {
		t.Errorf("Expected 2 select modes, got %d", len(settings.GetSelectModeOptions()))
	}

	if !settings.GetPlayOnClick() {
		t.Error("Play on click should default to true")
	}
	settings.SetPlayOnClick(false)
	if settings.GetPlayOnClick() {
		t.Error("Play on click should be disabled")
	}
}

func TestLocale(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetLocale() != DefaultLocale {
		t.Errorf("Expected default locale %s, got %s", DefaultLocale, settings.GetLocale())
	}

	settings.SetLocale("de_DE")
	if settings.GetLocale() != "de_DE" {
		t.Errorf("Expected locale 'de_DE', got %s", settings.GetLocale())
	}

	options := settings.GetLocaleOptions()
	for _, locale := range []string{"en_US", "de_DE"} {
		if _, exists := options[locale]; !exists {
			t.Errorf("Expected locale option '%s' to exist", locale)
		}
	}
}

func TestDownloadRange(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	from, to := settings.GetDownloadRange()
	if from != DefaultDownloadFrom || to != DefaultDownloadTo {
		t.Errorf("Expected default range %d..%d, got %d..%d", DefaultDownloadFrom, DefaultDownloadTo, from, to)
	}

	tests := []struct {
		from, to         int
		wantFrom, wantTo int
	}{
		{100, 200, 100, 200},
		{-5, 10, 0, 10},
		{300, 200, 300, 300},
		{0, 0, 0, 0},
	}

	for _, tc := range tests {
		settings.SetDownloadRange(tc.from, tc.to)
		from, to := settings.GetDownloadRange()
		if from != tc.wantFrom || to != tc.wantTo {
			t.Errorf("SetDownloadRange(%d, %d) stored %d..%d, expected %d..%d",
				tc.from, tc.to, from, to, tc.wantFrom, tc.wantTo)
		}
	}
}

func TestFavorites(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if len(settings.GetFavorites()) != 0 {
		t.Errorf("Expected no favorites, got %v", settings.GetFavorites())
	}

	settings.SetFavorites([]int{3, 42, 7})
	if !slices.Equal(settings.GetFavorites(), []int{3, 42, 7}) {
		t.Errorf("Expected favorites [3 42 7], got %v", settings.GetFavorites())
	}
}

func TestCDNURLAndSortKey(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetCDNURL() != cdn.DefaultBaseURL {
		t.Errorf("Expected default CDN %s, got %s", cdn.DefaultBaseURL, settings.GetCDNURL())
	}
	settings.SetCDNURL("https://mirror.example")
	if settings.GetCDNURL() != "https://mirror.example" {
		t.Errorf("Expected custom CDN, got %s", settings.GetCDNURL())
	}
	settings.SetCDNURL("")
	if settings.GetCDNURL() != cdn.DefaultBaseURL {
		t.Errorf("Empty CDN should reset to default, got %s", settings.GetCDNURL())
	}

	if settings.GetSortKey() != library.SortDefault {
		t.Errorf("Expected default sort key, got %s", settings.GetSortKey())
	}
	settings.SetSortKey(library.SortSizeDesc)
	if settings.GetSortKey() != library.SortSizeDesc {
		t.Errorf("Expected sort key %s, got %s", library.SortSizeDesc, settings.GetSortKey())
	}
}
