package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconFavorite   = "★"
	IconDownloaded = "✓"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing
const (
	WindowWidth  float32 = 900
	WindowHeight float32 = 600

	TreeSplitOffset = 0.68

	StatusLabelWidth float32 = 84
)

// Debounce durations
const (
	UIUpdateDebounce = 100 * time.Millisecond
)

// Timeouts
const (
	PlayFetchTimeout = 30 * time.Second
)
