package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It renders the sound library as a filterable tree, plays and downloads sounds
// through the audio and download services, and edits the persisted settings.
// All UI strings are localized via Localization.
