package download

// Package download implements the sound download pipeline: fetching OGG files
// from the CDN, validating them, and writing them into the game folder. It
// manages the task lifecycle, concurrency limits and update propagation to
// the UI, and also offers synchronous store/delete/read helpers for the CLI
// and the audio player.
