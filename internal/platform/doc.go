package platform

// Package platform contains OS integration: locating the Geometry Dash
// folder, revealing files in the system file manager, and keeping an index of
// the sound files present on disk.
