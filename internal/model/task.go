package model

import (
	"fmt"
	"time"
)

// DownloadTask represents the download of one sound into the game folder
type DownloadTask struct {
	ID         string
	SoundID    int
	Name       string // sound name shown in the queue
	Status     TaskStatus
	Bytes      int64  // expected size from the library manifest
	LastError  string // last error message if any
	OutputPath string // path of the stored .ogg file
	StartedAt  time.Time
	FinishedAt time.Time
}

// GetDisplayTitle returns the sound name, or its id when the name is empty
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Name != "" {
		return dt.Name
	}
	return fmt.Sprintf("#%d", dt.SoundID)
}

// Elapsed returns how long the task ran, or has been running so far
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() {
		return 0
	}
	if dt.FinishedAt.IsZero() {
		return time.Since(dt.StartedAt)
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}
