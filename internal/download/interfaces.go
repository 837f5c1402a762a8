package download

import (
	"context"

	"github.com/ytget/gdsfx/internal/library"
	"github.com/ytget/gdsfx/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))
	AddTask(sound *library.Entry) (*model.DownloadTask, error)
	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask
	StopTask(id string) error
	ClearFinished() int
	Wait(ctx context.Context) error

	// Store downloads a sound synchronously and returns the written path
	Store(ctx context.Context, sound *library.Entry) (string, error)

	// Read returns the audio bytes of a sound, from disk when present
	Read(ctx context.Context, id int) ([]byte, error)

	Delete(id int) error
	DeleteAll() (int, error)
	Exists(id int) bool
	Path(id int) string

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)

	// SetGameFolder sets the folder sound files are written to
	SetGameFolder(dir string)

	// SetTracker sets who is told about written and removed files
	SetTracker(tracker Tracker)
}

// SoundFetcher fetches raw sound files. *cdn.Client implements it.
type SoundFetcher interface {
	Sound(ctx context.Context, id int) ([]byte, error)
}

// Tracker is told about sound files the service writes or removes.
type Tracker interface {
	Add(id int)
	Remove(id int)
}
