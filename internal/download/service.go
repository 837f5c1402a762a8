package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dhowden/tag"
	"github.com/google/uuid"

	"github.com/ytget/gdsfx/internal/library"
	"github.com/ytget/gdsfx/internal/model"
	"github.com/ytget/gdsfx/internal/platform"
)

var (
	// ErrTaskNotFound is returned for unknown task ids
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoGameFolder is returned when no folder is configured for sound files
	ErrNoGameFolder = errors.New("game folder is not set")

	// ErrNotOgg is returned when a downloaded payload is not an OGG file
	ErrNotOgg = errors.New("payload is not an OGG file")

	// ErrNotSound is returned when a category is passed where a sound is expected
	ErrNotSound = errors.New("entry is not a sound")
)

const waitPollInterval = 50 * time.Millisecond

// job holds what a task needs besides its public state
type job struct {
	sound  *library.Entry
	cancel context.CancelFunc
}

// Service handles download operations
type Service struct {
	tasks       map[string]*model.DownloadTask
	jobs        map[string]*job
	order       []string // every task id in insertion order
	queue       []string // pending task ids
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	delivering  int // finished tasks whose updates are still being sent
	gameFolder  string
	fetcher     SoundFetcher
	tracker     Tracker
	logger      *log.Logger
	onUpdate    func(*model.DownloadTask) // callback for UI updates
}

// NewService creates a new download service
func NewService(fetcher SoundFetcher, gameFolder string, maxParallel int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		tasks:       make(map[string]*model.DownloadTask),
		jobs:        make(map[string]*job),
		maxParallel: max(maxParallel, 1),
		gameFolder:  gameFolder,
		fetcher:     fetcher,
		logger:      logger,
	}
}

// SetUpdateCallback sets the callback function for task updates.
// The callback receives a copy of the task and is never called with the lock held.
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// SetTracker registers a tracker for written and removed sound files
func (s *Service) SetTracker(tracker Tracker) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.tracker = tracker
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Service) SetMaxParallelDownloads(maxParallel int) {
	s.tasksMutex.Lock()
	s.maxParallel = max(maxParallel, 1)
	started := s.fillSlotsLocked()
	s.tasksMutex.Unlock()

	s.notifyUpdate(started...)
}

// SetGameFolder sets the folder sound files are written to
func (s *Service) SetGameFolder(dir string) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.gameFolder = dir
}

// GameFolder returns the folder sound files are written to
func (s *Service) GameFolder() string {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return s.gameFolder
}

// AddTask queues the download of a sound
func (s *Service) AddTask(sound *library.Entry) (*model.DownloadTask, error) {
	if sound == nil || !sound.IsSound() {
		return nil, ErrNotSound
	}

	s.tasksMutex.Lock()

	// Check for duplicate sounds
	for _, task := range s.tasks {
		if task.SoundID == sound.ID && !task.Status.IsFinished() {
			s.tasksMutex.Unlock()
			return nil, fmt.Errorf("task already exists for sound %d", sound.ID)
		}
	}

	task := &model.DownloadTask{
		ID:      generateTaskID(),
		SoundID: sound.ID,
		Name:    sound.Name,
		Status:  model.TaskStatusPending,
		Bytes:   sound.Bytes,
	}

	s.tasks[task.ID] = task
	s.jobs[task.ID] = &job{sound: sound}
	s.order = append(s.order, task.ID)
	s.queue = append(s.queue, task.ID)

	queued := *task
	started := s.fillSlotsLocked()
	if len(started) > 0 && started[0].ID == task.ID {
		queued = *started[0]
		started = started[1:]
	}
	s.tasksMutex.Unlock()

	s.notifyUpdate(&queued)
	s.notifyUpdate(started...)

	return &queued, nil
}

// GetTask returns a copy of the task with the given ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	snapshot := *task
	return &snapshot, true
}

// GetAllTasks returns copies of all tasks in the order they were added
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		snapshot := *s.tasks[id]
		tasks = append(tasks, &snapshot)
	}
	return tasks
}

// StopTask stops a pending or running task
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()

	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	switch {
	case task.Status == model.TaskStatusPending:
		s.queue = removeID(s.queue, id)
		task.Status = model.TaskStatusStopped
		task.FinishedAt = time.Now()
	case task.Status == model.TaskStatusDownloading:
		// The running goroutine records the final status once the fetch unwinds
		task.Status = model.TaskStatusStopping
		if j := s.jobs[id]; j != nil && j.cancel != nil {
			j.cancel()
		}
	default:
		s.tasksMutex.Unlock()
		return fmt.Errorf("task is not active: %s", task.Status)
	}

	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(&snapshot)
	return nil
}

// ClearFinished forgets every finished task and returns how many were removed
func (s *Service) ClearFinished() int {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	kept := s.order[:0]
	removed := 0
	for _, id := range s.order {
		if s.tasks[id].Status.IsFinished() {
			delete(s.tasks, id)
			delete(s.jobs, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed
}

// Wait blocks until no task is pending or running and every update of a
// finished task has been delivered to the update callback
func (s *Service) Wait(ctx context.Context) error {
	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for {
		if s.idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) idle() bool {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return s.activeCount == 0 && s.delivering == 0 && len(s.queue) == 0
}

// fillSlotsLocked starts pending tasks while there is capacity.
// It must be called with tasksMutex held and returns copies of the started tasks.
func (s *Service) fillSlotsLocked() []*model.DownloadTask {
	var started []*model.DownloadTask
	for s.activeCount < s.maxParallel && len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]

		task := s.tasks[id]
		j := s.jobs[id]
		ctx, cancel := context.WithCancel(context.Background())
		j.cancel = cancel

		s.activeCount++
		task.Status = model.TaskStatusDownloading
		task.StartedAt = time.Now()

		go s.runTask(ctx, task, j)

		snapshot := *task
		started = append(started, &snapshot)
	}
	return started
}

// runTask downloads one sound and records the outcome
func (s *Service) runTask(ctx context.Context, task *model.DownloadTask, j *job) {
	path, err := s.Store(ctx, j.sound)

	s.tasksMutex.Lock()
	stopped := task.Status == model.TaskStatusStopping || ctx.Err() != nil
	j.cancel()
	s.activeCount--
	s.delivering++

	switch {
	case err == nil:
		task.Status = model.TaskStatusCompleted
		task.OutputPath = path
	case stopped:
		task.Status = model.TaskStatusStopped
	default:
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
		s.logger.Printf("Download failed for task %s (sound %d): %v", task.ID, task.SoundID, err)
	}
	task.FinishedAt = time.Now()

	finished := *task
	started := s.fillSlotsLocked()
	s.tasksMutex.Unlock()

	s.notifyUpdate(&finished)
	s.notifyUpdate(started...)

	s.tasksMutex.Lock()
	s.delivering--
	s.tasksMutex.Unlock()
}

// Store fetches a sound, validates it and writes it into the game folder
func (s *Service) Store(ctx context.Context, sound *library.Entry) (string, error) {
	if sound == nil || !sound.IsSound() {
		return "", ErrNotSound
	}
	folder := s.GameFolder()
	if folder == "" {
		return "", ErrNoGameFolder
	}

	data, err := s.fetcher.Sound(ctx, sound.ID)
	if err != nil {
		return "", fmt.Errorf("fetch sound %d: %w", sound.ID, err)
	}
	if err := validateOgg(data); err != nil {
		return "", fmt.Errorf("sound %d: %w", sound.ID, err)
	}
	if sound.Bytes > 0 && int64(len(data)) != sound.Bytes {
		s.logger.Printf("Sound %d: library lists %d bytes, CDN sent %d", sound.ID, sound.Bytes, len(data))
	}

	if err := platform.CreateDirectoryIfNotExists(folder); err != nil {
		return "", fmt.Errorf("create game folder: %w", err)
	}
	path := filepath.Join(folder, library.SoundFileName(sound.ID))
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("write sound %d: %w", sound.ID, err)
	}

	if tracker := s.currentTracker(); tracker != nil {
		tracker.Add(sound.ID)
	}
	return path, nil
}

// Read returns the audio bytes of a sound. Files already in the game folder
// are read from disk; other sounds are fetched without being stored.
func (s *Service) Read(ctx context.Context, id int) ([]byte, error) {
	if path := s.Path(id); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read sound %d: %w", id, err)
		}
	}

	data, err := s.fetcher.Sound(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch sound %d: %w", id, err)
	}
	if err := validateOgg(data); err != nil {
		return nil, fmt.Errorf("sound %d: %w", id, err)
	}
	return data, nil
}

// Delete removes a sound file from the game folder. Deleting a missing file is not an error.
func (s *Service) Delete(id int) error {
	path := s.Path(id)
	if path == "" {
		return ErrNoGameFolder
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete sound %d: %w", id, err)
	}
	if tracker := s.currentTracker(); tracker != nil {
		tracker.Remove(id)
	}
	return nil
}

// DeleteAll removes every sound file from the game folder and returns how many were deleted
func (s *Service) DeleteAll() (int, error) {
	folder := s.GameFolder()
	if folder == "" {
		return 0, ErrNoGameFolder
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("list game folder: %w", err)
	}

	deleted := 0
	var errs []error
	for _, entry := range entries {
		id, ok := library.ParseSoundFileName(entry.Name())
		if !ok || entry.IsDir() {
			continue
		}
		if err := s.Delete(id); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}
	return deleted, errors.Join(errs...)
}

// Exists reports whether the sound file is present in the game folder
func (s *Service) Exists(id int) bool {
	path := s.Path(id)
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Path returns where the sound file lives in the game folder, or "" without a folder
func (s *Service) Path(id int) string {
	folder := s.GameFolder()
	if folder == "" {
		return ""
	}
	return filepath.Join(folder, library.SoundFileName(id))
}

func (s *Service) currentTracker() Tracker {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return s.tracker
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(tasks ...*model.DownloadTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	s.tasksMutex.RUnlock()

	if callback == nil {
		return
	}
	for _, task := range tasks {
		callback(task)
	}
}

// validateOgg checks the payload signature with the tag reader
func validateOgg(data []byte) error {
	_, fileType, err := tag.Identify(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotOgg, err)
	}
	if fileType != tag.OGG {
		return fmt.Errorf("%w: detected %q", ErrNotOgg, fileType)
	}
	return nil
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gdsfx-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return "task-" + uuid.NewString()
}
