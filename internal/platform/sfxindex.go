package platform

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ytget/gdsfx/internal/library"
)

// DefaultRefreshDelay is how long the index waits for file events to settle before rescanning
const DefaultRefreshDelay = 250 * time.Millisecond

// SoundIndex keeps the set of sound ids whose files exist in a folder.
// Changes made by other programs are picked up through a file watcher.
type SoundIndex struct {
	dir     string
	watcher *fsnotify.Watcher
	logger  *log.Logger

	mu       sync.RWMutex
	ids      map[int]struct{}
	onChange func()

	refreshMu    sync.Mutex
	refreshTimer *time.Timer
	refreshDelay time.Duration

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// NewSoundIndex scans dir and starts watching it. A missing dir yields an empty
// index that is not watched.
func NewSoundIndex(dir string, debounce time.Duration, logger *log.Logger) (*SoundIndex, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}
	if debounce <= 0 {
		debounce = DefaultRefreshDelay
	}

	idx := &SoundIndex{
		dir:          dir,
		watcher:      watcher,
		logger:       logger,
		ids:          make(map[int]struct{}),
		refreshDelay: debounce,
		done:         make(chan struct{}),
	}

	if err := idx.refresh(); err != nil {
		watcher.Close()
		return nil, err
	}

	if dir != "" {
		if err := watcher.Add(dir); err != nil {
			logger.Printf("sound index: not watching %s: %v", dir, err)
		}
	}

	idx.wg.Add(1)
	go idx.run()

	return idx, nil
}

// Dir returns the indexed folder
func (i *SoundIndex) Dir() string {
	return i.dir
}

// SetChangeCallback sets a function called after the index changes
func (i *SoundIndex) SetChangeCallback(callback func()) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.onChange = callback
}

// Exists reports whether the sound file for id is present
func (i *SoundIndex) Exists(id int) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.ids[id]
	return ok
}

// Count returns how many sound files are present
func (i *SoundIndex) Count() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.ids)
}

// IDs returns the present sound ids in ascending order
func (i *SoundIndex) IDs() []int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	ids := make([]int, 0, len(i.ids))
	for id := range i.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Add marks id as present without waiting for the watcher
func (i *SoundIndex) Add(id int) {
	i.mu.Lock()
	_, had := i.ids[id]
	i.ids[id] = struct{}{}
	callback := i.onChange
	i.mu.Unlock()

	if !had && callback != nil {
		callback()
	}
}

// Remove marks id as absent without waiting for the watcher
func (i *SoundIndex) Remove(id int) {
	i.mu.Lock()
	_, had := i.ids[id]
	delete(i.ids, id)
	callback := i.onChange
	i.mu.Unlock()

	if had && callback != nil {
		callback()
	}
}

// Close stops the watcher and cleans up resources.
func (i *SoundIndex) Close() error {
	i.closeOnce.Do(func() {
		close(i.done)

		i.refreshMu.Lock()
		if i.refreshTimer != nil {
			i.refreshTimer.Stop()
			i.refreshTimer = nil
		}
		i.refreshMu.Unlock()

		i.closeErr = i.watcher.Close()
		i.wg.Wait()
	})
	return i.closeErr
}

func (i *SoundIndex) run() {
	defer i.wg.Done()

	for {
		select {
		case event, ok := <-i.watcher.Events:
			if !ok {
				return
			}
			i.handleEvent(event)
		case err, ok := <-i.watcher.Errors:
			if !ok {
				return
			}
			i.logger.Printf("sound index: watcher error: %v", err)
		case <-i.done:
			return
		}
	}
}

func (i *SoundIndex) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if _, ok := library.ParseSoundFileName(filepath.Base(event.Name)); ok {
		i.scheduleRefresh()
	}
}

func (i *SoundIndex) refresh() error {
	ids := make(map[int]struct{})

	if i.dir != "" {
		entries, err := os.ReadDir(i.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if id, ok := library.ParseSoundFileName(entry.Name()); ok {
				ids[id] = struct{}{}
			}
		}
	}

	i.mu.Lock()
	changed := !sameKeys(i.ids, ids)
	i.ids = ids
	callback := i.onChange
	i.mu.Unlock()

	if changed && callback != nil {
		callback()
	}
	return nil
}

func (i *SoundIndex) scheduleRefresh() {
	select {
	case <-i.done:
		return
	default:
	}

	i.refreshMu.Lock()
	defer i.refreshMu.Unlock()

	if i.refreshTimer != nil {
		i.refreshTimer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(i.refreshDelay, func() {
		if err := i.refresh(); err != nil {
			i.logger.Printf("sound index: refresh error: %v", err)
		}

		i.refreshMu.Lock()
		if i.refreshTimer == timer {
			i.refreshTimer = nil
		}
		i.refreshMu.Unlock()
	})

	i.refreshTimer = timer
}

func sameKeys(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
