package download

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/gdsfx/internal/cdn"
	"github.com/ytget/gdsfx/internal/library"
	"github.com/ytget/gdsfx/internal/model"
)

var oggPayload = []byte("OggS\x00\x02" + strings.Repeat("\x00", 58))

type recordingTracker struct {
	mu      sync.Mutex
	added   []int
	removed []int
}

func (r *recordingTracker) Add(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, id)
}

func (r *recordingTracker) Remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// newCDN serves oggPayload for every request unless a handler is given
func newCDN(t *testing.T, handler http.HandlerFunc) *cdn.Client {
	t.Helper()
	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(oggPayload)
		}
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return cdn.NewClient(server.URL, cdn.WithRetry(0, 0), cdn.WithLogger(quietLogger()))
}

func newTestService(t *testing.T, handler http.HandlerFunc, maxParallel int) *Service {
	t.Helper()
	return NewService(newCDN(t, handler), t.TempDir(), maxParallel, quietLogger())
}

func waitIdle(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestNewService(t *testing.T) {
	service := NewService(nil, "/tmp/gd", 0, nil)

	assert.Equal(t, "/tmp/gd", service.GameFolder())
	assert.Equal(t, 1, service.maxParallel)
	assert.Empty(t, service.tasks)
	assert.NotNil(t, service.logger)
}

func TestStore_WritesValidatedFile(t *testing.T) {
	service := newTestService(t, nil, 1)
	tracker := &recordingTracker{}
	service.SetTracker(tracker)

	sound := library.NewSound(42, "Boom", 10, 50, int64(len(oggPayload)))
	path, err := service.Store(context.Background(), sound)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(service.GameFolder(), "s42.ogg"), path)
	assert.Equal(t, path, service.Path(42))
	assert.True(t, service.Exists(42))
	assert.False(t, service.Exists(43))
	assert.Equal(t, []int{42}, tracker.added)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, oggPayload, data)
}

func TestStore_RejectsBadPayloads(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>definitely not audio</html>")
	}, 1)

	_, err := service.Store(context.Background(), library.NewSound(1, "Bad", 10, 1, 1))
	assert.ErrorIs(t, err, ErrNotOgg)
	assert.False(t, service.Exists(1))

	entries, err := os.ReadDir(service.GameFolder())
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files may be left behind")
}

func TestStore_Errors(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}, 1)

	_, err := service.Store(context.Background(), library.NewCategory(10, "Folder", 1))
	assert.ErrorIs(t, err, ErrNotSound)

	_, err = service.Store(context.Background(), library.NewSound(5, "Gone", 10, 1, 1))
	assert.ErrorIs(t, err, cdn.ErrNotFound)

	service.SetGameFolder("")
	_, err = service.Store(context.Background(), library.NewSound(5, "Gone", 10, 1, 1))
	assert.ErrorIs(t, err, ErrNoGameFolder)
	assert.Empty(t, service.Path(5))
	assert.False(t, service.Exists(5))
}

func TestAddTask_Completes(t *testing.T) {
	service := newTestService(t, nil, 2)

	var mu sync.Mutex
	var updates []model.TaskStatus
	service.SetUpdateCallback(func(task *model.DownloadTask) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, task.Status)
	})

	task, err := service.AddTask(library.NewSound(7, "Click", 10, 10, 64))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(task.ID, "task-"))
	assert.Equal(t, 7, task.SoundID)
	assert.Equal(t, "Click", task.Name)

	waitIdle(t, service)

	done, ok := service.GetTask(task.ID)
	require.True(t, ok)
	assert.Equal(t, model.TaskStatusCompleted, done.Status)
	assert.Equal(t, service.Path(7), done.OutputPath)
	assert.False(t, done.FinishedAt.IsZero())
	assert.True(t, service.Exists(7))

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, updates, model.TaskStatusCompleted)
}

func TestAddTask_Validation(t *testing.T) {
	release := make(chan struct{})
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write(oggPayload)
	}, 1)

	_, err := service.AddTask(nil)
	assert.ErrorIs(t, err, ErrNotSound)

	_, err = service.AddTask(library.NewCategory(3, "Folder", 1))
	assert.ErrorIs(t, err, ErrNotSound)

	sound := library.NewSound(9, "Hit", 10, 1, 1)
	_, err = service.AddTask(sound)
	require.NoError(t, err)

	_, err = service.AddTask(sound)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists for sound 9")

	close(release)
	waitIdle(t, service)
}

func TestAddTask_RespectsParallelLimit(t *testing.T) {
	release := make(chan struct{})
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write(oggPayload)
	}, 1)

	first, err := service.AddTask(library.NewSound(1, "One", 10, 1, 1))
	require.NoError(t, err)
	second, err := service.AddTask(library.NewSound(2, "Two", 10, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, model.TaskStatusDownloading, first.Status)
	assert.Equal(t, model.TaskStatusPending, second.Status)

	tasks := service.GetAllTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)

	close(release)
	waitIdle(t, service)

	for _, task := range service.GetAllTasks() {
		assert.Equal(t, model.TaskStatusCompleted, task.Status, task.Name)
	}
}

func TestStopTask(t *testing.T) {
	started := make(chan struct{}, 1)
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-r.Context().Done()
	}, 1)

	running, err := service.AddTask(library.NewSound(1, "One", 10, 1, 1))
	require.NoError(t, err)
	pending, err := service.AddTask(library.NewSound(2, "Two", 10, 1, 1))
	require.NoError(t, err)

	require.NoError(t, service.StopTask(pending.ID))
	stopped, _ := service.GetTask(pending.ID)
	assert.Equal(t, model.TaskStatusStopped, stopped.Status)

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("download never reached the CDN")
	}
	require.NoError(t, service.StopTask(running.ID))
	waitIdle(t, service)

	stopped, _ = service.GetTask(running.ID)
	assert.Equal(t, model.TaskStatusStopped, stopped.Status)
	assert.False(t, service.Exists(1))

	err = service.StopTask(running.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active")

	err = service.StopTask("task-missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.Equal(t, 2, service.ClearFinished())
	assert.Empty(t, service.GetAllTasks())
}

func TestAddTask_RecordsErrors(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, 1)

	task, err := service.AddTask(library.NewSound(3, "Locked", 10, 1, 1))
	require.NoError(t, err)
	waitIdle(t, service)

	failed, ok := service.GetTask(task.ID)
	require.True(t, ok)
	assert.Equal(t, model.TaskStatusError, failed.Status)
	assert.Contains(t, failed.LastError, "403")
}

func TestAddTask_InvalidPayloadIsError(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>not found</html>")
	}, 1)

	var mu sync.Mutex
	var updates []model.TaskStatus
	service.SetUpdateCallback(func(task *model.DownloadTask) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, task.Status)
	})

	task, err := service.AddTask(library.NewSound(5, "Broken", 10, 1, 1))
	require.NoError(t, err)
	waitIdle(t, service)

	failed, ok := service.GetTask(task.ID)
	require.True(t, ok)
	assert.Equal(t, model.TaskStatusError, failed.Status)
	assert.Contains(t, failed.LastError, ErrNotOgg.Error())
	assert.False(t, service.Exists(5))

	// Wait returns only after the final update was delivered
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, updates)
	assert.Equal(t, model.TaskStatusError, updates[len(updates)-1])
}

func TestRead(t *testing.T) {
	var calls int
	var mu sync.Mutex
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		_, _ = w.Write(oggPayload)
	}, 1)

	local := append([]byte(nil), oggPayload...)
	local[5] = 0x04
	require.NoError(t, os.WriteFile(service.Path(8), local, 0o644))

	data, err := service.Read(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, local, data)

	data, err = service.Read(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, oggPayload, data)
	assert.False(t, service.Exists(9), "read must not store")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestDelete(t *testing.T) {
	service := newTestService(t, nil, 1)
	tracker := &recordingTracker{}
	service.SetTracker(tracker)

	for _, id := range []int{1, 2, 3} {
		_, err := service.Store(context.Background(), library.NewSound(id, "x", 10, 1, 1))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(service.GameFolder(), "CCGameManager.dat"), []byte("save"), 0o644))

	require.NoError(t, service.Delete(2))
	assert.False(t, service.Exists(2))
	require.NoError(t, service.Delete(2), "deleting twice is fine")

	deleted, err := service.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.False(t, service.Exists(1))
	assert.FileExists(t, filepath.Join(service.GameFolder(), "CCGameManager.dat"))
	assert.ElementsMatch(t, []int{2, 2, 1, 3}, tracker.removed)

	service.SetGameFolder("")
	assert.ErrorIs(t, service.Delete(1), ErrNoGameFolder)
	_, err = service.DeleteAll()
	assert.True(t, errors.Is(err, ErrNoGameFolder))
}

func TestSetMaxParallelDownloads(t *testing.T) {
	release := make(chan struct{})
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write(oggPayload)
	}, 1)

	_, err := service.AddTask(library.NewSound(1, "One", 10, 1, 1))
	require.NoError(t, err)
	second, err := service.AddTask(library.NewSound(2, "Two", 10, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, second.Status)

	service.SetMaxParallelDownloads(2)
	now, _ := service.GetTask(second.ID)
	assert.Equal(t, model.TaskStatusDownloading, now.Status)

	service.SetMaxParallelDownloads(-4)
	assert.Equal(t, 1, service.maxParallel)

	close(release)
	waitIdle(t, service)
}
