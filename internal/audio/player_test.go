package audio

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutput struct {
	initErr error
	inits   int
	plays   int
	clears  int
	closes  int
}

func (f *fakeOutput) Init(beep.SampleRate, int) error {
	f.inits++
	return f.initErr
}

func (f *fakeOutput) Play(...beep.Streamer) { f.plays++ }
func (f *fakeOutput) Clear()                { f.clears++ }
func (f *fakeOutput) Close()                { f.closes++ }

func newTestPlayer(out Output) *Player {
	return NewPlayerWithOutput(out, log.New(io.Discard, "", 0))
}

func TestPlayer_RejectsUndecodableData(t *testing.T) {
	out := &fakeOutput{}
	player := newTestPlayer(out)

	err := player.Play([]byte("definitely not vorbis"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode sound")

	// nothing touches the device for bad input
	assert.Zero(t, out.inits)
	assert.Zero(t, out.plays)
	assert.False(t, player.Playing())
}

func TestPlayer_StopAndCloseWithoutPlayback(t *testing.T) {
	out := &fakeOutput{}
	player := newTestPlayer(out)

	player.Stop()
	player.Close()
	player.Close()

	assert.Zero(t, out.clears)
	assert.Zero(t, out.closes)
}

func TestPlayer_InitOnce(t *testing.T) {
	out := &fakeOutput{}
	player := newTestPlayer(out)

	player.mu.Lock()
	require.NoError(t, player.initLocked())
	require.NoError(t, player.initLocked())
	player.mu.Unlock()
	assert.Equal(t, 1, out.inits)

	player.Close()
	assert.Equal(t, 1, out.closes)
}

func TestPlayer_InitError(t *testing.T) {
	out := &fakeOutput{initErr: errors.New("no device")}
	player := newTestPlayer(out)

	player.mu.Lock()
	err := player.initLocked()
	player.mu.Unlock()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "init audio output")
	assert.False(t, player.initialized)
}

func TestPlayer_FinishedIgnoresStaleStreams(t *testing.T) {
	out := &fakeOutput{}
	player := newTestPlayer(out)

	calls := 0
	player.SetFinishCallback(func() { calls++ })

	current := &beep.Ctrl{}
	player.current = current

	player.finished(&beep.Ctrl{})
	assert.True(t, player.Playing())
	assert.Zero(t, calls)

	player.finished(current)
	assert.False(t, player.Playing())
	assert.Equal(t, 1, calls)
}
