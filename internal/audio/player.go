package audio

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
)

const (
	sampleRate      = beep.SampleRate(44100)
	bufferDuration  = 100 * time.Millisecond
	resampleQuality = 4
)

// Output is the device sounds are played on
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Clear()
	Close()
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error { return speaker.Init(sr, bufferSize) }
func (speakerOutput) Play(s ...beep.Streamer)                       { speaker.Play(s...) }
func (speakerOutput) Clear()                                        { speaker.Clear() }
func (speakerOutput) Close()                                        { speaker.Close() }

// Player plays one OGG Vorbis sound at a time
type Player struct {
	mu          sync.Mutex
	output      Output
	initialized bool
	current     *beep.Ctrl
	decoder     beep.StreamSeekCloser
	onFinish    func()
	logger      *log.Logger
}

// NewPlayer creates a player on the system speaker. The speaker is opened on first use.
func NewPlayer(logger *log.Logger) *Player {
	return NewPlayerWithOutput(speakerOutput{}, logger)
}

// NewPlayerWithOutput creates a player on a custom output
func NewPlayerWithOutput(output Output, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{output: output, logger: logger}
}

// SetFinishCallback sets a function called when a sound plays to the end
func (p *Player) SetFinishCallback(callback func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinish = callback
}

// Play decodes data and plays it, stopping whatever was playing before
func (p *Player) Play(data []byte) error {
	decoder, format, err := vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode sound: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.initLocked(); err != nil {
		decoder.Close()
		return err
	}
	p.stopLocked()

	var stream beep.Streamer = decoder
	if format.SampleRate != sampleRate {
		stream = beep.Resample(resampleQuality, format.SampleRate, sampleRate, stream)
	}

	ctrl := &beep.Ctrl{Streamer: stream}
	p.current = ctrl
	p.decoder = decoder

	// the callback runs on the speaker goroutine with the speaker locked
	p.output.Play(beep.Seq(ctrl, beep.Callback(func() {
		go p.finished(ctrl)
	})))
	return nil
}

// Playing reports whether a sound is currently playing
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Stop stops the current sound
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Close stops playback and releases the output
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	if p.initialized {
		p.output.Close()
		p.initialized = false
	}
}

func (p *Player) initLocked() error {
	if p.initialized {
		return nil
	}
	if err := p.output.Init(sampleRate, sampleRate.N(bufferDuration)); err != nil {
		return fmt.Errorf("init audio output: %w", err)
	}
	p.initialized = true
	return nil
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	p.output.Clear()
	p.releaseLocked()
}

func (p *Player) releaseLocked() {
	if p.decoder != nil {
		if err := p.decoder.Close(); err != nil {
			p.logger.Printf("audio: close decoder: %v", err)
		}
	}
	p.current = nil
	p.decoder = nil
}

func (p *Player) finished(ctrl *beep.Ctrl) {
	p.mu.Lock()
	if p.current != ctrl {
		p.mu.Unlock()
		return
	}
	p.releaseLocked()
	callback := p.onFinish
	p.mu.Unlock()

	if callback != nil {
		callback()
	}
}
