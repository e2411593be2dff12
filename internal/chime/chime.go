//go:build chime

// Package chime strikes the hour on the default audio device. The speaker
// needs cgo and is only built with the chime tag.
package chime

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// Chime plays one bell per hour struck
type Chime struct {
	mu          sync.Mutex
	initialized bool
	volume      float64
}

// New creates a chime. volume is in halvings of amplitude, 0 is full scale.
func New(volume float64) *Chime {
	return &Chime{volume: volume}
}

// Init opens the speaker
func (c *Chime) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	c.initialized = true
	return nil
}

// Strike queues hour bells and returns without waiting for them
func (c *Chime) Strike(hour int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || hour <= 0 {
		return
	}
	slog.Debug("chime", "hour", hour)
	speaker.Play(&effects.Volume{
		Streamer: Bells(sampleRate, hour),
		Base:     2,
		Volume:   -c.volume,
	})
}

// Close silences and closes the speaker
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}
