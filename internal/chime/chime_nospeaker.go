//go:build !chime

// Package chime strikes the hour on the default audio device. This build has
// no speaker; rebuild with -tags chime to hear it.
package chime

import "errors"

// ErrNotBuilt is returned by Init when the binary has no speaker support.
var ErrNotBuilt = errors.New("chime support not built in (build with -tags chime)")

// Chime stands in for the speaker-backed chime
type Chime struct{}

// New creates a chime that never sounds
func New(volume float64) *Chime {
	return &Chime{}
}

// Init always fails with ErrNotBuilt
func (c *Chime) Init() error {
	return ErrNotBuilt
}

// Strike does nothing
func (c *Chime) Strike(hour int) {}

// Close does nothing
func (c *Chime) Close() {}
