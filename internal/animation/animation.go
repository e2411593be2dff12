// Package animation holds the state and math behind the orbiting rainbow
// target: the angular accumulator, the hue phase and the per-radius colors.
package animation

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// AccumulatorScale divides the accumulated microseconds into degrees,
	// giving 100 degrees per second.
	AccumulatorScale = 10000.0
	// OrbitX and OrbitY are the radii of the elliptical orbit in pixels.
	OrbitX = 8.0
	OrbitY = 4.0
	// Overscan extends the sweep past the panel center so the outermost
	// rings still cover the corners while the anchor orbits.
	Overscan = 8
	// HueStep is the hue change between adjacent rings in degrees.
	HueStep = 3.0
	// Saturation and Value are fixed for every ring color.
	Saturation = 1.0
	Value      = 0.5
)

// State is the animation state advanced once per frame.
type State struct {
	Acc uint64  // accumulated microseconds, wraps with the trig period
	Hue float64 // global hue phase in degrees
}

// Advance adds delta to the accumulator. Negative deltas are ignored.
func (s *State) Advance(delta time.Duration) {
	if delta > 0 {
		s.Acc += uint64(delta / time.Microsecond)
	}
}

// Angle returns the orbit angle in radians.
func (s *State) Angle() float64 {
	return (float64(s.Acc) / AccumulatorScale) * (math.Pi / 180.0)
}

// StepHue advances the hue phase by one degree, starting over past 360.
func (s *State) StepHue() {
	if s.Hue += 1.0; s.Hue > 360.0 {
		s.Hue = 0
	}
}

// Timing measures the time between frames.
type Timing struct {
	last    time.Time
	started bool
}

// Tick records now and returns the time since the previous tick. The first
// tick and any clock step backwards return zero.
func (t *Timing) Tick(now time.Time) time.Duration {
	if !t.started {
		t.last, t.started = now, true
		return 0
	}
	delta := now.Sub(t.last)
	t.last = now
	if delta < 0 {
		return 0
	}
	return delta
}

// WrapHue folds h into [0, 360).
func WrapHue(h float64) float64 {
	h = math.Mod(h, 360.0)
	if h < 0 {
		h += 360.0
	}
	return h
}

// HueColor converts a hue to the ring color at fixed saturation and value.
func HueColor(h float64) color.RGBA {
	r, g, b := colorful.Hsv(WrapHue(h), Saturation, Value).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Anchor returns the orbiting center for angle around (cx, cy).
func Anchor(cx, cy int, angle float64) image.Point {
	return image.Point{
		X: int(float64(cx) + math.Cos(angle)*OrbitX),
		Y: int(float64(cy) + math.Sin(angle)*OrbitY),
	}
}

// Ring is one radius of the sweep and its color hue.
type Ring struct {
	Radius int
	Hue    float64
}

// Sweep returns the rings from radius 1 out to cx+Overscan. Inner rings get
// the largest hue offset so the gradient runs outwards. A center that leaves
// no positive radius yields no rings.
func Sweep(cx int, hue float64) []Ring {
	outer := cx + Overscan
	if outer < 1 {
		return nil
	}
	rings := make([]Ring, 0, outer)
	for radius := 1; radius <= outer; radius++ {
		rings = append(rings, Ring{
			Radius: radius,
			Hue:    WrapHue(RingHue(cx, radius, hue)),
		})
	}
	return rings
}

// RingHue is the unwrapped hue of a ring.
func RingHue(cx, radius int, hue float64) float64 {
	return hue + float64(cx+Overscan-radius)*HueStep
}

// FormatTime renders t as zero padded 24-hour HH:MM:SS.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}
