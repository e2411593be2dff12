package display

import (
	"image"
	"image/color"
	"time"

	"github.com/danielesteban/clock/internal/animation"
	"github.com/danielesteban/clock/internal/types"
	"github.com/danielesteban/clock/pkg/graphics"
)

// Text position relative to the top left corner and the font baseline.
const (
	textX       = 4
	textYOffset = 9
)

type state int

const (
	stateRunning state = iota
	stateStopped
)

// SystemClock reads the local wall clock
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time { return time.Now() }

// Renderer draws the animated clock, one frame per vertical sync
type Renderer struct {
	surface types.Surface
	font    *graphics.Font
	clock   types.Clock
	chimer  types.Chimer

	canvas   types.Canvas
	anim     animation.State
	timing   animation.Timing
	lastHour int
	state    state
}

// NewRenderer creates a renderer drawing onto surface. A nil font skips
// the time text.
func NewRenderer(surface types.Surface, font *graphics.Font, clock types.Clock) *Renderer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Renderer{
		surface:  surface,
		font:     font,
		clock:    clock,
		canvas:   surface.CreateCanvas(),
		lastHour: -1,
	}
}

// SetChimer strikes the hour through c whenever the hour changes
func (r *Renderer) SetChimer(c types.Chimer) {
	r.chimer = c
}

// Run draws frames until stop is set and returns the number drawn. The
// flag is read once per frame, before any drawing.
func (r *Renderer) Run(stop types.Flag) int {
	frames := 0
	for r.state == stateRunning {
		if stop.Load() {
			r.state = stateStopped
			break
		}
		r.Frame()
		frames++
	}
	return frames
}

// Frame draws a single frame and blocks in the swap until it is shown.
func (r *Renderer) Frame() {
	now := r.clock.Now()
	delta := r.timing.Tick(now)
	text := animation.FormatTime(now)

	c := r.canvas
	c.Clear()

	r.anim.Advance(delta)
	b := c.Bounds()
	cx, cy := b.Dx()/2, b.Dy()/2
	anchor := animation.Anchor(cx, cy, r.anim.Angle())

	rings := animation.Sweep(cx, r.anim.Hue)
	for _, ring := range rings {
		drawSquare(c, anchor, ring.Radius, animation.HueColor(ring.Hue))
	}
	for _, ring := range rings {
		graphics.DrawCircle(c, anchor.X, anchor.Y, ring.Radius, animation.HueColor(ring.Hue))
	}
	r.anim.StepHue()

	if r.font != nil {
		graphics.DrawText(c, r.font, textX, r.font.Baseline()+textYOffset, color.Black, text)
	}
	r.chime(now)

	r.canvas = r.surface.SwapOnVSync(c)
}

func (r *Renderer) chime(now time.Time) {
	hour := now.Hour()
	if r.lastHour >= 0 && hour != r.lastHour && r.chimer != nil {
		strikes := hour % 12
		if strikes == 0 {
			strikes = 12
		}
		r.chimer.Strike(strikes)
	}
	r.lastHour = hour
}

// drawSquare outlines the square of half extent radius around p.
func drawSquare(c types.Canvas, p image.Point, radius int, col color.Color) {
	left, right := p.X-radius, p.X+radius-1
	top, bottom := p.Y-radius, p.Y+radius-1
	graphics.DrawLine(c, left, bottom, right, bottom, col)
	graphics.DrawLine(c, left, top, right, top, col)
	graphics.DrawLine(c, left, bottom, left, top, col)
	graphics.DrawLine(c, right, bottom, right, top, col)
}
