package splash

import (
	"image"
	"image/color"
	"image/draw"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielesteban/clock/internal/types"
)

type fakeCanvas struct {
	*image.RGBA
}

func (c fakeCanvas) Clear() {
	draw.Draw(c.RGBA, c.Bounds(), image.Black, image.Point{}, draw.Src)
}

type fakeSurface struct {
	w, h  int
	swaps int
	shown types.Canvas
}

func (s *fakeSurface) CreateCanvas() types.Canvas {
	return fakeCanvas{image.NewRGBA(image.Rect(0, 0, s.w, s.h))}
}

func (s *fakeSurface) SwapOnVSync(c types.Canvas) types.Canvas {
	s.swaps++
	prev := s.shown
	if prev == nil {
		prev = s.CreateCanvas()
	}
	s.shown = c
	return prev
}

type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestRender(t *testing.T) {
	img, err := Render(64, 32)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 64, 32) {
		t.Errorf("Bounds() = %v", got)
	}
	// The face is centered, leaving the sides empty.
	if got := img.RGBAAt(2, 16); got != (color.RGBA{}) {
		t.Errorf("pixel (2, 16) = %v, want empty", got)
	}
	if got := img.RGBAAt(32, 16); got.A == 0 {
		t.Error("center of the face not drawn")
	}
}

func TestRenderEmpty(t *testing.T) {
	img, err := Render(0, 0)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !img.Bounds().Empty() {
		t.Errorf("Bounds() = %v, want empty", img.Bounds())
	}
}

func TestShow(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		stopped  bool
		want     int
	}{
		{name: "runs for duration", duration: 50 * time.Millisecond, want: 4},
		{name: "zero duration", duration: 0, want: 0},
		{name: "stopped", duration: time.Second, stopped: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := &fakeSurface{w: 64, h: 32}
			clock := &fakeClock{now: time.Date(2024, 1, 1, 3, 0, 0, 0, time.Local), step: 10 * time.Millisecond}
			var stop atomic.Bool
			stop.Store(tt.stopped)

			frames, err := Show(surface, clock, &stop, tt.duration)
			if err != nil {
				t.Fatalf("Show() error = %v", err)
			}
			if frames != tt.want || surface.swaps != tt.want {
				t.Errorf("Show() = %d frames, %d swaps, want %d", frames, surface.swaps, tt.want)
			}
		})
	}
}

func TestHands(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	// 3:00 points the hour hand right and the minute hand up.
	Hands(img, time.Date(2024, 1, 1, 15, 0, 0, 0, time.Local))
	if got := img.RGBAAt(20, 16); got != hourHand {
		t.Errorf("pixel (20, 16) = %v, want hour hand", got)
	}
	if got := img.RGBAAt(16, 6); got != minuteHand {
		t.Errorf("pixel (16, 6) = %v, want minute hand", got)
	}
}
