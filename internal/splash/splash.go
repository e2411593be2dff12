// Package splash shows a clock face while the clock starts up.
package splash

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/danielesteban/clock/internal/types"
	"github.com/danielesteban/clock/pkg/graphics"
)

//go:embed clockface.svg
var clockFace []byte

var (
	hourHand   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	minuteHand = color.RGBA{R: 0xff, G: 0xd0, B: 0x40, A: 0xff}
)

// Render rasterises the clock face centered on a w by h image.
func Render(w, h int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(clockFace), oksvg.StrictErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse clock face: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	size := min(w, h)
	if size <= 0 {
		return img, nil
	}
	icon.SetTarget(float64(w-size)/2, float64(h-size)/2, float64(size), float64(size))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// Hands draws the hour and minute hands for t on c.
func Hands(c draw.Image, t time.Time) {
	b := c.Bounds()
	cx, cy := b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2
	radius := float64(min(b.Dx(), b.Dy())) / 2

	minutes := float64(t.Minute()) + float64(t.Second())/60
	hours := float64(t.Hour()%12) + minutes/60
	hand(c, cx, cy, hours/12, radius*0.45, hourHand)
	hand(c, cx, cy, minutes/60, radius*0.7, minuteHand)
}

// hand draws a line from the center at turn fractions of a revolution,
// clockwise from twelve.
func hand(c draw.Image, cx, cy int, turn, length float64, col color.Color) {
	a := turn * 2 * math.Pi
	x := cx + int(math.Round(math.Sin(a)*length))
	y := cy - int(math.Round(math.Cos(a)*length))
	graphics.DrawLine(c, cx, cy, x, y, col)
}

// Show displays the clock face until d has passed or stop is set and
// returns the number of frames shown.
func Show(surface types.Surface, clock types.Clock, stop types.Flag, d time.Duration) (int, error) {
	canvas := surface.CreateCanvas()
	b := canvas.Bounds()
	face, err := Render(b.Dx(), b.Dy())
	if err != nil {
		return 0, err
	}

	start := clock.Now()
	frames := 0
	for !stop.Load() {
		now := clock.Now()
		if now.Sub(start) >= d {
			break
		}
		draw.Draw(canvas, b, face, image.Point{}, draw.Src)
		Hands(canvas, now)
		canvas = surface.SwapOnVSync(canvas)
		frames++
	}
	return frames, nil
}
