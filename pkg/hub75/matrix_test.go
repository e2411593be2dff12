package hub75

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// fakeOutput records the canvases it was asked to show.
type fakeOutput struct {
	mu     sync.Mutex
	shown  []*FrameCanvas
	closed bool
}

func (f *fakeOutput) Refresh(c *FrameCanvas, m *colorMapper) error {
	f.mu.Lock()
	f.shown = append(f.shown, c)
	f.mu.Unlock()
	time.Sleep(100 * time.Microsecond)
	return nil
}

func (f *fakeOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeOutput) last() *FrameCanvas {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shown[len(f.shown)-1]
}

func testMatrix(t *testing.T) (*Matrix, *fakeOutput) {
	t.Helper()
	o := DefaultOptions()
	o.ChainLength = 2
	out := &fakeOutput{}
	m, err := newMatrix(o, out, slog.LevelInfo)
	if err != nil {
		t.Fatalf("newMatrix() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m, out
}

func TestNewMatrixInvalidOptions(t *testing.T) {
	o := DefaultOptions()
	o.Brightness = 0
	if _, err := New(o, DefaultRuntimeOptions()); err == nil {
		t.Error("New() with invalid brightness did not return error")
	}
}

func TestMatrixDimensions(t *testing.T) {
	m, _ := testMatrix(t)
	if m.Width() != 64 || m.Height() != 32 {
		t.Errorf("dimensions = %dx%d, want 64x32", m.Width(), m.Height())
	}

	m.ApplyStaticTransformer(RotateTransformer(90))
	if m.Width() != 32 || m.Height() != 64 {
		t.Errorf("rotated dimensions = %dx%d, want 32x64", m.Width(), m.Height())
	}
	c := m.CreateFrameCanvas()
	if c.Bounds() != image.Rect(0, 0, 32, 64) {
		t.Errorf("canvas bounds = %v, want 32x64", c.Bounds())
	}
}

func TestSwapOnVSync(t *testing.T) {
	m, out := testMatrix(t)

	first := m.CreateFrameCanvas()
	first.SetPixel(1, 1, 255, 0, 0)
	prev := m.SwapOnVSync(first)
	if prev == nil || prev == first {
		t.Fatalf("SwapOnVSync() returned %p, want the previous canvas", prev)
	}

	second := prev
	second.Clear()
	if got := m.SwapOnVSync(second); got != first {
		t.Errorf("SwapOnVSync() returned %p, want first canvas %p", got, first)
	}

	// The refresh loop picks up the new canvas at the next frame.
	deadline := time.Now().Add(time.Second)
	for out.last() != second {
		if time.Now().After(deadline) {
			t.Fatal("output never refreshed the swapped canvas")
		}
		time.Sleep(time.Millisecond)
	}
	if m.Frames() == 0 {
		t.Error("Frames() = 0 after swaps")
	}
}

func TestSwapKeepsStaticRotation(t *testing.T) {
	m, _ := testMatrix(t)
	m.ApplyStaticTransformer(RotateTransformer(180))

	red := color.RGBA{R: 0xff, A: 0xff}
	canvas := m.CreateFrameCanvas()
	for frame := 0; frame < 4; frame++ {
		canvas.Clear()
		canvas.Set(0, 0, red)
		if got := canvas.physical(63, 31); got != red {
			t.Errorf("frame %d: logical (0, 0) not at physical (63, 31), transformer %T", frame, canvas.t)
		}
		if canvas.Bounds() != image.Rect(0, 0, 64, 32) {
			t.Errorf("frame %d: bounds = %v, want 64x32", frame, canvas.Bounds())
		}
		canvas = m.SwapOnVSync(canvas)
	}

	// A quarter turn applied mid-stream reaches recycled canvases too.
	m.ApplyStaticTransformer(RotateTransformer(90))
	canvas = m.SwapOnVSync(canvas)
	if canvas.Bounds() != image.Rect(0, 0, 32, 64) {
		t.Errorf("bounds after rotating 90 = %v, want 32x64", canvas.Bounds())
	}
}

func TestMatrixClear(t *testing.T) {
	m, out := testMatrix(t)

	c := m.CreateFrameCanvas()
	c.Fill(color.White)
	m.SwapOnVSync(c)
	m.Clear()
	m.SwapOnVSync(m.CreateFrameCanvas())

	shown := out.last()
	for y := 0; y < shown.Height(); y++ {
		for x := 0; x < shown.Width(); x++ {
			if got := shown.At(x, y); got != (color.RGBA{}) {
				t.Fatalf("pixel (%d, %d) = %v after Clear(), want off", x, y, got)
			}
		}
	}
}

func TestMatrixClose(t *testing.T) {
	m, out := testMatrix(t)
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !out.closed {
		t.Error("Close() did not close the output")
	}

	c := m.CreateFrameCanvas()
	if got := m.SwapOnVSync(c); got != c {
		t.Error("SwapOnVSync() on closed matrix did not return its argument")
	}
	if err := m.SetBrightness(50); !errors.Is(err, ErrClosed) {
		t.Errorf("SetBrightness() after Close() error = %v, want %v", err, ErrClosed)
	}
}

func TestMatrixBrightness(t *testing.T) {
	m, _ := testMatrix(t)
	if err := m.SetBrightness(50); err != nil {
		t.Fatalf("SetBrightness() error = %v", err)
	}
	if got := m.Brightness(); got != 50 {
		t.Errorf("Brightness() = %d, want 50", got)
	}
	if err := m.SetBrightness(0); err == nil {
		t.Error("SetBrightness(0) did not return error")
	}
}

func TestFrameCanvasRotate180(t *testing.T) {
	c := newFrameCanvas(64, 32, RotateTransformer(180))
	c.SetPixel(0, 0, 1, 2, 3)
	if got := c.physical(63, 31); got != (color.RGBA{R: 1, G: 2, B: 3, A: 0xff}) {
		t.Errorf("physical(63, 31) = %v, want the logical origin", got)
	}
	if got := c.At(0, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 0xff}) {
		t.Errorf("At(0, 0) = %v", got)
	}
}

func TestFrameCanvasClipping(t *testing.T) {
	c := newFrameCanvas(8, 4, nil)
	c.Set(-1, 0, color.White)
	c.Set(8, 0, color.White)
	c.Set(0, 4, color.White)
	for _, p := range c.pix {
		if p != (color.RGBA{}) {
			t.Fatal("out of range Set() wrote a pixel")
		}
	}
	if got := c.At(100, 100); got != (color.RGBA{}) {
		t.Errorf("At() out of range = %v, want zero", got)
	}
}

func TestFrameCanvasDraw(t *testing.T) {
	c := newFrameCanvas(8, 8, nil)
	red := color.RGBA{R: 255, A: 255}
	draw.Draw(c, image.Rect(2, 2, 4, 4), image.NewUniform(red), image.Point{}, draw.Src)
	if got := c.At(3, 3); got != red {
		t.Errorf("At(3, 3) = %v, want %v", got, red)
	}
	if got := c.At(4, 4); got != (color.RGBA{}) {
		t.Errorf("At(4, 4) = %v, want off", got)
	}
}

func TestRotateTransformer(t *testing.T) {
	tests := []struct {
		angle        int
		x, y         int
		wantX, wantY int
		wantW, wantH int
	}{
		{angle: 0, x: 1, y: 2, wantX: 1, wantY: 2, wantW: 64, wantH: 32},
		{angle: 90, x: 0, y: 0, wantX: 63, wantY: 0, wantW: 32, wantH: 64},
		{angle: 180, x: 0, y: 0, wantX: 63, wantY: 31, wantW: 64, wantH: 32},
		{angle: 270, x: 0, y: 0, wantX: 0, wantY: 31, wantW: 32, wantH: 64},
		{angle: -90, x: 0, y: 0, wantX: 0, wantY: 31, wantW: 32, wantH: 64},
	}

	for _, tt := range tests {
		r := RotateTransformer(tt.angle)
		x, y := r.Transform(tt.x, tt.y, 64, 32)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("Rotate(%d).Transform(%d, %d) = (%d, %d), want (%d, %d)",
				tt.angle, tt.x, tt.y, x, y, tt.wantX, tt.wantY)
		}
		w, h := r.Size(64, 32)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("Rotate(%d).Size() = %dx%d, want %dx%d", tt.angle, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestLuminance(t *testing.T) {
	full := newLuminanceTable(100)
	if full[0] != 0 {
		t.Errorf("table[0] = %d, want 0", full[0])
	}
	if full[255] != 1<<maxPWMBits-1 {
		t.Errorf("table[255] = %d, want %d", full[255], 1<<maxPWMBits-1)
	}
	for i := 1; i < 256; i++ {
		if full[i] < full[i-1] {
			t.Fatalf("table not monotonic at %d", i)
		}
	}

	half := newLuminanceTable(50)
	if half[255] >= full[255] {
		t.Errorf("brightness 50 table[255] = %d, want below %d", half[255], full[255])
	}
}

func TestColorMapper(t *testing.T) {
	o := DefaultOptions()
	o.PWMBits = 1
	o.LEDRGBSequence = "BGR"
	m, err := newColorMapper(o)
	if err != nil {
		t.Fatalf("newColorMapper() error = %v", err)
	}
	got := m.mapColor(color.RGBA{R: 255, A: 255})
	if want := [3]uint16{0, 0, 1}; got != want {
		t.Errorf("mapColor() = %v, want %v", got, want)
	}

	m.inverse = true
	got = m.mapColor(color.RGBA{R: 255, A: 255})
	if want := [3]uint16{1, 1, 0}; got != want {
		t.Errorf("inverse mapColor() = %v, want %v", got, want)
	}
}
