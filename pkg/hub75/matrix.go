package hub75

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

const emulatorRefreshHz = 60

// output pushes complete frames to a panel.
type output interface {
	// Refresh displays one full frame of c. It returns once every row has
	// been shown, which makes the end of Refresh the vsync boundary.
	Refresh(c *FrameCanvas, m *colorMapper) error
	Close() error
}

// Matrix is a chain of HUB75 panels refreshed from a background goroutine.
type Matrix struct {
	opts   Options
	out    output
	mapper *colorMapper

	mu          sync.Mutex
	transformer Transformer

	active *FrameCanvas // owned by the refresh goroutine
	swapC  chan *FrameCanvas
	prevC  chan *FrameCanvas
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
	frames atomic.Uint64

	limitHz  int
	logLevel slog.Level // for status lines
}

// New validates the options, opens the output and starts refreshing.
func New(o Options, r RuntimeOptions) (*Matrix, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matrix options: %w", err)
	}

	var (
		out output
		err error
	)
	if r.Emulator {
		out, err = newEmulatorOutput(o)
		if o.LimitRefreshRateHz == 0 {
			o.LimitRefreshRateHz = emulatorRefreshHz
		}
	} else {
		out, err = newGPIOOutput(o, r)
	}
	if err != nil {
		return nil, err
	}

	// The emulator owns the terminal, so status lines drop to debug.
	level := slog.LevelInfo
	if r.Emulator {
		level = slog.LevelDebug
	}
	m, err := newMatrix(o, out, level)
	if err != nil {
		out.Close()
		return nil, err
	}
	slog.Log(context.Background(), level, "matrix started",
		"mapping", o.HardwareMapping,
		"width", o.Width(),
		"height", o.Height(),
		"brightness", o.Brightness,
		"emulator", r.Emulator)
	return m, nil
}

func newMatrix(o Options, out output, level slog.Level) (*Matrix, error) {
	mapper, err := newColorMapper(o)
	if err != nil {
		return nil, err
	}
	m := &Matrix{
		opts:        o,
		out:         out,
		mapper:      mapper,
		transformer: identity{},
		active:      newFrameCanvas(o.Width(), o.Height(), nil),
		swapC:       make(chan *FrameCanvas),
		prevC:       make(chan *FrameCanvas, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		limitHz:     o.LimitRefreshRateHz,
		logLevel:    level,
	}
	go m.refresh()
	return m, nil
}

// ApplyStaticTransformer sets the transformer used by canvases created from
// now on.
func (m *Matrix) ApplyStaticTransformer(t Transformer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transformer = t
}

// Width returns the logical width after transformation.
func (m *Matrix) Width() int {
	w, _ := m.size()
	return w
}

// Height returns the logical height after transformation.
func (m *Matrix) Height() int {
	_, h := m.size()
	return h
}

func (m *Matrix) size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transformer.Size(m.opts.Width(), m.opts.Height())
}

// CreateFrameCanvas returns a new blank canvas for off-screen drawing.
func (m *Matrix) CreateFrameCanvas() *FrameCanvas {
	return newFrameCanvas(m.opts.Width(), m.opts.Height(), m.currentTransformer())
}

func (m *Matrix) currentTransformer() Transformer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transformer
}

// SwapOnVSync shows c from the next frame boundary on and returns the canvas
// that was displayed until then, carrying the current static transformer. It
// blocks until the boundary is reached. On a closed matrix c is returned
// unchanged.
func (m *Matrix) SwapOnVSync(c *FrameCanvas) *FrameCanvas {
	select {
	case m.swapC <- c:
	case <-m.done:
		return c
	}
	prev := <-m.prevC
	prev.setTransformer(m.currentTransformer())
	return prev
}

// Clear blanks the display.
func (m *Matrix) Clear() {
	m.SwapOnVSync(m.CreateFrameCanvas())
}

// SetBrightness changes the brightness in percent. It returns ErrClosed once
// the matrix is closed.
func (m *Matrix) SetBrightness(brightness int) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}
	if brightness < 1 || brightness > 100 {
		return fmt.Errorf("brightness must be between 1 and 100: %d", brightness)
	}
	m.mapper.setBrightness(brightness)
	return nil
}

// Brightness returns the brightness in percent.
func (m *Matrix) Brightness() int {
	return m.mapper.brightness()
}

// Frames returns the number of frames refreshed so far.
func (m *Matrix) Frames() uint64 {
	return m.frames.Load()
}

// Close stops refreshing and releases the output. It is safe to call more
// than once.
func (m *Matrix) Close() error {
	var err error
	m.once.Do(func() {
		close(m.stop)
		<-m.done
		err = m.out.Close()
	})
	return err
}

func (m *Matrix) refresh() {
	defer close(m.done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	pinToLastCPU()

	var minFrame time.Duration
	if m.limitHz > 0 {
		minFrame = time.Second / time.Duration(m.limitHz)
	}

	var (
		lastErr     string
		reportStart = time.Now()
		reportCount uint64
	)
	for {
		select {
		case <-m.stop:
			return
		case next := <-m.swapC:
			m.prevC <- m.active
			m.active = next
		default:
		}

		start := time.Now()
		if err := m.out.Refresh(m.active, m.mapper); err != nil {
			if err.Error() != lastErr {
				slog.Error("failed to refresh matrix", "err", err)
				lastErr = err.Error()
			}
		}
		if minFrame > 0 {
			if d := minFrame - time.Since(start); d > 0 {
				time.Sleep(d)
			}
		}
		m.frames.Add(1)

		if m.opts.ShowRefreshRate {
			reportCount++
			if elapsed := time.Since(reportStart); elapsed >= time.Second {
				slog.Log(context.Background(), m.logLevel, "refresh rate", "hz", float64(reportCount)/elapsed.Seconds())
				reportStart, reportCount = time.Now(), 0
			}
		}
	}
}

// pinToLastCPU keeps the refresh thread off the core the scheduler favours
// for everything else. Failure only costs flicker, so it is logged and ignored.
func pinToLastCPU() {
	n := runtime.NumCPU()
	if n < 2 {
		return
	}
	var set unix.CPUSet
	set.Set(n - 1)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		slog.Debug("failed to pin refresh thread", "cpu", n-1, "err", err)
	}
}
