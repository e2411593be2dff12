package hub75

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sys/unix"
)

// emulatorOutput draws the panel into the terminal, two pixel rows per cell
// using an upper half block with the lower pixel as background.
type emulatorOutput struct {
	screen    tcell.Screen
	width     int
	height    int
	interrupt func()
	events    chan struct{}
}

func newEmulatorOutput(o Options) (*emulatorOutput, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init terminal screen: %w", err)
	}
	return newEmulatorOutputOn(screen, o, raiseInterrupt), nil
}

func newEmulatorOutputOn(screen tcell.Screen, o Options, interrupt func()) *emulatorOutput {
	screen.HideCursor()
	screen.Clear()
	e := &emulatorOutput{
		screen:    screen,
		width:     o.Width(),
		height:    o.Height(),
		interrupt: interrupt,
		events:    make(chan struct{}),
	}
	go e.poll()
	return e
}

// raiseInterrupt turns a quit key into SIGINT: the terminal is in raw mode
// so Ctrl-C no longer reaches the process as a signal.
func raiseInterrupt() {
	if err := unix.Kill(unix.Getpid(), unix.SIGINT); err != nil {
		slog.Error("failed to raise interrupt", "err", err)
	}
}

func (e *emulatorOutput) poll() {
	defer close(e.events)
	for {
		ev := e.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				e.interrupt()
			}
		case *tcell.EventResize:
			e.screen.Sync()
		}
	}
}

// Refresh implements output.
func (e *emulatorOutput) Refresh(c *FrameCanvas, m *colorMapper) error {
	for y := 0; y < e.height; y += 2 {
		for x := 0; x < e.width; x++ {
			top := toTcell(m.scale(c.physical(x, y)))
			bottom := tcell.ColorBlack
			if y+1 < e.height {
				bottom = toTcell(m.scale(c.physical(x, y+1)))
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			e.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
	e.screen.Show()
	return nil
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Close implements output.
func (e *emulatorOutput) Close() error {
	e.screen.Fini()
	<-e.events
	return nil
}
