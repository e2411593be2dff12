package hub75

import (
	"fmt"
	"log/slog"
	"math/bits"
	"time"

	"github.com/danielesteban/clock/pkg/gpio"
	"github.com/danielesteban/clock/pkg/mmap"
)

// timerPulseMin is the shortest pulse worth timing with the system timer; it
// only has microsecond resolution.
const timerPulseMin = 20 * time.Microsecond

// gpioOutput bit-bangs the HUB75 protocol over the GPIO character device
// using binary code modulation: every row is shown once per bit plane with
// an on-time doubling per plane.
type gpioOutput struct {
	bus      *gpio.Bus
	mapping  Mapping
	chains   []Chain
	rows     int
	width    int
	pwmBits  int
	lsb      time.Duration
	order    []int
	address  []int
	timer    *mmap.SystemTimer
	upper    [][3]uint16
	lower    [][3]uint16
	sleepFor func(time.Duration)
}

func newGPIOOutput(o Options, r RuntimeOptions) (*gpioOutput, error) {
	mapping, err := LookupMapping(o.HardwareMapping)
	if err != nil {
		return nil, err
	}

	addressBits := bits.Len(uint(o.Rows/2 - 1))
	bus, err := gpio.Open(r.GPIOChip, mapping.pins(o.Parallel, addressBits), "hub75", r.GPIOSlowdown)
	if err != nil {
		return nil, fmt.Errorf("failed to open HUB75 pins: %w", err)
	}

	out := newGPIOOutputOn(bus, mapping, o)
	if !o.DisableHardwarePulsing {
		timer, err := mmap.OpenSystemTimer()
		if err != nil {
			slog.Debug("system timer unavailable, timing pulses in software", "err", err)
		} else {
			out.timer = timer
			out.sleepFor = out.timedSleep
		}
	}

	if err := out.blank(); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}

func newGPIOOutputOn(bus *gpio.Bus, mapping Mapping, o Options) *gpioOutput {
	half := o.Rows / 2
	addressBits := bits.Len(uint(half - 1))
	width := o.Width()
	return &gpioOutput{
		bus:      bus,
		mapping:  mapping,
		chains:   mapping.Chains[:o.Parallel],
		rows:     o.Rows,
		width:    width,
		pwmBits:  o.PWMBits,
		lsb:      time.Duration(o.PWMLSBNanoseconds) * time.Nanosecond,
		order:    rowOrder(half, o.ScanMode == 1),
		address:  mapping.address()[:addressBits],
		upper:    make([][3]uint16, width*o.Parallel),
		lower:    make([][3]uint16, width*o.Parallel),
		sleepFor: spin,
	}
}

// rowOrder returns the order the row pairs are scanned in.
func rowOrder(half int, interlaced bool) []int {
	order := make([]int, 0, half)
	if !interlaced {
		for r := 0; r < half; r++ {
			order = append(order, r)
		}
		return order
	}
	for r := 0; r < half; r += 2 {
		order = append(order, r)
	}
	for r := 1; r < half; r += 2 {
		order = append(order, r)
	}
	return order
}

// Refresh implements output.
func (g *gpioOutput) Refresh(c *FrameCanvas, m *colorMapper) error {
	half := g.rows / 2
	for _, row := range g.order {
		for p := range g.chains {
			for x := 0; x < g.width; x++ {
				g.upper[p*g.width+x] = m.mapColor(c.physical(x, p*g.rows+row))
				g.lower[p*g.width+x] = m.mapColor(c.physical(x, p*g.rows+row+half))
			}
		}
		for b := 0; b < g.pwmBits; b++ {
			if err := g.showPlane(row, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// showPlane shifts in bit b of one row pair, latches it and holds it for the
// plane's share of the frame.
func (g *gpioOutput) showPlane(row, b int) error {
	bit := uint16(1) << b
	on := func(v uint16) int {
		if v&bit != 0 {
			return 1
		}
		return 0
	}

	for x := 0; x < g.width; x++ {
		for p, ch := range g.chains {
			top, bottom := g.upper[p*g.width+x], g.lower[p*g.width+x]
			g.bus.Set(ch.R1, on(top[0]))
			g.bus.Set(ch.G1, on(top[1]))
			g.bus.Set(ch.B1, on(top[2]))
			g.bus.Set(ch.R2, on(bottom[0]))
			g.bus.Set(ch.G2, on(bottom[1]))
			g.bus.Set(ch.B2, on(bottom[2]))
		}
		g.bus.Set(g.mapping.Clock, 0)
		if err := g.bus.Flush(); err != nil {
			return err
		}
		g.bus.Set(g.mapping.Clock, 1)
		if err := g.bus.Flush(); err != nil {
			return err
		}
	}
	g.bus.Set(g.mapping.Clock, 0)

	// Blank while the address and latch change.
	g.bus.Set(g.mapping.OE, 1)
	for i, a := range g.address {
		g.bus.Set(a, (row>>i)&1)
	}
	if err := g.bus.Flush(); err != nil {
		return err
	}
	if err := g.bus.Pulse(g.mapping.Strobe); err != nil {
		return err
	}

	g.bus.Set(g.mapping.OE, 0)
	if err := g.bus.Flush(); err != nil {
		return err
	}
	g.sleepFor(g.lsb << b)
	g.bus.Set(g.mapping.OE, 1)
	return g.bus.Flush()
}

// blank shifts zeros into every column and latches them with output off.
func (g *gpioOutput) blank() error {
	g.bus.Reset()
	g.bus.Set(g.mapping.OE, 1)
	for x := 0; x < g.width; x++ {
		if err := g.bus.Pulse(g.mapping.Clock); err != nil {
			return fmt.Errorf("failed to blank panel: %w", err)
		}
	}
	if err := g.bus.Pulse(g.mapping.Strobe); err != nil {
		return fmt.Errorf("failed to blank panel: %w", err)
	}
	return nil
}

func (g *gpioOutput) timedSleep(d time.Duration) {
	if d < timerPulseMin {
		spin(d)
		return
	}
	g.timer.Sleep(d)
}

// Close implements output.
func (g *gpioOutput) Close() error {
	if err := g.blank(); err != nil {
		slog.Warn("failed to blank panel on close", "err", err)
	}
	if g.timer != nil {
		g.timer.Close()
	}
	return g.bus.Close()
}

// spin busy-waits on the monotonic clock; time.Sleep is far too coarse for
// sub-microsecond planes.
func spin(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}
