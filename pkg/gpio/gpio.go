package gpio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// Setter writes a full set of line values in one call. *gpiocdev.Lines
// satisfies it.
type Setter interface {
	SetValues(values []int) error
	Close() error
}

// Bus is a group of output lines on one chip driven together
type Bus struct {
	mu       sync.Mutex
	lines    Setter
	index    map[int]int
	values   []int
	slowdown int
}

// Open requests offsets on chip as outputs, all driven low.
func Open(chip string, offsets []int, consumer string, slowdown int) (*Bus, error) {
	slog.Debug("requesting GPIO lines", "chip", chip, "offsets", offsets)

	lines, err := gpiocdev.RequestLines(chip, offsets,
		gpiocdev.WithConsumer(consumer),
		gpiocdev.AsOutput(make([]int, len(offsets))...))
	if err != nil {
		return nil, fmt.Errorf("failed to request lines %v on %s: %w", offsets, chip, err)
	}
	return NewBus(lines, offsets, slowdown)
}

// NewBus wraps lines whose value order follows offsets.
func NewBus(lines Setter, offsets []int, slowdown int) (*Bus, error) {
	if slowdown < 0 {
		return nil, fmt.Errorf("slowdown must not be negative: %d", slowdown)
	}
	index := make(map[int]int, len(offsets))
	for i, o := range offsets {
		if _, dup := index[o]; dup {
			return nil, fmt.Errorf("duplicate GPIO offset %d", o)
		}
		index[o] = i
	}
	return &Bus{
		lines:    lines,
		index:    index,
		values:   make([]int, len(offsets)),
		slowdown: slowdown,
	}, nil
}

// Set stages value for offset. Offsets not on the bus are ignored.
func (b *Bus) Set(offset int, value int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i, ok := b.index[offset]; ok {
		if value != 0 {
			value = 1
		}
		b.values[i] = value
	}
}

// Value returns the staged value of offset.
func (b *Bus) Value(offset int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i, ok := b.index[offset]; ok {
		return b.values[i]
	}
	return 0
}

// Reset stages every line low.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.values {
		b.values[i] = 0
	}
}

// Flush writes the staged values. The write is repeated slowdown times to
// give slow panels time to settle.
func (b *Bus) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 0; i <= b.slowdown; i++ {
		if err := b.lines.SetValues(b.values); err != nil {
			return fmt.Errorf("failed to set line values: %w", err)
		}
	}
	return nil
}

// Pulse drives offset high then low.
func (b *Bus) Pulse(offset int) error {
	b.Set(offset, 1)
	if err := b.Flush(); err != nil {
		return err
	}
	b.Set(offset, 0)
	return b.Flush()
}

// Close drives every line low and releases the request
func (b *Bus) Close() error {
	b.Reset()
	if err := b.Flush(); err != nil {
		slog.Warn("failed to drive lines low on close", "err", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lines.Close()
}
