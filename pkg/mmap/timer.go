package mmap

import (
	"fmt"
	"time"
)

const (
	systemTimerOffset = 0x3000
	systemTimerCLO    = 0x04
	pageSize          = 4096
)

// SystemTimer reads the free running 1MHz counter of the BCM283x SoC.
type SystemTimer struct {
	mem *MemoryMap
}

// OpenSystemTimer maps the system timer from /dev/mem. It needs root.
func OpenSystemTimer() (*SystemTimer, error) {
	base, err := PeripheralBase(DeviceTreeRanges)
	if err != nil {
		return nil, err
	}
	mem, err := Map("/dev/mem", base+systemTimerOffset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to map system timer: %w", err)
	}
	return NewSystemTimer(mem), nil
}

// NewSystemTimer wraps an already mapped timer page.
func NewSystemTimer(mem *MemoryMap) *SystemTimer {
	return &SystemTimer{mem: mem}
}

// Micros returns the low 32 bits of the counter.
func (t *SystemTimer) Micros() uint32 {
	return t.mem.Read32(systemTimerCLO)
}

// Sleep spins on the counter until d has elapsed. Wrap-around is handled by
// the unsigned subtraction. A counter that stops advancing is abandoned after
// twice d of monotonic time.
func (t *SystemTimer) Sleep(d time.Duration) {
	us := uint32(d / time.Microsecond)
	deadline := time.Now().Add(2 * d)
	start := t.Micros()
	for t.Micros()-start < us {
		if time.Now().After(deadline) {
			return
		}
	}
}

// Close unmaps the timer
func (t *SystemTimer) Close() error {
	return t.mem.Close()
}
