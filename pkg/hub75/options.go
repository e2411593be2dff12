package hub75

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrClosed is returned by operations on a closed matrix.
	ErrClosed = errors.New("hub75: matrix closed")
	// ErrUnknownMapping is returned for a hardware mapping name not in the table.
	ErrUnknownMapping = errors.New("hub75: unknown hardware mapping")
)

// Options configure the panel geometry and PWM timing.
type Options struct {
	HardwareMapping        string `json:"hardware_mapping"`
	Rows                   int    `json:"rows"`
	Cols                   int    `json:"cols"`
	ChainLength            int    `json:"chain_length"`
	Parallel               int    `json:"parallel"`
	PWMBits                int    `json:"pwm_bits"`
	PWMLSBNanoseconds      int    `json:"pwm_lsb_nanoseconds"`
	Brightness             int    `json:"brightness"`
	ScanMode               int    `json:"scan_mode"`
	LEDRGBSequence         string `json:"led_rgb_sequence"`
	InverseColors          bool   `json:"inverse_colors"`
	ShowRefreshRate        bool   `json:"show_refresh_rate"`
	LimitRefreshRateHz     int    `json:"limit_refresh_rate_hz"`
	DisableHardwarePulsing bool   `json:"disable_hardware_pulsing"`
}

// RuntimeOptions configure how the process talks to the hardware.
type RuntimeOptions struct {
	GPIOSlowdown int    `json:"gpio_slowdown"`
	GPIOChip     string `json:"gpio_chip"`
	Emulator     bool   `json:"emulator"`
}

// DefaultOptions returns the options of a single 32x32 panel on the
// regular mapping.
func DefaultOptions() Options {
	return Options{
		HardwareMapping:   "regular",
		Rows:              32,
		Cols:              32,
		ChainLength:       1,
		Parallel:          1,
		PWMBits:           maxPWMBits,
		PWMLSBNanoseconds: 130,
		Brightness:        100,
		LEDRGBSequence:    "RGB",
	}
}

// DefaultRuntimeOptions returns the runtime defaults.
func DefaultRuntimeOptions() RuntimeOptions {
	return RuntimeOptions{
		GPIOSlowdown: 1,
		GPIOChip:     "gpiochip0",
	}
}

// Validate checks the options against the panel and mapping limits.
func (o Options) Validate() error {
	if o.Rows < 4 || o.Rows > 64 || o.Rows%2 != 0 {
		return fmt.Errorf("rows must be an even number between 4 and 64: %d", o.Rows)
	}
	if o.Cols < 1 {
		return fmt.Errorf("cols must be positive: %d", o.Cols)
	}
	if o.ChainLength < 1 {
		return fmt.Errorf("chain length must be positive: %d", o.ChainLength)
	}
	if o.Parallel < 1 || o.Parallel > 3 {
		return fmt.Errorf("parallel must be between 1 and 3: %d", o.Parallel)
	}
	if o.PWMBits < 1 || o.PWMBits > maxPWMBits {
		return fmt.Errorf("pwm bits must be between 1 and %d: %d", maxPWMBits, o.PWMBits)
	}
	if o.PWMLSBNanoseconds < 1 {
		return fmt.Errorf("pwm lsb nanoseconds must be positive: %d", o.PWMLSBNanoseconds)
	}
	if o.Brightness < 1 || o.Brightness > 100 {
		return fmt.Errorf("brightness must be between 1 and 100: %d", o.Brightness)
	}
	if o.ScanMode != 0 && o.ScanMode != 1 {
		return fmt.Errorf("scan mode must be 0 (progressive) or 1 (interlaced): %d", o.ScanMode)
	}
	if o.LimitRefreshRateHz < 0 {
		return fmt.Errorf("refresh limit must not be negative: %d", o.LimitRefreshRateHz)
	}
	if _, err := parseSequence(o.LEDRGBSequence); err != nil {
		return err
	}

	m, err := LookupMapping(o.HardwareMapping)
	if err != nil {
		return err
	}
	if o.Parallel > len(m.Chains) {
		return fmt.Errorf("mapping %q supports %d parallel chains, got %d", m.Name, len(m.Chains), o.Parallel)
	}
	if o.Rows > 32 && m.E == 0 {
		return fmt.Errorf("mapping %q has no E address line for %d rows", m.Name, o.Rows)
	}
	return nil
}

// Width is the physical width of the chained panels.
func (o Options) Width() int {
	return o.Cols * o.ChainLength
}

// Height is the physical height of the parallel chains.
func (o Options) Height() int {
	return o.Rows * o.Parallel
}

// parseSequence turns a permutation of "RGB" into channel indices: out[i] is
// the source channel shifted on the i-th color line.
func parseSequence(seq string) ([3]int, error) {
	var out [3]int
	s := strings.ToUpper(seq)
	sorted := []byte(s)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if string(sorted) != "BGR" {
		return out, fmt.Errorf("led rgb sequence must be a permutation of RGB: %q", seq)
	}
	for i, c := range s {
		out[i] = strings.IndexRune("RGB", c)
	}
	return out, nil
}
