package hub75

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// RegisterFlags binds the --led-* flags to o and r. The current field values
// become the flag defaults, so callers fill in their own defaults first.
func RegisterFlags(fs *pflag.FlagSet, o *Options, r *RuntimeOptions) {
	fs.StringVar(&o.HardwareMapping, "led-gpio-mapping", o.HardwareMapping,
		fmt.Sprintf("name of GPIO mapping used (%s)", strings.Join(Mappings(), ", ")))
	fs.IntVar(&o.Rows, "led-rows", o.Rows, "panel rows, typically 8, 16, 32 or 64")
	fs.IntVar(&o.Cols, "led-cols", o.Cols, "panel columns, typically 32 or 64")
	fs.IntVar(&o.ChainLength, "led-chain", o.ChainLength, "number of daisy-chained panels")
	fs.IntVar(&o.Parallel, "led-parallel", o.Parallel, "parallel chains, range 1..3")
	fs.IntVar(&o.PWMBits, "led-pwm-bits", o.PWMBits, "PWM bits, range 1..11")
	fs.IntVar(&o.PWMLSBNanoseconds, "led-pwm-lsb-nanoseconds", o.PWMLSBNanoseconds,
		"on-time of the least significant bit in nanoseconds")
	fs.IntVar(&o.Brightness, "led-brightness", o.Brightness, "brightness in percent")
	fs.IntVar(&o.ScanMode, "led-scan-mode", o.ScanMode, "0 = progressive, 1 = interlaced")
	fs.StringVar(&o.LEDRGBSequence, "led-rgb-sequence", o.LEDRGBSequence, "switch if your matrix has swapped colors")
	fs.BoolVar(&o.InverseColors, "led-inverse", o.InverseColors, "invert colors for panels with inverted drivers")
	fs.BoolVar(&o.ShowRefreshRate, "led-show-refresh", o.ShowRefreshRate, "log the refresh rate")
	fs.IntVar(&o.LimitRefreshRateHz, "led-limit-refresh", o.LimitRefreshRateHz,
		"limit refresh rate to this frequency in Hz, 0 = no limit")
	fs.BoolVar(&o.DisableHardwarePulsing, "led-no-hardware-pulse", o.DisableHardwarePulsing,
		"time output enable pulses in software only")

	fs.IntVar(&r.GPIOSlowdown, "led-slowdown-gpio", r.GPIOSlowdown, "slowdown GPIO, needed for faster Pis and slower panels")
	fs.StringVar(&r.GPIOChip, "led-gpio-chip", r.GPIOChip, "GPIO character device")
	fs.BoolVar(&r.Emulator, "led-emulator", r.Emulator, "render to the terminal instead of the GPIO header")
}
