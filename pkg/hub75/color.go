package hub75

import (
	"image/color"
	"math"
	"sync/atomic"
)

const maxPWMBits = 11

// luminanceTable maps an 8-bit channel to an 11-bit PWM value.
type luminanceTable [256]uint16

// newLuminanceTable applies brightness and CIE1931 lightness correction so
// that equal steps in input look like equal steps on the panel.
func newLuminanceTable(brightness int) *luminanceTable {
	var t luminanceTable
	for c := range t {
		t[c] = cie1931(uint8(c), brightness)
	}
	return &t
}

func cie1931(c uint8, brightness int) uint16 {
	const out = float64(1<<maxPWMBits - 1)
	v := float64(c) * float64(brightness) / 255
	var y float64
	if v <= 8 {
		y = v / 902.3
	} else {
		y = math.Pow((v+16)/116, 3)
	}
	return uint16(math.Round(out * y))
}

// colorMapper turns canvas pixels into per-line PWM values.
type colorMapper struct {
	table    atomic.Pointer[luminanceTable]
	sequence [3]int
	inverse  bool
	pwmBits  int
	percent  atomic.Int32
}

func newColorMapper(o Options) (*colorMapper, error) {
	seq, err := parseSequence(o.LEDRGBSequence)
	if err != nil {
		return nil, err
	}
	m := &colorMapper{
		sequence: seq,
		inverse:  o.InverseColors,
		pwmBits:  o.PWMBits,
	}
	m.setBrightness(o.Brightness)
	return m, nil
}

func (m *colorMapper) setBrightness(brightness int) {
	m.table.Store(newLuminanceTable(brightness))
	m.percent.Store(int32(brightness))
}

func (m *colorMapper) brightness() int {
	return int(m.percent.Load())
}

// scale dims c linearly by the brightness, for outputs that do their own
// gamma handling.
func (m *colorMapper) scale(c color.RGBA) color.RGBA {
	p := uint32(m.percent.Load())
	return color.RGBA{
		R: uint8(uint32(c.R) * p / 100),
		G: uint8(uint32(c.G) * p / 100),
		B: uint8(uint32(c.B) * p / 100),
		A: 0xff,
	}
}

// mapColor returns the PWM values in the order the color lines are wired.
func (m *colorMapper) mapColor(c color.RGBA) [3]uint16 {
	t := m.table.Load()
	ch := [3]uint8{c.R, c.G, c.B}
	full := uint16(1<<m.pwmBits - 1)
	shift := maxPWMBits - m.pwmBits

	var out [3]uint16
	for i, src := range m.sequence {
		v := t[ch[src]] >> shift
		if m.inverse {
			v = full - v
		}
		out[i] = v
	}
	return out
}
