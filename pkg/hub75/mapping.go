package hub75

import (
	"fmt"
	"sort"
)

// Chain is the set of color data pins of one parallel chain. The upper half
// of the panel is driven by R1 G1 B1, the lower half by R2 G2 B2.
type Chain struct {
	R1, G1, B1 int
	R2, G2, B2 int
}

// Mapping describes how a HUB75 connector is wired to BCM GPIO numbers.
type Mapping struct {
	Name   string
	OE     int // Output enable, active low
	Clock  int
	Strobe int // Latch
	A      int
	B      int
	C      int
	D      int
	E      int // 0 when the adapter does not route E
	Chains []Chain
}

var mappings = map[string]Mapping{
	"regular": {
		Name: "regular", OE: 18, Clock: 17, Strobe: 4,
		A: 22, B: 23, C: 24, D: 25, E: 15,
		Chains: []Chain{
			{R1: 11, G1: 27, B1: 7, R2: 8, G2: 9, B2: 10},
			{R1: 12, G1: 5, B1: 6, R2: 19, G2: 13, B2: 20},
			{R1: 14, G1: 2, B1: 3, R2: 26, G2: 16, B2: 21},
		},
	},
	// First revision Pi 1 boards route header pin 13 to GPIO 21 instead of 27.
	"regular-pi1": {
		Name: "regular-pi1", OE: 18, Clock: 17, Strobe: 4,
		A: 22, B: 23, C: 24, D: 25, E: 15,
		Chains: []Chain{
			{R1: 11, G1: 21, B1: 7, R2: 8, G2: 9, B2: 10},
		},
	},
	"adafruit-hat": {
		Name: "adafruit-hat", OE: 4, Clock: 17, Strobe: 21,
		A: 22, B: 26, C: 27, D: 20, E: 24,
		Chains: []Chain{
			{R1: 5, G1: 13, B1: 6, R2: 12, G2: 16, B2: 23},
		},
	},
	// Same as adafruit-hat with OE bridged to GPIO 18.
	"adafruit-hat-pwm": {
		Name: "adafruit-hat-pwm", OE: 18, Clock: 17, Strobe: 21,
		A: 22, B: 26, C: 27, D: 20, E: 24,
		Chains: []Chain{
			{R1: 5, G1: 13, B1: 6, R2: 12, G2: 16, B2: 23},
		},
	},
}

// LookupMapping returns the mapping registered under name.
func LookupMapping(name string) (Mapping, error) {
	m, ok := mappings[name]
	if !ok {
		return Mapping{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownMapping, name, Mappings())
	}
	return m, nil
}

// Mappings lists the known mapping names.
func Mappings() []string {
	names := make([]string, 0, len(mappings))
	for name := range mappings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pins returns every GPIO used for the given number of chains and address
// lines, control pins first.
func (m Mapping) pins(parallel, addressBits int) []int {
	pins := []int{m.OE, m.Clock, m.Strobe}
	for i, a := range m.address() {
		if i < addressBits {
			pins = append(pins, a)
		}
	}
	for _, c := range m.Chains[:parallel] {
		pins = append(pins, c.R1, c.G1, c.B1, c.R2, c.G2, c.B2)
	}
	return pins
}

func (m Mapping) address() []int {
	return []int{m.A, m.B, m.C, m.D, m.E}
}

// Signal is one named connector pin.
type Signal struct {
	Name string
	Pin  int
}

// Signals lists every routed connector pin by its HUB75 name.
func (m Mapping) Signals() []Signal {
	signals := []Signal{
		{"OE", m.OE}, {"CLK", m.Clock}, {"STB", m.Strobe},
		{"A", m.A}, {"B", m.B}, {"C", m.C}, {"D", m.D},
	}
	if m.E != 0 {
		signals = append(signals, Signal{"E", m.E})
	}
	for i, c := range m.Chains {
		n := i + 1
		signals = append(signals,
			Signal{fmt.Sprintf("P%d_R1", n), c.R1}, Signal{fmt.Sprintf("P%d_G1", n), c.G1},
			Signal{fmt.Sprintf("P%d_B1", n), c.B1}, Signal{fmt.Sprintf("P%d_R2", n), c.R2},
			Signal{fmt.Sprintf("P%d_G2", n), c.G2}, Signal{fmt.Sprintf("P%d_B2", n), c.B2})
	}
	return signals
}
