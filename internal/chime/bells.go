package chime

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

const (
	sampleRate = beep.SampleRate(44100)

	bellFrequency = 880.0
	bellLength    = 600 * time.Millisecond
	bellGap       = 250 * time.Millisecond
	bellDecay     = 5.0
)

// Bells returns count bells separated by short silences
func Bells(rate beep.SampleRate, count int) beep.Streamer {
	seq := make([]beep.Streamer, 0, 2*count)
	for i := 0; i < count; i++ {
		seq = append(seq, newBell(rate), beep.Silence(rate.N(bellGap)))
	}
	return beep.Seq(seq...)
}

// bell is a decaying sine with a quieter octave overtone
type bell struct {
	rate     beep.SampleRate
	position int
	length   int
}

func newBell(rate beep.SampleRate) *bell {
	return &bell{rate: rate, length: rate.N(bellLength)}
}

func (b *bell) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if b.position >= b.length {
			return i, i > 0
		}
		t := float64(b.position) / float64(b.rate)
		env := math.Exp(-bellDecay * t)
		val := env * (0.7*math.Sin(2*math.Pi*bellFrequency*t) +
			0.3*math.Sin(4*math.Pi*bellFrequency*t))
		samples[i][0] = val
		samples[i][1] = val
		b.position++
	}
	return len(samples), true
}

func (b *bell) Err() error { return nil }
