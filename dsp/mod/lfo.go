package mod

import (
	"fmt"
	"math"
)

// Shape selects the LFO waveform.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeTriangle
	ShapeSaw
	ShapeSquare
)

// LFO is a bipolar low-frequency oscillator.
type LFO struct {
	sampleRate float64
	frequency  float64
	shape      Shape
	phase      float64 // [0, 1)
}

// NewLFO returns an LFO at the given rate and frequency.
func NewLFO(sampleRate, frequencyHz float64, shape Shape) (*LFO, error) {
	l := &LFO{sampleRate: sampleRate, shape: shape}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0: %f", sampleRate)
	}

	if err := l.SetFrequency(frequencyHz); err != nil {
		return nil, err
	}

	return l, nil
}

// SetFrequency updates the oscillation frequency in Hz.
func (l *LFO) SetFrequency(hz float64) error {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return fmt.Errorf("lfo frequency must be > 0: %f", hz)
	}

	l.frequency = hz

	return nil
}

// SetSampleRate updates the sample rate, preserving phase.
func (l *LFO) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("lfo sample rate must be > 0: %f", sampleRate)
	}

	l.sampleRate = sampleRate

	return nil
}

// SetPhase jumps to the given phase in [0, 1).
func (l *LFO) SetPhase(phase float64) {
	l.phase = phase - math.Floor(phase)
}

// Phase returns the current phase in [0, 1).
func (l *LFO) Phase() float64 { return l.phase }

// Frequency returns the oscillation frequency in Hz.
func (l *LFO) Frequency() float64 { return l.frequency }

// Advance produces the next sample in [-1, 1].
func (l *LFO) Advance() float64 {
	var y float64

	switch l.shape {
	case ShapeTriangle:
		y = 4*math.Abs(l.phase-0.5) - 1
	case ShapeSaw:
		y = 2*l.phase - 1
	case ShapeSquare:
		if l.phase < 0.5 {
			y = 1
		} else {
			y = -1
		}
	default:
		y = math.Sin(2 * math.Pi * l.phase)
	}

	l.phase += l.frequency / l.sampleRate
	if l.phase >= 1 {
		l.phase -= 1
	}

	return y
}

// IsBipolar reports the [-1, 1] output range.
func (l *LFO) IsBipolar() bool { return true }

// Reset rewinds the phase to zero.
func (l *LFO) Reset() {
	l.phase = 0
}
