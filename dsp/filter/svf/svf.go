// Package svf implements a topology-preserving-transform (zero-delay
// feedback) state-variable filter producing lowpass, highpass, bandpass
// and notch outputs from one computation.
//
// Unlike a biquad, the SVF's integrator states stay physically meaningful
// across coefficient changes, so it is the filter of choice wherever the
// cutoff is modulated at audio rate.
package svf

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
)

const (
	minCutoffHz     = 0.01
	maxNyquistRatio = 0.499
	minQ            = 1e-3
	defaultCutoffHz = 1000.0
	defaultQ        = 0.707
)

// Outputs holds the simultaneous filter responses for one input sample.
type Outputs struct {
	Lowpass  float64
	Highpass float64
	Bandpass float64
	Notch    float64
}

// Filter is a mono TPT state-variable filter.
type Filter struct {
	sampleRate float64
	cutoffHz   float64
	q          float64

	g float64 // frequency coefficient, tan(pi*fc/fs)
	k float64 // damping, 1/Q

	ic1eq float64
	ic2eq float64
}

// New returns a filter at the given sample rate with a 1 kHz cutoff and
// Butterworth damping.
func New(sampleRate float64) (*Filter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("svf sample rate must be > 0: %f", sampleRate)
	}

	f := &Filter{
		sampleRate: sampleRate,
		cutoffHz:   defaultCutoffHz,
		q:          defaultQ,
	}
	f.recompute()

	return f, nil
}

// SetSampleRate updates the sample rate and recomputes coefficients.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("svf sample rate must be > 0: %f", sampleRate)
	}

	f.sampleRate = sampleRate
	f.recompute()

	return nil
}

// SetCutoff sets the cutoff frequency in Hz, clamped inside (0, Nyquist).
// Safe to call per sample.
func (f *Filter) SetCutoff(freq float64) {
	f.cutoffHz = core.Clamp(freq, minCutoffHz, f.sampleRate*maxNyquistRatio)
	f.g = math.Tan(math.Pi * f.cutoffHz / f.sampleRate)
}

// SetQ sets the resonance, floored to keep damping finite.
func (f *Filter) SetQ(q float64) {
	if q < minQ {
		q = minQ
	}
	f.q = q
	f.k = 1 / q
}

// Cutoff returns the effective cutoff frequency in Hz.
func (f *Filter) Cutoff() float64 { return f.cutoffHz }

// Q returns the resonance.
func (f *Filter) Q() float64 { return f.q }

// ProcessSample advances the filter by one sample and returns all outputs.
func (f *Filter) ProcessSample(input float64) Outputs {
	a1 := 1 / (1 + f.g*(f.g+f.k))
	a2 := f.g * a1
	a3 := f.g * a2

	v3 := input - f.ic2eq
	v1 := a1*f.ic1eq + a2*v3
	v2 := f.ic2eq + a2*f.ic1eq + a3*v3

	f.ic1eq = 2*v1 - f.ic1eq
	f.ic2eq = 2*v2 - f.ic2eq

	hp := input - f.k*v1 - v2

	return Outputs{
		Lowpass:  v2,
		Highpass: hp,
		Bandpass: v1,
		Notch:    v2 + hp,
	}
}

// ProcessBlockLowpass filters buf in-place with the lowpass output.
func (f *Filter) ProcessBlockLowpass(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x).Lowpass
	}
}

// Reset clears the integrator states without changing parameters.
func (f *Filter) Reset() {
	f.ic1eq = 0
	f.ic2eq = 0
}

func (f *Filter) recompute() {
	f.SetCutoff(f.cutoffHz)
	f.SetQ(f.q)
}
