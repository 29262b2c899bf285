// Package onepole implements first-order smoothing filters used as
// building blocks in damping paths, envelope followers and crossfades.
package onepole

import (
	"fmt"
	"math"
)

// Lowpass is a one-pole lowpass: state += coeff * (x - state).
type Lowpass struct {
	coeff float64
	state float64
}

// NewLowpass returns a one-pole lowpass with the given cutoff.
func NewLowpass(sampleRate, cutoffHz float64) (*Lowpass, error) {
	f := &Lowpass{}
	if err := f.SetCutoff(sampleRate, cutoffHz); err != nil {
		return nil, err
	}

	return f, nil
}

// SetCutoff recomputes the smoothing coefficient.
func (f *Lowpass) SetCutoff(sampleRate, cutoffHz float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("onepole sample rate must be > 0: %f", sampleRate)
	}

	if cutoffHz <= 0 || cutoffHz >= sampleRate/2 {
		return fmt.Errorf("onepole cutoff must be in (0, Nyquist): %f", cutoffHz)
	}

	f.coeff = 1 - math.Exp(-2*math.Pi*cutoffHz/sampleRate)

	return nil
}

// SetTimeConstant configures the pole from a time constant in
// milliseconds: after one time constant the step response covers ~63%.
func (f *Lowpass) SetTimeConstant(sampleRate, ms float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("onepole sample rate must be > 0: %f", sampleRate)
	}

	if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return fmt.Errorf("onepole time constant must be > 0: %f", ms)
	}

	f.coeff = 1 - math.Exp(-1/(ms/1000*sampleRate))

	return nil
}

// Process advances the filter by one sample.
func (f *Lowpass) Process(x float64) float64 {
	f.state += f.coeff * (x - f.state)

	return f.state
}

// Highpass returns the complementary highpass output for x.
func (f *Lowpass) Highpass(x float64) float64 {
	return x - f.Process(x)
}

// State returns the current filter state.
func (f *Lowpass) State() float64 {
	return f.state
}

// SnapTo forces the state to v, skipping the glide.
func (f *Lowpass) SnapTo(v float64) {
	f.state = v
}

// Reset clears the filter state.
func (f *Lowpass) Reset() {
	f.state = 0
}
