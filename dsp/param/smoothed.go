package param

import (
	"fmt"
	"math"
)

// SmoothingMode selects how a smoothed value approaches its target.
type SmoothingMode int

const (
	// Exponential glides with one-pole deceleration: one multiply-add per
	// sample, 63% of the distance covered after one time constant and
	// within 0.7% after five. The default for most parameters.
	Exponential SmoothingMode = iota
	// LinearRamp moves by a fixed per-sample increment and reaches the
	// target in exactly the configured number of samples. Reserved for
	// equal-rate crossfades where the endpoint time matters.
	LinearRamp
)

// settleEpsilon snaps an exponential glide onto its target once the
// residue is inaudible, so settled values compare bit-exact.
const settleEpsilon = 1e-6

// Smoothed is a scalar parameter whose current value converges toward a
// target instead of jumping, keeping runtime changes click-free.
type Smoothed struct {
	mode       SmoothingMode
	sampleRate float64
	timeMs     float64

	current float64
	target  float64

	coeff     float64 // exponential
	step      float64 // linear
	remaining int     // linear
}

// NewSmoothed returns a smoother starting settled at initial.
func NewSmoothed(mode SmoothingMode, initial, timeMs, sampleRate float64) (*Smoothed, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("smoothed sample rate must be > 0: %f", sampleRate)
	}

	if timeMs <= 0 || math.IsNaN(timeMs) || math.IsInf(timeMs, 0) {
		return nil, fmt.Errorf("smoothing time must be > 0 ms: %f", timeMs)
	}

	s := &Smoothed{
		mode:       mode,
		sampleRate: sampleRate,
		timeMs:     timeMs,
		current:    initial,
		target:     initial,
	}
	s.recompute()

	return s, nil
}

// SetSampleRate recomputes the per-sample coefficients. Calling it with
// the current rate leaves the smoothed value untouched.
func (s *Smoothed) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("smoothed sample rate must be > 0: %f", sampleRate)
	}

	if sampleRate == s.sampleRate {
		return nil
	}

	s.sampleRate = sampleRate
	s.recompute()

	if s.mode == LinearRamp && s.remaining > 0 {
		s.beginRamp()
	}

	return nil
}

// SetTime updates the smoothing time constant (exponential) or ramp
// duration (linear) in milliseconds.
func (s *Smoothed) SetTime(ms float64) error {
	if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return fmt.Errorf("smoothing time must be > 0 ms: %f", ms)
	}

	s.timeMs = ms
	s.recompute()

	if s.mode == LinearRamp && s.remaining > 0 {
		s.beginRamp()
	}

	return nil
}

// SetTarget starts a glide toward v.
func (s *Smoothed) SetTarget(v float64) {
	s.target = v
	if s.mode == LinearRamp {
		s.beginRamp()
	}
}

// SnapToTarget sets current = target immediately. Used after Reset and
// when re-enabling a bypassed unit so smoothers are pre-settled before
// audio resumes.
func (s *Smoothed) SnapToTarget() {
	s.current = s.target
	s.remaining = 0
}

// Advance moves current one sample toward target and returns it.
func (s *Smoothed) Advance() float64 {
	switch s.mode {
	case LinearRamp:
		if s.remaining > 0 {
			s.remaining--
			if s.remaining == 0 {
				s.current = s.target
			} else {
				s.current += s.step
			}
		}
	default:
		if s.current != s.target {
			s.current += s.coeff * (s.target - s.current)
			if math.Abs(s.target-s.current) < settleEpsilon {
				s.current = s.target
			}
		}
	}

	return s.current
}

// Current returns the smoothed value without advancing.
func (s *Smoothed) Current() float64 { return s.current }

// Target returns the glide destination.
func (s *Smoothed) Target() float64 { return s.target }

// Settled reports whether current has reached target exactly.
func (s *Smoothed) Settled() bool { return s.current == s.target }

// RampSamples returns the configured linear ramp length in samples.
func (s *Smoothed) RampSamples() int {
	n := int(math.Round(s.timeMs / 1000 * s.sampleRate))
	if n < 1 {
		n = 1
	}

	return n
}

func (s *Smoothed) recompute() {
	s.coeff = 1 - math.Exp(-1/(s.timeMs/1000*s.sampleRate))
}

func (s *Smoothed) beginRamp() {
	if s.current == s.target {
		s.remaining = 0
		return
	}

	s.remaining = s.RampSamples()
	s.step = (s.target - s.current) / float64(s.remaining)
}
