package mod

import (
	"fmt"
	"math"
)

// EnvelopeFollower tracks the magnitude of an observed signal with
// separate attack and release glides. Feed it samples with Observe, then
// read the follower through the Source interface.
type EnvelopeFollower struct {
	sampleRate   float64
	attackCoeff  float64
	releaseCoeff float64
	attackMs     float64
	releaseMs    float64

	level    float64 // last observed magnitude
	envelope float64
}

// NewEnvelopeFollower returns a follower with the given ballistics.
func NewEnvelopeFollower(sampleRate, attackMs, releaseMs float64) (*EnvelopeFollower, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("envelope sample rate must be > 0: %f", sampleRate)
	}

	e := &EnvelopeFollower{sampleRate: sampleRate}

	if err := e.SetAttack(attackMs); err != nil {
		return nil, err
	}

	if err := e.SetRelease(releaseMs); err != nil {
		return nil, err
	}

	return e, nil
}

// SetAttack sets the rise time constant in milliseconds.
func (e *EnvelopeFollower) SetAttack(ms float64) error {
	coeff, err := ballisticCoeff(e.sampleRate, ms)
	if err != nil {
		return fmt.Errorf("envelope attack: %w", err)
	}

	e.attackMs = ms
	e.attackCoeff = coeff

	return nil
}

// SetRelease sets the fall time constant in milliseconds.
func (e *EnvelopeFollower) SetRelease(ms float64) error {
	coeff, err := ballisticCoeff(e.sampleRate, ms)
	if err != nil {
		return fmt.Errorf("envelope release: %w", err)
	}

	e.releaseMs = ms
	e.releaseCoeff = coeff

	return nil
}

// SetSampleRate recomputes the ballistics for a new rate.
func (e *EnvelopeFollower) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("envelope sample rate must be > 0: %f", sampleRate)
	}

	if sampleRate == e.sampleRate {
		return nil
	}

	e.sampleRate = sampleRate
	if err := e.SetAttack(e.attackMs); err != nil {
		return err
	}

	return e.SetRelease(e.releaseMs)
}

// Observe records the magnitude of one input sample.
func (e *EnvelopeFollower) Observe(x float64) {
	e.level = math.Abs(x)
}

// Advance glides the envelope toward the last observed magnitude and
// returns it. Output is unipolar.
func (e *EnvelopeFollower) Advance() float64 {
	coeff := e.releaseCoeff
	if e.level > e.envelope {
		coeff = e.attackCoeff
	}

	e.envelope += coeff * (e.level - e.envelope)

	return e.envelope
}

// IsBipolar reports the [0, 1] output range.
func (e *EnvelopeFollower) IsBipolar() bool { return false }

// Reset clears the envelope and the observed level.
func (e *EnvelopeFollower) Reset() {
	e.level = 0
	e.envelope = 0
}

func ballisticCoeff(sampleRate, ms float64) (float64, error) {
	if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0, fmt.Errorf("time must be > 0 ms: %f", ms)
	}

	return 1 - math.Exp(-1/(ms/1000*sampleRate)), nil
}
