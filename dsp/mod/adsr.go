package mod

import (
	"fmt"
	"math"
)

// Stage identifies the active ADSR segment.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

// ADSR is a gate-driven attack/decay/sustain/release envelope with
// linear segments. Output is unipolar.
type ADSR struct {
	sampleRate float64

	attackMs  float64
	decayMs   float64
	sustain   float64
	releaseMs float64

	attackStep  float64
	decayStep   float64
	releaseStep float64

	stage Stage
	value float64
}

// NewADSR returns an envelope with the given segment times in
// milliseconds and sustain level in [0, 1].
func NewADSR(sampleRate, attackMs, decayMs, sustain, releaseMs float64) (*ADSR, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("adsr sample rate must be > 0: %f", sampleRate)
	}

	a := &ADSR{sampleRate: sampleRate}

	if err := a.SetTimes(attackMs, decayMs, releaseMs); err != nil {
		return nil, err
	}

	if err := a.SetSustain(sustain); err != nil {
		return nil, err
	}

	return a, nil
}

// SetTimes updates the attack, decay and release times in milliseconds.
func (a *ADSR) SetTimes(attackMs, decayMs, releaseMs float64) error {
	for _, ms := range []float64{attackMs, decayMs, releaseMs} {
		if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return fmt.Errorf("adsr segment time must be > 0 ms: %f", ms)
		}
	}

	a.attackMs = attackMs
	a.decayMs = decayMs
	a.releaseMs = releaseMs
	a.recalc()

	return nil
}

// SetSustain updates the sustain level in [0, 1].
func (a *ADSR) SetSustain(level float64) error {
	if level < 0 || level > 1 || math.IsNaN(level) {
		return fmt.Errorf("adsr sustain must be in [0, 1]: %f", level)
	}

	a.sustain = level
	a.recalc()

	return nil
}

// SetSampleRate recomputes the segment steps for a new rate.
func (a *ADSR) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("adsr sample rate must be > 0: %f", sampleRate)
	}

	a.sampleRate = sampleRate
	a.recalc()

	return nil
}

func (a *ADSR) recalc() {
	a.attackStep = 1 / (a.attackMs / 1000 * a.sampleRate)
	a.decayStep = (1 - a.sustain) / (a.decayMs / 1000 * a.sampleRate)
	a.releaseStep = 1 / (a.releaseMs / 1000 * a.sampleRate)
}

// Gate opens (true) or closes (false) the envelope. Opening restarts the
// attack from the current value so retriggers do not click.
func (a *ADSR) Gate(on bool) {
	if on {
		a.stage = StageAttack
		return
	}

	if a.stage != StageIdle {
		a.stage = StageRelease
	}
}

// Stage returns the active segment.
func (a *ADSR) Stage() Stage { return a.stage }

// Advance steps the envelope one sample and returns its value.
func (a *ADSR) Advance() float64 {
	switch a.stage {
	case StageAttack:
		a.value += a.attackStep
		if a.value >= 1 {
			a.value = 1
			a.stage = StageDecay
		}
	case StageDecay:
		a.value -= a.decayStep
		if a.value <= a.sustain {
			a.value = a.sustain
			a.stage = StageSustain
		}
	case StageSustain:
		a.value = a.sustain
	case StageRelease:
		a.value -= a.releaseStep
		if a.value <= 0 {
			a.value = 0
			a.stage = StageIdle
		}
	}

	return a.value
}

// IsBipolar reports the [0, 1] output range.
func (a *ADSR) IsBipolar() bool { return false }

// Reset forces the envelope to idle at zero.
func (a *ADSR) Reset() {
	a.stage = StageIdle
	a.value = 0
}
