package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/mod"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/cwbudde/algo-fx/dsp/unit"
)

const defaultTremoloRate = 4.0

var tremoloDescriptors = []param.Descriptor{
	{ID: 1, Name: "Rate", ShortName: "Rate", Unit: "Hz", Min: 0.1, Max: 20,
		Default: defaultTremoloRate, Scale: param.ScaleLogarithmic},
	{ID: 2, Name: "Depth", ShortName: "Dep", Min: 0, Max: 1, Default: 0.6},
	{ID: 3, Name: "Spread", ShortName: "Sprd", Min: 0, Max: 1, Default: 0},
}

// Tremolo modulates the signal amplitude with a sine LFO. Spread offsets
// the right channel's LFO by up to half a cycle for a panning feel.
type Tremolo struct {
	sampleRate float64

	rate   float64
	spread float64
	depth  *param.Smoothed

	lfos [2]*mod.LFO
}

var (
	_ unit.Unit          = (*Tremolo)(nil)
	_ unit.Parameterized = (*Tremolo)(nil)
)

// NewTremolo creates a tremolo with practical defaults.
func NewTremolo(sampleRate float64) (*Tremolo, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tremolo sample rate must be > 0: %f", sampleRate)
	}

	t := &Tremolo{
		sampleRate: sampleRate,
		rate:       defaultTremoloRate,
	}

	var err error
	if t.depth, err = param.NewSmoothed(param.Exponential, tremoloDescriptors[1].Default, 5, sampleRate); err != nil {
		return nil, err
	}

	for ch := range t.lfos {
		lfo, err := mod.NewLFO(sampleRate, t.rate, mod.ShapeSine)
		if err != nil {
			return nil, err
		}
		t.lfos[ch] = lfo
	}

	return t, nil
}

// SetSampleRate updates the modulation rate derivations.
func (t *Tremolo) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("tremolo sample rate must be > 0: %f", sampleRate)
	}

	t.sampleRate = sampleRate
	if err := t.depth.SetSampleRate(sampleRate); err != nil {
		return err
	}

	for ch := range t.lfos {
		if err := t.lfos[ch].SetSampleRate(sampleRate); err != nil {
			return err
		}
	}

	return nil
}

// Reset rewinds both LFOs, preserving the spread offset.
func (t *Tremolo) Reset() {
	t.lfos[0].Reset()
	t.lfos[1].Reset()
	t.lfos[1].SetPhase(t.spread / 2)
	t.depth.SnapToTarget()
}

// ProcessSample processes one stereo frame.
func (t *Tremolo) ProcessSample(left, right float64) (float64, float64) {
	depth := t.depth.Advance()

	gainL := tremoloGain(t.lfos[0], depth)
	gainR := tremoloGain(t.lfos[1], depth)

	return left * gainL, right * gainR
}

// tremoloGain dips the gain by the given depth. The LFO is routed
// through a modulation send carrying half the depth, swinging around
// 1 - depth/2: depth 0 is unity, depth 1 reaches down to zero.
func tremoloGain(lfo *mod.LFO, depth float64) float64 {
	send := mod.Amount{Source: lfo, Depth: depth / 2}

	return (1 - depth/2) + send.Advance()
}

// LatencySamples reports zero latency.
func (t *Tremolo) LatencySamples() int { return 0 }

// TrueStereo reports false; the channels never interact.
func (t *Tremolo) TrueStereo() bool { return false }

// ParameterCount returns the number of parameters.
func (t *Tremolo) ParameterCount() int { return len(tremoloDescriptors) }

// ParameterInfo returns the descriptor for index.
func (t *Tremolo) ParameterInfo(index int) param.Descriptor { return tremoloDescriptors[index] }

// Parameter returns the current plain value for index.
func (t *Tremolo) Parameter(index int) float64 {
	switch index {
	case 0:
		return t.rate
	case 1:
		return t.depth.Target()
	default:
		return t.spread
	}
}

// SetParameter clamps and applies a parameter write.
func (t *Tremolo) SetParameter(index int, value float64) error {
	if index < 0 || index >= len(tremoloDescriptors) {
		return fmt.Errorf("tremolo parameter index out of range: %d", index)
	}

	v := tremoloDescriptors[index].Clamp(value)
	switch index {
	case 0:
		t.rate = v
		for ch := range t.lfos {
			if err := t.lfos[ch].SetFrequency(v); err != nil {
				return err
			}
		}
	case 1:
		t.depth.SetTarget(v)
	case 2:
		t.spread = v
		// Re-anchor the right LFO against the left one so the offset is
		// exact from this point on.
		t.lfos[1].SetPhase(t.lfos[0].Phase() + v/2)
	}

	return nil
}
