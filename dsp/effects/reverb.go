package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/cwbudde/algo-fx/dsp/unit"
)

// Comb and allpass lengths in samples at the reference rate. The right
// channel runs the same network detuned by a fixed spread so the tails
// decorrelate.
var (
	reverbCombLengths    = []int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	reverbAllpassLengths = []int{556, 441, 341, 225}
)

const (
	reverbReferenceRate = 44100.0
	reverbStereoSpread  = 23
	reverbInputGain     = 0.015
	reverbScaleRoom     = 0.28
	reverbOffsetRoom    = 0.7
)

var reverbDescriptors = []param.Descriptor{
	{ID: 1, Name: "Room Size", ShortName: "Room", Min: 0, Max: 1, Default: 0.5},
	{ID: 2, Name: "Damping", ShortName: "Damp", Min: 0, Max: 1, Default: 0.5},
	{ID: 3, Name: "Width", ShortName: "Wid", Min: 0, Max: 1, Default: 1},
	{ID: 4, Name: "Mix", ShortName: "Mix", Min: 0, Max: 1, Default: 0.3},
}

// Reverb is a parallel comb bank feeding a series allpass diffuser, one
// network per channel. The comb sum is attenuated by the square root of
// the loop headroom so room size changes keep a steady wet level.
type Reverb struct {
	sampleRate float64

	roomSize float64
	damping  float64
	width    float64
	mix      *param.Smoothed

	combs     [2][]*delay.Comb
	allpasses [2][]*delay.Allpass
}

var (
	_ unit.Unit          = (*Reverb)(nil)
	_ unit.Parameterized = (*Reverb)(nil)
)

// NewReverb creates a reverb with practical defaults.
func NewReverb(sampleRate float64) (*Reverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}

	r := &Reverb{
		sampleRate: sampleRate,
		roomSize:   reverbDescriptors[0].Default,
		damping:    reverbDescriptors[1].Default,
		width:      reverbDescriptors[2].Default,
	}

	var err error
	if r.mix, err = param.NewSmoothed(param.Exponential, reverbDescriptors[3].Default, 10, sampleRate); err != nil {
		return nil, err
	}

	if err := r.buildNetwork(); err != nil {
		return nil, err
	}
	r.applyTuning()

	return r, nil
}

func (r *Reverb) buildNetwork() error {
	scale := r.sampleRate / reverbReferenceRate

	for ch := 0; ch < 2; ch++ {
		spread := ch * reverbStereoSpread

		r.combs[ch] = make([]*delay.Comb, len(reverbCombLengths))
		for i, n := range reverbCombLengths {
			size := int(math.Round(float64(n+spread) * scale))
			comb, err := delay.NewComb(size)
			if err != nil {
				return err
			}
			r.combs[ch][i] = comb
		}

		r.allpasses[ch] = make([]*delay.Allpass, len(reverbAllpassLengths))
		for i, n := range reverbAllpassLengths {
			size := int(math.Round(float64(n+spread) * scale))
			ap, err := delay.NewAllpass(size)
			if err != nil {
				return err
			}
			r.allpasses[ch][i] = ap
		}
	}

	return nil
}

func (r *Reverb) applyTuning() {
	feedback := core.ClampFeedback(r.roomSize*reverbScaleRoom + reverbOffsetRoom)

	for ch := 0; ch < 2; ch++ {
		for _, comb := range r.combs[ch] {
			comb.SetFeedback(feedback)
			comb.SetDamp(r.damping)
		}
	}
}

func (r *Reverb) combFeedback() float64 {
	return core.ClampFeedback(r.roomSize*reverbScaleRoom + reverbOffsetRoom)
}

// SetSampleRate rebuilds the network for the new rate, discarding tails.
func (r *Reverb) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}

	if sampleRate == r.sampleRate {
		return nil
	}

	r.sampleRate = sampleRate
	if err := r.mix.SetSampleRate(sampleRate); err != nil {
		return err
	}

	if err := r.buildNetwork(); err != nil {
		return err
	}
	r.applyTuning()

	return nil
}

// Reset clears all comb and allpass state.
func (r *Reverb) Reset() {
	for ch := 0; ch < 2; ch++ {
		for _, comb := range r.combs[ch] {
			comb.Reset()
		}
		for _, ap := range r.allpasses[ch] {
			ap.Reset()
		}
	}
	r.mix.SnapToTarget()
}

// ProcessSample processes one stereo frame.
func (r *Reverb) ProcessSample(left, right float64) (float64, float64) {
	mix := r.mix.Advance()
	comp := core.BankFeedbackCompensation(r.combFeedback())

	input := (left + right) * reverbInputGain

	wetL := r.processChannel(0, input) * comp
	wetR := r.processChannel(1, input) * comp

	// Width blends the decorrelated tails back toward mono.
	wet1 := r.width/2 + 0.5
	wet2 := (1 - r.width) / 2

	outL := core.CrossfadeLinear(left, wetL*wet1+wetR*wet2, mix)
	outR := core.CrossfadeLinear(right, wetR*wet1+wetL*wet2, mix)

	return outL, outR
}

func (r *Reverb) processChannel(ch int, input float64) float64 {
	var sum float64
	for _, comb := range r.combs[ch] {
		sum += comb.Process(input)
	}

	for _, ap := range r.allpasses[ch] {
		sum = ap.Process(sum)
	}

	return sum
}

// LatencySamples reports zero latency.
func (r *Reverb) LatencySamples() int { return 0 }

// TrueStereo reports true; both channels feed a shared input and the
// width control cross-mixes the tails.
func (r *Reverb) TrueStereo() bool { return true }

// ParameterCount returns the number of parameters.
func (r *Reverb) ParameterCount() int { return len(reverbDescriptors) }

// ParameterInfo returns the descriptor for index.
func (r *Reverb) ParameterInfo(index int) param.Descriptor { return reverbDescriptors[index] }

// Parameter returns the current plain value for index.
func (r *Reverb) Parameter(index int) float64 {
	switch index {
	case 0:
		return r.roomSize
	case 1:
		return r.damping
	case 2:
		return r.width
	default:
		return r.mix.Target()
	}
}

// SetParameter clamps and applies a parameter write.
func (r *Reverb) SetParameter(index int, value float64) error {
	if index < 0 || index >= len(reverbDescriptors) {
		return fmt.Errorf("reverb parameter index out of range: %d", index)
	}

	v := reverbDescriptors[index].Clamp(value)
	switch index {
	case 0:
		r.roomSize = v
		r.applyTuning()
	case 1:
		r.damping = v
		r.applyTuning()
	case 2:
		r.width = v
	case 3:
		r.mix.SetTarget(v)
	}

	return nil
}
