package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/cwbudde/algo-fx/dsp/unit"
)

const (
	maxDelaySeconds    = 2.0
	defaultDelayTimeMs = 250.0
)

var delayDescriptors = []param.Descriptor{
	{ID: 1, Name: "Time", ShortName: "Time", Unit: "ms", Min: 1, Max: 2000,
		Default: defaultDelayTimeMs, Scale: param.ScaleLogarithmic},
	{ID: 2, Name: "Feedback", ShortName: "Fbk", Min: 0, Max: core.MaxFeedback, Default: 0.35},
	{ID: 3, Name: "Damping", ShortName: "Damp", Min: 0, Max: 1, Default: 0.2},
	{ID: 4, Name: "Mix", ShortName: "Mix", Min: 0, Max: 1, Default: 0.25},
}

// Delay is a stereo feedback delay with damping in the feedback loop.
// The delay time glides, so time changes produce tape-style pitch bends
// instead of clicks, and the wet tap is attenuated as feedback rises so
// the steady-state echo level stays put.
type Delay struct {
	sampleRate float64

	feedback float64
	damping  float64

	timeMs *param.Smoothed
	mix    *param.Smoothed

	lines [2]*delay.Line
	store [2]float64
}

var (
	_ unit.Unit          = (*Delay)(nil)
	_ unit.Parameterized = (*Delay)(nil)
)

// NewDelay creates a delay with practical defaults.
func NewDelay(sampleRate float64) (*Delay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}

	d := &Delay{
		sampleRate: sampleRate,
		feedback:   delayDescriptors[1].Default,
		damping:    delayDescriptors[2].Default,
	}

	var err error
	if d.timeMs, err = param.NewSmoothed(param.Exponential, defaultDelayTimeMs, 50, sampleRate); err != nil {
		return nil, err
	}
	if d.mix, err = param.NewSmoothed(param.Exponential, delayDescriptors[3].Default, 10, sampleRate); err != nil {
		return nil, err
	}

	size := int(math.Ceil(maxDelaySeconds*sampleRate)) + 4
	for ch := range d.lines {
		if d.lines[ch], err = delay.New(size); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// SetSampleRate resizes the delay storage for the new rate. Buffered
// audio is discarded.
func (d *Delay) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}

	if sampleRate == d.sampleRate {
		return nil
	}

	d.sampleRate = sampleRate
	if err := d.timeMs.SetSampleRate(sampleRate); err != nil {
		return err
	}
	if err := d.mix.SetSampleRate(sampleRate); err != nil {
		return err
	}

	size := int(math.Ceil(maxDelaySeconds*sampleRate)) + 4
	for ch := range d.lines {
		line, err := delay.New(size)
		if err != nil {
			return err
		}
		d.lines[ch] = line
	}
	d.store = [2]float64{}

	return nil
}

// Reset clears the delay buffers and damping state.
func (d *Delay) Reset() {
	for ch := range d.lines {
		d.lines[ch].Reset()
	}
	d.store = [2]float64{}
	d.timeMs.SnapToTarget()
	d.mix.SnapToTarget()
}

// ProcessSample processes one stereo frame.
func (d *Delay) ProcessSample(left, right float64) (float64, float64) {
	samples := d.timeMs.Advance() / 1000 * d.sampleRate
	mix := d.mix.Advance()
	comp := core.FeedbackCompensation(d.feedback)

	outL := d.processChannel(0, left, samples, mix, comp)
	outR := d.processChannel(1, right, samples, mix, comp)

	return outL, outR
}

func (d *Delay) processChannel(ch int, input, samples, mix, comp float64) float64 {
	line := d.lines[ch]

	delayed := line.ReadFractional(samples)

	// One-pole damping inside the loop keeps repeats progressively darker.
	d.store[ch] = core.FlushDenormals(delayed*(1-d.damping) + d.store[ch]*d.damping)
	line.Write(core.FlushDenormals(input + d.store[ch]*d.feedback))

	return core.CrossfadeLinear(input, delayed*comp, mix)
}

// LatencySamples reports zero; the delay itself is the effect.
func (d *Delay) LatencySamples() int { return 0 }

// TrueStereo reports false; channels never interact.
func (d *Delay) TrueStereo() bool { return false }

// ParameterCount returns the number of parameters.
func (d *Delay) ParameterCount() int { return len(delayDescriptors) }

// ParameterInfo returns the descriptor for index.
func (d *Delay) ParameterInfo(index int) param.Descriptor { return delayDescriptors[index] }

// Parameter returns the current plain value for index.
func (d *Delay) Parameter(index int) float64 {
	switch index {
	case 0:
		return d.timeMs.Target()
	case 1:
		return d.feedback
	case 2:
		return d.damping
	default:
		return d.mix.Target()
	}
}

// SetParameter clamps and applies a parameter write.
func (d *Delay) SetParameter(index int, value float64) error {
	if index < 0 || index >= len(delayDescriptors) {
		return fmt.Errorf("delay parameter index out of range: %d", index)
	}

	v := delayDescriptors[index].Clamp(value)
	switch index {
	case 0:
		d.timeMs.SetTarget(v)
	case 1:
		d.feedback = core.ClampFeedback(v)
	case 2:
		d.damping = v
	case 3:
		d.mix.SetTarget(v)
	}

	return nil
}
