package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/filter/svf"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/cwbudde/algo-fx/dsp/unit"
)

// FilterMode selects which state-variable output the filter exposes.
type FilterMode int

const (
	FilterLowpass FilterMode = iota
	FilterHighpass
	FilterBandpass
	FilterNotch
)

var filterDescriptors = []param.Descriptor{
	{ID: 1, Name: "Cutoff", ShortName: "Cut", Unit: "Hz", Min: 20, Max: 20000,
		Default: 1000, Scale: param.ScaleLogarithmic},
	{ID: 2, Name: "Resonance", ShortName: "Res", Min: 0.5, Max: 10, Default: 0.707,
		Scale: param.ScaleLogarithmic},
	{ID: 3, Name: "Mode", ShortName: "Mode", Min: 0, Max: 3, Default: 0, Step: 1},
}

// Filter hosts a state-variable filter per channel. The cutoff glides at
// audio rate, so sweeps stay clean even with high resonance.
type Filter struct {
	sampleRate float64

	mode      FilterMode
	resonance float64
	cutoff    *param.Smoothed

	filters [2]*svf.Filter
}

var (
	_ unit.Unit          = (*Filter)(nil)
	_ unit.Parameterized = (*Filter)(nil)
)

// NewFilter creates a lowpass filter at 1 kHz.
func NewFilter(sampleRate float64) (*Filter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("filter sample rate must be > 0: %f", sampleRate)
	}

	f := &Filter{
		sampleRate: sampleRate,
		resonance:  filterDescriptors[1].Default,
	}

	var err error
	if f.cutoff, err = param.NewSmoothed(param.Exponential, filterDescriptors[0].Default, 15, sampleRate); err != nil {
		return nil, err
	}

	for ch := range f.filters {
		if f.filters[ch], err = svf.New(sampleRate); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// SetSampleRate re-derives the filter coefficients for a new rate.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("filter sample rate must be > 0: %f", sampleRate)
	}

	f.sampleRate = sampleRate
	if err := f.cutoff.SetSampleRate(sampleRate); err != nil {
		return err
	}

	for ch := range f.filters {
		if err := f.filters[ch].SetSampleRate(sampleRate); err != nil {
			return err
		}
	}

	return nil
}

// Reset clears the filter state.
func (f *Filter) Reset() {
	for ch := range f.filters {
		f.filters[ch].Reset()
	}
	f.cutoff.SnapToTarget()
}

// ProcessSample processes one stereo frame.
func (f *Filter) ProcessSample(left, right float64) (float64, float64) {
	if !f.cutoff.Settled() {
		hz := f.cutoff.Advance()
		for ch := range f.filters {
			f.filters[ch].SetCutoff(hz)
		}
	}

	return f.pick(f.filters[0].ProcessSample(left)), f.pick(f.filters[1].ProcessSample(right))
}

func (f *Filter) pick(out svf.Outputs) float64 {
	switch f.mode {
	case FilterHighpass:
		return out.Highpass
	case FilterBandpass:
		return out.Bandpass
	case FilterNotch:
		return out.Notch
	default:
		return out.Lowpass
	}
}

// LatencySamples reports zero latency.
func (f *Filter) LatencySamples() int { return 0 }

// TrueStereo reports false; the channels never interact.
func (f *Filter) TrueStereo() bool { return false }

// ParameterCount returns the number of parameters.
func (f *Filter) ParameterCount() int { return len(filterDescriptors) }

// ParameterInfo returns the descriptor for index.
func (f *Filter) ParameterInfo(index int) param.Descriptor { return filterDescriptors[index] }

// Parameter returns the current plain value for index.
func (f *Filter) Parameter(index int) float64 {
	switch index {
	case 0:
		return f.cutoff.Target()
	case 1:
		return f.resonance
	default:
		return float64(f.mode)
	}
}

// SetParameter clamps and applies a parameter write.
func (f *Filter) SetParameter(index int, value float64) error {
	if index < 0 || index >= len(filterDescriptors) {
		return fmt.Errorf("filter parameter index out of range: %d", index)
	}

	v := filterDescriptors[index].Clamp(value)
	switch index {
	case 0:
		f.cutoff.SetTarget(v)
	case 1:
		f.resonance = v
		for ch := range f.filters {
			f.filters[ch].SetQ(v)
		}
	case 2:
		f.mode = FilterMode(v)
	}

	return nil
}
