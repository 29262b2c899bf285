package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/mod"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/cwbudde/algo-fx/dsp/unit"
)

const (
	chorusBaseDelayMs  = 7.0
	chorusSweepMs      = 3.0
	chorusRightPhase   = 0.25
	chorusHeadroomMs   = 2.0
	defaultChorusRate  = 0.8
	defaultChorusDepth = 0.5
)

var chorusDescriptors = []param.Descriptor{
	{ID: 1, Name: "Rate", ShortName: "Rate", Unit: "Hz", Min: 0.05, Max: 10,
		Default: defaultChorusRate, Scale: param.ScaleLogarithmic},
	{ID: 2, Name: "Depth", ShortName: "Dep", Min: 0, Max: 1, Default: defaultChorusDepth},
	{ID: 3, Name: "Mix", ShortName: "Mix", Min: 0, Max: 1, Default: 0.5},
}

// Chorus reads a cubic-interpolated tap that sweeps around a short base
// delay. The two channels share rate and depth but run their LFOs a
// quarter cycle apart, which widens the image without channel crosstalk.
type Chorus struct {
	sampleRate float64

	rate  float64
	depth *param.Smoothed
	mix   *param.Smoothed

	lines [2]*delay.Line
	lfos  [2]*mod.LFO
}

var (
	_ unit.Unit          = (*Chorus)(nil)
	_ unit.Parameterized = (*Chorus)(nil)
)

// NewChorus creates a chorus with practical defaults.
func NewChorus(sampleRate float64) (*Chorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("chorus sample rate must be > 0: %f", sampleRate)
	}

	c := &Chorus{
		sampleRate: sampleRate,
		rate:       defaultChorusRate,
	}

	var err error
	if c.depth, err = param.NewSmoothed(param.Exponential, defaultChorusDepth, 20, sampleRate); err != nil {
		return nil, err
	}
	if c.mix, err = param.NewSmoothed(param.Exponential, chorusDescriptors[2].Default, 10, sampleRate); err != nil {
		return nil, err
	}

	if err := c.buildLines(); err != nil {
		return nil, err
	}

	for ch := range c.lfos {
		lfo, err := mod.NewLFO(sampleRate, c.rate, mod.ShapeSine)
		if err != nil {
			return nil, err
		}
		c.lfos[ch] = lfo
	}
	c.lfos[1].SetPhase(chorusRightPhase)

	return c, nil
}

func (c *Chorus) buildLines() error {
	ms := chorusBaseDelayMs + chorusSweepMs + chorusHeadroomMs
	size := int(math.Ceil(ms / 1000 * c.sampleRate))

	for ch := range c.lines {
		line, err := delay.New(size)
		if err != nil {
			return err
		}
		c.lines[ch] = line
	}

	return nil
}

// SetSampleRate resizes the sweep buffers, discarding buffered audio.
func (c *Chorus) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("chorus sample rate must be > 0: %f", sampleRate)
	}

	if sampleRate == c.sampleRate {
		return nil
	}

	c.sampleRate = sampleRate
	if err := c.depth.SetSampleRate(sampleRate); err != nil {
		return err
	}
	if err := c.mix.SetSampleRate(sampleRate); err != nil {
		return err
	}
	for ch := range c.lfos {
		if err := c.lfos[ch].SetSampleRate(sampleRate); err != nil {
			return err
		}
	}

	return c.buildLines()
}

// Reset clears the sweep buffers and rewinds the LFOs to their phase
// offsets.
func (c *Chorus) Reset() {
	for ch := range c.lines {
		c.lines[ch].Reset()
	}
	c.lfos[0].Reset()
	c.lfos[1].Reset()
	c.lfos[1].SetPhase(chorusRightPhase)
	c.depth.SnapToTarget()
	c.mix.SnapToTarget()
}

// ProcessSample processes one stereo frame.
func (c *Chorus) ProcessSample(left, right float64) (float64, float64) {
	depth := c.depth.Advance()
	mix := c.mix.Advance()

	outL := c.processChannel(0, left, depth, mix)
	outR := c.processChannel(1, right, depth, mix)

	return outL, outR
}

func (c *Chorus) processChannel(ch int, input, depth, mix float64) float64 {
	sweep := c.lfos[ch].Advance() * depth * chorusSweepMs
	samples := (chorusBaseDelayMs + sweep) / 1000 * c.sampleRate

	c.lines[ch].Write(input)
	wet := c.lines[ch].ReadFractional(samples)

	return core.CrossfadeLinear(input, wet, mix)
}

// LatencySamples reports zero; the sweep delay is the effect.
func (c *Chorus) LatencySamples() int { return 0 }

// TrueStereo reports false; the channels only differ in LFO phase.
func (c *Chorus) TrueStereo() bool { return false }

// ParameterCount returns the number of parameters.
func (c *Chorus) ParameterCount() int { return len(chorusDescriptors) }

// ParameterInfo returns the descriptor for index.
func (c *Chorus) ParameterInfo(index int) param.Descriptor { return chorusDescriptors[index] }

// Parameter returns the current plain value for index.
func (c *Chorus) Parameter(index int) float64 {
	switch index {
	case 0:
		return c.rate
	case 1:
		return c.depth.Target()
	default:
		return c.mix.Target()
	}
}

// SetParameter clamps and applies a parameter write.
func (c *Chorus) SetParameter(index int, value float64) error {
	if index < 0 || index >= len(chorusDescriptors) {
		return fmt.Errorf("chorus parameter index out of range: %d", index)
	}

	v := chorusDescriptors[index].Clamp(value)
	switch index {
	case 0:
		c.rate = v
		for ch := range c.lfos {
			if err := c.lfos[ch].SetFrequency(v); err != nil {
				return err
			}
		}
	case 1:
		c.depth.SetTarget(v)
	case 2:
		c.mix.SetTarget(v)
	}

	return nil
}
