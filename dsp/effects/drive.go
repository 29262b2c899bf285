package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/cwbudde/algo-fx/dsp/unit"
)

// DriveShape selects the shaper curve.
type DriveShape int

const (
	DriveSmooth DriveShape = iota
	DriveHard
)

var driveDescriptors = []param.Descriptor{
	{ID: 1, Name: "Drive", ShortName: "Drv", Unit: "dB", Min: 0, Max: 36, Default: 12},
	{ID: 2, Name: "Level", ShortName: "Lvl", Unit: "dB", Min: -24, Max: 0, Default: -3},
	{ID: 3, Name: "Shape", ShortName: "Shp", Min: 0, Max: 1, Default: 0, Step: 1},
}

// Drive is a waveshaper with a makeup level control, smooth (tanh) or
// hard-clipping. The shaper is memoryless, so all of its coloration is
// harmonic; run it inside an oversampling wrapper when aliasing matters.
type Drive struct {
	driveDB float64
	levelDB float64
	shape   DriveShape

	preGain  *param.Smoothed
	postGain float64
}

var (
	_ unit.Unit          = (*Drive)(nil)
	_ unit.Parameterized = (*Drive)(nil)
)

// NewDrive creates a drive with practical defaults.
func NewDrive(sampleRate float64) (*Drive, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("drive sample rate must be > 0: %f", sampleRate)
	}

	d := &Drive{
		driveDB: driveDescriptors[0].Default,
		levelDB: driveDescriptors[1].Default,
	}
	d.postGain = core.DBToLinear(d.levelDB)

	var err error
	if d.preGain, err = param.NewSmoothed(param.Exponential, core.DBToLinear(d.driveDB), 10, sampleRate); err != nil {
		return nil, err
	}

	return d, nil
}

// SetSampleRate re-derives the gain smoothing for a new rate.
func (d *Drive) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("drive sample rate must be > 0: %f", sampleRate)
	}

	return d.preGain.SetSampleRate(sampleRate)
}

// Reset snaps the gain glide; the shaper itself is stateless.
func (d *Drive) Reset() {
	d.preGain.SnapToTarget()
}

// ProcessSample processes one stereo frame.
func (d *Drive) ProcessSample(left, right float64) (float64, float64) {
	g := d.preGain.Advance()

	if d.shape == DriveHard {
		return core.Clamp(left*g, -1, 1) * d.postGain, core.Clamp(right*g, -1, 1) * d.postGain
	}

	return math.Tanh(left*g) * d.postGain, math.Tanh(right*g) * d.postGain
}

// LatencySamples reports zero latency.
func (d *Drive) LatencySamples() int { return 0 }

// TrueStereo reports false; the channels never interact.
func (d *Drive) TrueStereo() bool { return false }

// ParameterCount returns the number of parameters.
func (d *Drive) ParameterCount() int { return len(driveDescriptors) }

// ParameterInfo returns the descriptor for index.
func (d *Drive) ParameterInfo(index int) param.Descriptor { return driveDescriptors[index] }

// Parameter returns the current plain value for index.
func (d *Drive) Parameter(index int) float64 {
	switch index {
	case 0:
		return d.driveDB
	case 1:
		return d.levelDB
	default:
		return float64(d.shape)
	}
}

// SetParameter clamps and applies a parameter write.
func (d *Drive) SetParameter(index int, value float64) error {
	if index < 0 || index >= len(driveDescriptors) {
		return fmt.Errorf("drive parameter index out of range: %d", index)
	}

	v := driveDescriptors[index].Clamp(value)
	switch index {
	case 0:
		d.driveDB = v
		d.preGain.SetTarget(core.DBToLinear(v))
	case 1:
		d.levelDB = v
		d.postGain = core.DBToLinear(v)
	case 2:
		d.shape = DriveShape(v)
	}

	return nil
}
