package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/mod"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/cwbudde/algo-fx/dsp/unit"
)

var limiterDescriptors = []param.Descriptor{
	{ID: 1, Name: "Ceiling", ShortName: "Ceil", Unit: "dB", Min: -24, Max: 0, Default: -0.3},
	{ID: 2, Name: "Knee", ShortName: "Knee", Unit: "dB", Min: 0, Max: 12, Default: 6},
	{ID: 3, Name: "Release", ShortName: "Rel", Unit: "ms", Min: 10, Max: 1000,
		Default: 100, Scale: param.ScaleLogarithmic},
}

// Limiter keeps the stereo peak under a ceiling. A shared envelope
// follower rides the louder channel and pulls the gain down ahead of the
// knee, then a soft clip at the ceiling catches whatever the envelope
// misses.
type Limiter struct {
	sampleRate float64

	ceilingDB float64
	kneeDB    float64
	releaseMs float64

	ceiling float64
	knee    float64

	envelope *mod.EnvelopeFollower
}

var (
	_ unit.Unit          = (*Limiter)(nil)
	_ unit.Parameterized = (*Limiter)(nil)
)

// NewLimiter creates a limiter with practical defaults.
func NewLimiter(sampleRate float64) (*Limiter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("limiter sample rate must be > 0: %f", sampleRate)
	}

	l := &Limiter{
		sampleRate: sampleRate,
		ceilingDB:  limiterDescriptors[0].Default,
		kneeDB:     limiterDescriptors[1].Default,
		releaseMs:  limiterDescriptors[2].Default,
	}
	l.deriveCurve()

	var err error
	if l.envelope, err = mod.NewEnvelopeFollower(sampleRate, 0.1, l.releaseMs); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Limiter) deriveCurve() {
	l.ceiling = core.DBToLinear(l.ceilingDB)
	// Knee width in linear amplitude below the ceiling.
	l.knee = l.ceiling * (1 - core.DBToLinear(-l.kneeDB))
}

// SetSampleRate re-derives the envelope ballistics for a new rate.
func (l *Limiter) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("limiter sample rate must be > 0: %f", sampleRate)
	}

	l.sampleRate = sampleRate

	return l.envelope.SetSampleRate(sampleRate)
}

// Reset clears the gain envelope.
func (l *Limiter) Reset() {
	l.envelope.Reset()
}

// ProcessSample processes one stereo frame. Both channels share one gain
// so the image does not shift while limiting.
func (l *Limiter) ProcessSample(left, right float64) (float64, float64) {
	peak := math.Max(math.Abs(left), math.Abs(right))
	l.envelope.Observe(peak)
	env := l.envelope.Advance()

	gain := 1.0
	if env > l.ceiling {
		gain = l.ceiling / env
	}

	outL := core.SoftLimit(left*gain, l.ceiling, l.knee)
	outR := core.SoftLimit(right*gain, l.ceiling, l.knee)

	return outL, outR
}

// LatencySamples reports zero; this limiter does not look ahead.
func (l *Limiter) LatencySamples() int { return 0 }

// TrueStereo reports true; one gain envelope spans both channels.
func (l *Limiter) TrueStereo() bool { return true }

// ParameterCount returns the number of parameters.
func (l *Limiter) ParameterCount() int { return len(limiterDescriptors) }

// ParameterInfo returns the descriptor for index.
func (l *Limiter) ParameterInfo(index int) param.Descriptor { return limiterDescriptors[index] }

// Parameter returns the current plain value for index.
func (l *Limiter) Parameter(index int) float64 {
	switch index {
	case 0:
		return l.ceilingDB
	case 1:
		return l.kneeDB
	default:
		return l.releaseMs
	}
}

// SetParameter clamps and applies a parameter write.
func (l *Limiter) SetParameter(index int, value float64) error {
	if index < 0 || index >= len(limiterDescriptors) {
		return fmt.Errorf("limiter parameter index out of range: %d", index)
	}

	v := limiterDescriptors[index].Clamp(value)
	switch index {
	case 0:
		l.ceilingDB = v
		l.deriveCurve()
	case 1:
		l.kneeDB = v
		l.deriveCurve()
	case 2:
		l.releaseMs = v

		return l.envelope.SetRelease(v)
	}

	return nil
}
