// Package oversample wraps a processing unit so it runs at a multiple
// of the host sample rate, with polyphase FIR interpolation on the way
// up and FIR decimation on the way down. Nonlinear units generate
// harmonics above Nyquist; running them oversampled keeps those
// harmonics from folding back into the audible band.
package oversample

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/unit"
)

// Option configures an oversampler.
type Option func(*config)

type config struct {
	quality Quality
}

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// Oversampler runs an inner unit at factor times the host rate.
type Oversampler struct {
	inner  unit.Unit
	factor int

	hostRate float64
	quality  Quality

	taps     []float64   // interpolation prototype, DC gain = factor
	phases   [][]float64 // factor branches of tapsPerPhase each
	downTaps []float64   // longer decimation prototype

	upHist [2][]float64
	upPos  int

	downHist [2][]float64
	downPos  int
}

var _ unit.Unit = (*Oversampler)(nil)

// New wraps inner to run at factor times sampleRate. Factor must be
// 2, 4 or 8.
func New(inner unit.Unit, sampleRate float64, factor int, opts ...Option) (*Oversampler, error) {
	if inner == nil {
		return nil, fmt.Errorf("oversample: inner unit must not be nil")
	}

	if factor != 2 && factor != 4 && factor != 8 {
		return nil, fmt.Errorf("oversample: factor must be 2, 4 or 8: %d", factor)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("oversample: sample rate must be > 0: %f", sampleRate)
	}

	cfg := config{quality: QualityBalanced}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	taps, phases, downTaps, err := designFIR(factor, QualityProfile(cfg.quality))
	if err != nil {
		return nil, err
	}

	o := &Oversampler{
		inner:    inner,
		factor:   factor,
		quality:  cfg.quality,
		taps:     taps,
		phases:   phases,
		downTaps: downTaps,
	}

	for ch := 0; ch < 2; ch++ {
		o.upHist[ch] = make([]float64, len(phases[0]))
		o.downHist[ch] = make([]float64, len(downTaps))
	}

	if err := o.SetSampleRate(sampleRate); err != nil {
		return nil, err
	}

	return o, nil
}

// SetSampleRate sets the host rate; the inner unit runs at factor times
// that.
func (o *Oversampler) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("oversample: sample rate must be > 0: %f", sampleRate)
	}

	o.hostRate = sampleRate

	return o.inner.SetSampleRate(sampleRate * float64(o.factor))
}

// Reset clears the filter histories and the inner unit.
func (o *Oversampler) Reset() {
	for ch := 0; ch < 2; ch++ {
		for i := range o.upHist[ch] {
			o.upHist[ch][i] = 0
		}
		for i := range o.downHist[ch] {
			o.downHist[ch][i] = 0
		}
	}
	o.upPos = 0
	o.downPos = 0
	o.inner.Reset()
}

// ProcessSample interpolates one frame up, runs the inner unit factor
// times, and decimates back to a single output frame.
func (o *Oversampler) ProcessSample(left, right float64) (float64, float64) {
	o.pushInput(left, right)

	for p := 0; p < o.factor; p++ {
		hiL := o.interpolate(0, p)
		hiR := o.interpolate(1, p)

		hiL, hiR = o.inner.ProcessSample(hiL, hiR)

		o.pushHi(hiL, hiR)
	}

	return o.decimate(0), o.decimate(1)
}

func (o *Oversampler) pushInput(left, right float64) {
	o.upPos++
	if o.upPos >= len(o.upHist[0]) {
		o.upPos = 0
	}
	o.upHist[0][o.upPos] = left
	o.upHist[1][o.upPos] = right
}

func (o *Oversampler) interpolate(ch, phase int) float64 {
	hist := o.upHist[ch]
	coeffs := o.phases[phase]
	n := len(hist)

	var sum float64
	idx := o.upPos
	for _, c := range coeffs {
		sum += c * hist[idx]
		idx--
		if idx < 0 {
			idx = n - 1
		}
	}

	return sum
}

func (o *Oversampler) pushHi(left, right float64) {
	o.downPos++
	if o.downPos >= len(o.downHist[0]) {
		o.downPos = 0
	}
	o.downHist[0][o.downPos] = left
	o.downHist[1][o.downPos] = right
}

func (o *Oversampler) decimate(ch int) float64 {
	hist := o.downHist[ch]
	n := len(hist)
	inv := 1 / float64(o.factor)

	var sum float64
	idx := o.downPos
	for _, c := range o.downTaps {
		sum += c * hist[idx]
		idx--
		if idx < 0 {
			idx = n - 1
		}
	}

	return sum * inv
}

// LatencySamples reports the combined interpolation and decimation
// group delay plus the inner unit's latency, all in host samples. The
// inner unit runs at factor times the host rate, so its own figure is
// divided back down.
func (o *Oversampler) LatencySamples() int {
	fir := (len(o.taps) + len(o.downTaps) - 2) / (2 * o.factor)

	return fir + o.inner.LatencySamples()/o.factor
}

// TrueStereo forwards the inner unit's channel coupling.
func (o *Oversampler) TrueStereo() bool { return o.inner.TrueStereo() }

// Factor returns the oversampling factor.
func (o *Oversampler) Factor() int { return o.factor }

// Quality returns the anti-aliasing quality mode.
func (o *Oversampler) Quality() Quality { return o.quality }

// Inner returns the wrapped unit.
func (o *Oversampler) Inner() unit.Unit { return o.inner }
