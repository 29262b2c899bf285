package oversample

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/effects"
	"github.com/cwbudde/algo-fx/dsp/unit"
	"github.com/cwbudde/algo-fx/internal/testutil"
)

// passthrough forwards frames unchanged.
type passthrough struct {
	sampleRate float64
	resets     int
}

func (p *passthrough) ProcessSample(l, r float64) (float64, float64) { return l, r }

func (p *passthrough) SetSampleRate(sr float64) error {
	p.sampleRate = sr
	return nil
}

func (p *passthrough) Reset()              { p.resets++ }
func (p *passthrough) LatencySamples() int { return 0 }
func (p *passthrough) TrueStereo() bool    { return false }

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, 48000, 2); err == nil {
		t.Fatal("expected error for nil inner")
	}

	if _, err := New(&passthrough{}, 48000, 3); err == nil {
		t.Fatal("expected error for factor 3")
	}

	if _, err := New(&passthrough{}, 0, 2); err == nil {
		t.Fatal("expected error for rate 0")
	}
}

func TestInnerRunsAtMultipliedRate(t *testing.T) {
	inner := &passthrough{}

	o, err := New(inner, 48000, 4)
	if err != nil {
		t.Fatal(err)
	}

	if inner.sampleRate != 192000 {
		t.Fatalf("inner rate: %v", inner.sampleRate)
	}

	if err := o.SetSampleRate(96000); err != nil {
		t.Fatal(err)
	}

	if inner.sampleRate != 384000 {
		t.Fatalf("inner rate after change: %v", inner.sampleRate)
	}
}

// latentUnit reports a fixed latency at its own (oversampled) rate.
type latentUnit struct {
	passthrough
	latency int
}

func (u *latentUnit) LatencySamples() int { return u.latency }

func TestLatencyScalesInnerToHostRate(t *testing.T) {
	base, err := New(&passthrough{}, 48000, 4)
	if err != nil {
		t.Fatal(err)
	}
	fir := base.LatencySamples()

	// 40 samples at 4x are 10 host samples.
	o, err := New(&latentUnit{latency: 40}, 48000, 4)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := o.LatencySamples(), fir+10; got != want {
		t.Fatalf("latency: got %d want %d (fir %d)", got, want, fir)
	}
}

func TestDecimatorDeeperThanInterpolator(t *testing.T) {
	o, err := New(&passthrough{}, 48000, 4)
	if err != nil {
		t.Fatal(err)
	}

	if len(o.downTaps) <= len(o.taps) {
		t.Fatalf("decimator not longer: %d vs %d", len(o.downTaps), len(o.taps))
	}

	if p := QualityProfile(QualityBalanced); p.DecimStopbandDB < 80 {
		t.Fatalf("default decimation stopband too shallow: %v dB", p.DecimStopbandDB)
	}
}

func TestImpulseArrivesAtReportedLatency(t *testing.T) {
	for _, factor := range []int{2, 4, 8} {
		o, err := New(&passthrough{}, 48000, factor)
		if err != nil {
			t.Fatal(err)
		}

		latency := o.LatencySamples()

		peakAt, peak := -1, 0.0
		for i := 0; i < latency*2+16; i++ {
			in := 0.0
			if i == 0 {
				in = 1
			}
			l, _ := o.ProcessSample(in, 0)
			if math.Abs(l) > peak {
				peak = math.Abs(l)
				peakAt = i
			}
		}

		if peakAt != latency {
			t.Fatalf("factor %d: impulse peak at %d, reported latency %d", factor, peakAt, latency)
		}

		if peak < 0.8 {
			t.Fatalf("factor %d: impulse attenuated to %v", factor, peak)
		}
	}
}

func TestPassbandToneSurvives(t *testing.T) {
	const (
		sampleRate = 48000.0
		freq       = 1000.0
		n          = 8192
	)

	o, err := New(&passthrough{}, sampleRate, 4, WithQuality(QualityBest))
	if err != nil {
		t.Fatal(err)
	}

	var sumSq float64
	for i := 0; i < 2*n; i++ {
		x := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		l, _ := o.ProcessSample(x, x)
		if i >= n {
			sumSq += l * l
		}
	}

	rms := math.Sqrt(sumSq / n)
	if math.Abs(rms-math.Sqrt2/2) > 0.01 {
		t.Fatalf("passband rms: %v", rms)
	}
}

func TestResetPropagates(t *testing.T) {
	inner := &passthrough{}

	o, err := New(inner, 48000, 2)
	if err != nil {
		t.Fatal(err)
	}

	o.ProcessSample(1, 1)
	o.Reset()

	if inner.resets != 1 {
		t.Fatal("inner not reset")
	}

	// Histories cleared: silence in, silence out immediately.
	l, r := o.ProcessSample(0, 0)
	if l != 0 || r != 0 {
		t.Fatalf("stale history: %v %v", l, r)
	}
}

func TestOversamplingSuppressesAliasing(t *testing.T) {
	const (
		sampleRate = 48000.0
		fftSize    = 8192
		toneBin    = 1200 // 7031.25 Hz
		aliasBin   = 2192 // folded 5th harmonic
	)

	drive := func(t *testing.T) *effects.Drive {
		t.Helper()

		d, err := effects.NewDrive(sampleRate)
		if err != nil {
			t.Fatal(err)
		}
		if err := d.SetParameter(0, 36); err != nil {
			t.Fatal(err)
		}
		if err := d.SetParameter(1, 0); err != nil {
			t.Fatal(err)
		}
		d.Reset()

		return d
	}

	run := func(t *testing.T, u unit.Unit) []float64 {
		t.Helper()

		freq := sampleRate * toneBin / fftSize
		out := make([]float64, 2*fftSize)
		for i := range out {
			x := 0.9 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
			out[i], _ = u.ProcessSample(x, x)
		}

		return out
	}

	direct := testutil.MagnitudeSpectrum(t, run(t, drive(t)), fftSize)

	o, err := New(drive(t), sampleRate, 4, WithQuality(QualityBest))
	if err != nil {
		t.Fatal(err)
	}
	oversampled := testutil.MagnitudeSpectrum(t, run(t, o), fftSize)

	// The fundamental survives both paths.
	if oversampled[toneBin] < direct[toneBin]/2 {
		t.Fatalf("fundamental lost: %v vs %v", oversampled[toneBin], direct[toneBin])
	}

	// The folded harmonic drops by at least 20 dB.
	if oversampled[aliasBin] > direct[aliasBin]/10 {
		t.Fatalf("alias not suppressed: %v vs %v", oversampled[aliasBin], direct[aliasBin])
	}
}

func BenchmarkOversampler4x(b *testing.B) {
	o, _ := New(&passthrough{}, 48000, 4)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		o.ProcessSample(0.25, -0.25)
	}
}
