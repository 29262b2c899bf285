package effects

import (
	"math"
	"testing"
)

func TestFilterLowpassPassesDC(t *testing.T) {
	f, err := NewFilter(48000)
	if err != nil {
		t.Fatal(err)
	}

	var l float64
	for i := 0; i < 4800; i++ {
		l, _ = f.ProcessSample(1, 1)
	}

	if math.Abs(l-1) > 1e-3 {
		t.Fatalf("DC gain: %v", l)
	}
}

func TestFilterHighpassRejectsDC(t *testing.T) {
	f, err := NewFilter(48000)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.SetParameter(2, float64(FilterHighpass)); err != nil {
		t.Fatal(err)
	}

	var l float64
	for i := 0; i < 48000; i++ {
		l, _ = f.ProcessSample(1, 1)
	}

	if math.Abs(l) > 1e-3 {
		t.Fatalf("DC leak: %v", l)
	}
}

func TestFilterNotchKillsCutoffTone(t *testing.T) {
	const (
		sampleRate = 48000.0
		cutoff     = 1000.0
	)

	f, err := NewFilter(sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.SetParameter(2, float64(FilterNotch)); err != nil {
		t.Fatal(err)
	}

	var energy float64
	for i := 0; i < 96000; i++ {
		x := math.Sin(2 * math.Pi * cutoff * float64(i) / sampleRate)
		l, _ := f.ProcessSample(x, x)
		if i > 48000 {
			energy += l * l
		}
	}

	inputEnergy := 0.5 * 48000
	if energy > inputEnergy/100 {
		t.Fatalf("notch leaks: %v of %v", energy, inputEnergy)
	}
}

func TestFilterCutoffSweepStaysFinite(t *testing.T) {
	f, err := NewFilter(48000)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.SetParameter(1, 8); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 96000; i++ {
		// Bounce the cutoff target across the range while audio runs.
		if i%1000 == 0 {
			target := 100.0
			if (i/1000)%2 == 0 {
				target = 15000
			}
			if err := f.SetParameter(0, target); err != nil {
				t.Fatal(err)
			}
		}

		x := math.Sin(2 * math.Pi * 330 * float64(i) / 48000)
		l, r := f.ProcessSample(x, x)
		if math.IsNaN(l) || math.IsInf(l, 0) || math.IsNaN(r) || math.IsInf(r, 0) {
			t.Fatalf("sample %d: diverged", i)
		}
	}
}

func TestFilterModeStepQuantized(t *testing.T) {
	f, err := NewFilter(48000)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.SetParameter(2, 1.4); err != nil {
		t.Fatal(err)
	}

	if got := f.Parameter(2); got != 1 {
		t.Fatalf("mode not quantized: %v", got)
	}
}
