package effects

import (
	"math"
	"testing"
)

func newTestDelay(t *testing.T, timeMs, feedback, damping, mix float64) *Delay {
	t.Helper()

	d, err := NewDelay(48000)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range []float64{timeMs, feedback, damping, mix} {
		if err := d.SetParameter(i, v); err != nil {
			t.Fatal(err)
		}
	}

	// Snap the time and mix glides so the test sees steady-state behavior.
	d.Reset()

	return d
}

func TestDelayEchoAmplitudes(t *testing.T) {
	const (
		feedback = 0.5
		timeMs   = 10.0
		period   = 480 // 10 ms at 48 kHz
	)

	d := newTestDelay(t, timeMs, feedback, 0, 1)

	out := make([]float64, period*3+1)
	for i := range out {
		in := 0.0
		if i == 0 {
			in = 1
		}
		out[i], _ = d.ProcessSample(in, 0)
	}

	comp := 1 - feedback
	for n := 1; n <= 3; n++ {
		want := math.Pow(feedback, float64(n-1)) * comp
		got := out[n*period]
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("echo %d: got %v want %v", n, got, want)
		}
	}
}

func TestDelayCompensationHoldsEchoLevel(t *testing.T) {
	// The first echo level is (1-g); raising g makes each echo quieter,
	// not louder, so feedback sweeps cannot jump the output.
	low := newTestDelay(t, 10, 0.3, 0, 1)
	high := newTestDelay(t, 10, 0.9, 0, 1)

	peak := func(d *Delay) float64 {
		var p float64
		for i := 0; i < 481; i++ {
			in := 0.0
			if i == 0 {
				in = 1
			}
			l, _ := d.ProcessSample(in, 0)
			p = math.Max(p, math.Abs(l))
		}
		return p
	}

	if peak(high) >= peak(low) {
		t.Fatal("high feedback echo louder than low feedback echo")
	}
}

func TestDelayMixZeroBitExact(t *testing.T) {
	d := newTestDelay(t, 100, 0.5, 0.3, 0)

	inputs := []float64{0.1, -0.7, 0.333, 1, -1, 1e-12}
	for _, x := range inputs {
		l, r := d.ProcessSample(x, -x)
		if l != x || r != -x {
			t.Fatalf("dry path altered: in %v out %v %v", x, l, r)
		}
	}
}

func TestDelayDampingDarkensRepeats(t *testing.T) {
	bright := newTestDelay(t, 10, 0.7, 0, 1)
	dark := newTestDelay(t, 10, 0.7, 0.8, 1)

	energy := func(d *Delay) float64 {
		var e float64
		for i := 0; i < 48000; i++ {
			in := 0.0
			if i == 0 {
				in = 1
			}
			l, _ := d.ProcessSample(in, 0)
			e += l * l
		}
		return e
	}

	if energy(dark) >= energy(bright) {
		t.Fatal("damping did not reduce repeat energy")
	}
}

func TestDelayFeedbackCappedAtMax(t *testing.T) {
	d, err := NewDelay(48000)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetParameter(1, 2.0); err != nil {
		t.Fatal(err)
	}

	if d.Parameter(1) > 0.95 {
		t.Fatalf("feedback not capped: %v", d.Parameter(1))
	}
}

func TestDelayStableUnderSustainedInput(t *testing.T) {
	d := newTestDelay(t, 50, 0.95, 0, 1)

	var peak float64
	for i := 0; i < 480000; i++ {
		l, _ := d.ProcessSample(1, 1)
		peak = math.Max(peak, math.Abs(l))
	}

	// Worst-case comb gain is 1/(1-g); compensation cancels it.
	if peak > 2 {
		t.Fatalf("output unbounded: peak %v", peak)
	}
}

func TestDelayRejectsBadIndex(t *testing.T) {
	d, err := NewDelay(48000)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetParameter(9, 1); err == nil {
		t.Fatal("expected error")
	}
}
