package delay

import (
	"math"
	"testing"
)

func TestNewAllpassValidation(t *testing.T) {
	if _, err := NewAllpass(0); err == nil {
		t.Fatal("expected error for size=0")
	}
}

func TestAllpassFeedbackClamp(t *testing.T) {
	a, err := NewAllpass(8)
	if err != nil {
		t.Fatal(err)
	}

	a.SetFeedback(2)
	if got := a.Feedback(); got != maxAllpassFeedback {
		t.Fatalf("positive clamp: got %v", got)
	}

	a.SetFeedback(-2)
	if got := a.Feedback(); got != -maxAllpassFeedback {
		t.Fatalf("negative clamp: got %v", got)
	}
}

func TestAllpassEnergyBounded(t *testing.T) {
	a, err := NewAllpass(13)
	if err != nil {
		t.Fatal(err)
	}

	a.SetFeedback(0.5)

	peak := 0.0
	for i := 0; i < 20000; i++ {
		v := math.Abs(a.Process(math.Sin(float64(i) * 0.21)))
		if v > peak {
			peak = v
		}
	}

	if peak > 4 {
		t.Fatalf("allpass diverged: peak %v", peak)
	}
}

func TestAllpassImpulseDecays(t *testing.T) {
	a, err := NewAllpass(7)
	if err != nil {
		t.Fatal(err)
	}

	a.SetFeedback(0.6)
	a.Process(1)

	var out float64
	for i := 0; i < 7*500; i++ {
		out = a.Process(0)
	}

	if out != 0 {
		t.Fatalf("allpass tail not flushed to exact zero: %v", out)
	}
}

func TestAllpassReset(t *testing.T) {
	a, err := NewAllpass(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 32; i++ {
		a.Process(1)
	}

	a.Reset()

	for i := 0; i < 16; i++ {
		if got := a.Process(0); got != 0 {
			t.Fatalf("output after Reset: got %v", got)
		}
	}
}
