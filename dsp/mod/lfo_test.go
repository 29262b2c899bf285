package mod

import (
	"math"
	"testing"
)

func TestNewLFOValidation(t *testing.T) {
	if _, err := NewLFO(0, 1, ShapeSine); err == nil {
		t.Fatal("expected error for rate=0")
	}

	if _, err := NewLFO(48000, 0, ShapeSine); err == nil {
		t.Fatal("expected error for frequency=0")
	}
}

func TestLFOSineRange(t *testing.T) {
	l, err := NewLFO(48000, 3, ShapeSine)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 48000; i++ {
		v := l.Advance()
		if v < -1 || v > 1 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

func TestLFOSinePeriod(t *testing.T) {
	const (
		sampleRate = 48000.0
		freq       = 100.0
	)

	l, err := NewLFO(sampleRate, freq, ShapeSine)
	if err != nil {
		t.Fatal(err)
	}

	period := int(sampleRate / freq)
	first := l.Advance()
	for i := 1; i < period; i++ {
		l.Advance()
	}

	// One full cycle later the oscillator is back where it started.
	if got := l.Advance(); math.Abs(got-first) > 1e-9 {
		t.Fatalf("after one period: got %v want %v", got, first)
	}
}

func TestLFOShapes(t *testing.T) {
	cases := []struct {
		shape Shape
		want  float64 // value at phase 0
	}{
		{ShapeSine, 0},
		{ShapeTriangle, 1},
		{ShapeSaw, -1},
		{ShapeSquare, 1},
	}

	for _, tc := range cases {
		l, err := NewLFO(48000, 1, tc.shape)
		if err != nil {
			t.Fatal(err)
		}

		if got := l.Advance(); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("shape %d at phase 0: got %v want %v", tc.shape, got, tc.want)
		}
	}
}

func TestLFOSquareMidpointFlip(t *testing.T) {
	l, err := NewLFO(48000, 1, ShapeSquare)
	if err != nil {
		t.Fatal(err)
	}

	l.SetPhase(0.75)

	if got := l.Advance(); got != -1 {
		t.Fatalf("second half: got %v want -1", got)
	}
}

func TestLFOReset(t *testing.T) {
	l, err := NewLFO(48000, 440, ShapeSine)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 17; i++ {
		l.Advance()
	}

	l.Reset()

	if got := l.Advance(); got != 0 {
		t.Fatalf("after reset: got %v want 0", got)
	}
}

func TestAdvanceUnipolarMapsBipolar(t *testing.T) {
	l, err := NewLFO(4, 1, ShapeSaw)
	if err != nil {
		t.Fatal(err)
	}

	// Saw starts at -1; unipolar view starts at 0.
	if got := AdvanceUnipolar(l); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
}
