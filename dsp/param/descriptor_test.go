package param

import (
	"math"
	"strings"
	"testing"
)

func gainDescriptor() Descriptor {
	return Descriptor{
		ID:        7,
		Name:      "Gain",
		ShortName: "Gain",
		Unit:      "dB",
		Min:       -60,
		Max:       12,
		Default:   0,
	}
}

func TestClampBoundsAndNaN(t *testing.T) {
	d := gainDescriptor()

	if got := d.Clamp(-100); got != -60 {
		t.Fatalf("below min: got %v", got)
	}

	if got := d.Clamp(100); got != 12 {
		t.Fatalf("above max: got %v", got)
	}

	if got := d.Clamp(math.NaN()); got != d.Default {
		t.Fatalf("NaN: got %v", got)
	}
}

func TestClampStepQuantization(t *testing.T) {
	d := Descriptor{Min: 0, Max: 10, Step: 1}

	if got := d.Clamp(4.4); got != 4 {
		t.Fatalf("got %v want 4", got)
	}

	if got := d.Clamp(4.6); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestNormalizeRoundTripLinear(t *testing.T) {
	d := gainDescriptor()

	for _, v := range []float64{-60, -30, 0, 12} {
		if got := d.Denormalize(d.Normalize(v)); math.Abs(got-v) > 1e-9 {
			t.Fatalf("round trip %v: got %v", v, got)
		}
	}
}

func TestNormalizeLogScale(t *testing.T) {
	d := Descriptor{Min: 20, Max: 20000, Scale: ScaleLogarithmic}

	// Geometric midpoint lands at normalized 0.5.
	mid := math.Sqrt(20 * 20000)
	if got := d.Normalize(mid); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("log midpoint: got %v", got)
	}

	if got := d.Denormalize(0.5); math.Abs(got-mid) > 1e-6 {
		t.Fatalf("log denormalize: got %v want %v", got, mid)
	}
}

func TestNormalizePowerScale(t *testing.T) {
	d := Descriptor{Min: 0, Max: 1, Scale: ScalePower, Exponent: 2}

	if got := d.Denormalize(0.5); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("power denormalize: got %v want 0.25", got)
	}

	if got := d.Normalize(0.25); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("power normalize: got %v want 0.5", got)
	}
}

func TestFormatAndParse(t *testing.T) {
	d := gainDescriptor()

	text := d.FormatValue(-6.5)
	if !strings.Contains(text, "-6.50") || !strings.Contains(text, "dB") {
		t.Fatalf("format: %q", text)
	}

	v, err := d.ParseValue("-6.5 dB")
	if err != nil {
		t.Fatal(err)
	}

	if v != -6.5 {
		t.Fatalf("parse: got %v", v)
	}

	if _, err := d.ParseValue("loud"); err == nil {
		t.Fatal("expected parse error")
	}

	// Parsed values are clamped like any other write.
	v, err = d.ParseValue("999")
	if err != nil {
		t.Fatal(err)
	}

	if v != 12 {
		t.Fatalf("parse clamp: got %v", v)
	}
}

func TestCustomFormatter(t *testing.T) {
	d := gainDescriptor()
	d.Formatter = func(v float64) string { return "x" }

	if got := d.FormatValue(3); got != "x" {
		t.Fatalf("custom formatter ignored: %q", got)
	}
}
