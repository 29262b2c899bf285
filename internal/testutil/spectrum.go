package testutil

import (
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// MagnitudeSpectrum returns the magnitude of the non-negative frequency
// bins of the last fftSize samples of signal. fftSize must be a power
// of two no longer than the signal.
func MagnitudeSpectrum(t *testing.T, signal []float64, fftSize int) []float64 {
	t.Helper()

	if fftSize <= 0 || fftSize > len(signal) {
		t.Fatalf("fft size %d out of range for signal of %d", fftSize, len(signal))
	}

	in := make([]complex128, fftSize)
	tail := signal[len(signal)-fftSize:]
	for i, v := range tail {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		t.Fatal(err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		t.Fatal(err)
	}

	half := fftSize/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	for i := 0; i < half; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, half)
	vecmath.Magnitude(mags, re, im)

	return mags
}
