package biquad

import (
	"math"
	"math/cmplx"
)

// MagnitudeAt evaluates |H(e^jw)| of a section at the given frequency.
func MagnitudeAt(c Coefficients, freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return cmplx.Abs(num / den)
}

// MagnitudeDBAt evaluates the response at freq in dB.
func MagnitudeDBAt(c Coefficients, freq, sampleRate float64) float64 {
	return 20 * math.Log10(MagnitudeAt(c, freq, sampleRate))
}

// IsStable reports whether the section's poles lie inside the unit circle.
func IsStable(c Coefficients) bool {
	// Jury criterion for a second-order denominator.
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}
