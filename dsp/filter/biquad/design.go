package biquad

import (
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// Frequency parameters are clamped strictly inside (0, Nyquist) so that
// coefficient computation can never divide by zero or flip a pole across
// the unit circle, no matter what automation delivers.
const (
	minFrequencyHz   = 0.01
	maxNyquistRatio  = 0.499
	minQualityFactor = 1e-3
)

func clampFrequency(freq, sampleRate float64) float64 {
	return core.Clamp(freq, minFrequencyHz, sampleRate*maxNyquistRatio)
}

func clampQ(q float64) float64 {
	if q < minQualityFactor {
		return minQualityFactor
	}
	return q
}

func angularTerms(freq, q, sampleRate float64) (sinW, cosW, alpha float64) {
	w := 2 * math.Pi * clampFrequency(freq, sampleRate) / sampleRate
	sinW = math.Sin(w)
	cosW = math.Cos(w)
	alpha = sinW / (2 * clampQ(q))
	return sinW, cosW, alpha
}

// Lowpass designs an RBJ lowpass section.
func Lowpass(sampleRate, freq, q float64) Coefficients {
	_, cosW, alpha := angularTerms(freq, q, sampleRate)
	a0 := 1 + alpha
	b1 := 1 - cosW

	return Coefficients{
		B0: b1 / 2 / a0,
		B1: b1 / a0,
		B2: b1 / 2 / a0,
		A1: -2 * cosW / a0,
		A2: (1 - alpha) / a0,
	}
}

// Highpass designs an RBJ highpass section.
func Highpass(sampleRate, freq, q float64) Coefficients {
	_, cosW, alpha := angularTerms(freq, q, sampleRate)
	a0 := 1 + alpha
	b1 := 1 + cosW

	return Coefficients{
		B0: b1 / 2 / a0,
		B1: -b1 / a0,
		B2: b1 / 2 / a0,
		A1: -2 * cosW / a0,
		A2: (1 - alpha) / a0,
	}
}

// Bandpass designs an RBJ constant-peak bandpass section.
func Bandpass(sampleRate, freq, q float64) Coefficients {
	sinW, cosW, alpha := angularTerms(freq, q, sampleRate)
	a0 := 1 + alpha

	return Coefficients{
		B0: sinW / 2 / a0,
		B1: 0,
		B2: -sinW / 2 / a0,
		A1: -2 * cosW / a0,
		A2: (1 - alpha) / a0,
	}
}

// Notch designs an RBJ notch section.
func Notch(sampleRate, freq, q float64) Coefficients {
	_, cosW, alpha := angularTerms(freq, q, sampleRate)
	a0 := 1 + alpha

	return Coefficients{
		B0: 1 / a0,
		B1: -2 * cosW / a0,
		B2: 1 / a0,
		A1: -2 * cosW / a0,
		A2: (1 - alpha) / a0,
	}
}

// Peak designs an RBJ peaking-EQ section with the given boost/cut in dB.
func Peak(sampleRate, freq, q, gainDB float64) Coefficients {
	_, cosW, alpha := angularTerms(freq, q, sampleRate)
	a := math.Pow(10, gainDB/40)
	a0 := 1 + alpha/a

	return Coefficients{
		B0: (1 + alpha*a) / a0,
		B1: -2 * cosW / a0,
		B2: (1 - alpha*a) / a0,
		A1: -2 * cosW / a0,
		A2: (1 - alpha/a) / a0,
	}
}

// LowShelf designs an RBJ low-shelf section with the given gain in dB.
func LowShelf(sampleRate, freq, q, gainDB float64) Coefficients {
	sinW, cosW, _ := angularTerms(freq, q, sampleRate)
	a := math.Pow(10, gainDB/40)
	beta := sinW * math.Sqrt(a) / clampQ(q)

	a0 := (a + 1) + (a-1)*cosW + beta

	return Coefficients{
		B0: a * ((a + 1) - (a-1)*cosW + beta) / a0,
		B1: 2 * a * ((a - 1) - (a+1)*cosW) / a0,
		B2: a * ((a + 1) - (a-1)*cosW - beta) / a0,
		A1: -2 * ((a - 1) + (a+1)*cosW) / a0,
		A2: ((a + 1) + (a-1)*cosW - beta) / a0,
	}
}

// HighShelf designs an RBJ high-shelf section with the given gain in dB.
func HighShelf(sampleRate, freq, q, gainDB float64) Coefficients {
	sinW, cosW, _ := angularTerms(freq, q, sampleRate)
	a := math.Pow(10, gainDB/40)
	beta := sinW * math.Sqrt(a) / clampQ(q)

	a0 := (a + 1) - (a-1)*cosW + beta

	return Coefficients{
		B0: a * ((a + 1) + (a-1)*cosW + beta) / a0,
		B1: -2 * a * ((a - 1) + (a+1)*cosW) / a0,
		B2: a * ((a + 1) + (a-1)*cosW - beta) / a0,
		A1: 2 * ((a - 1) - (a+1)*cosW) / a0,
		A2: ((a + 1) - (a-1)*cosW - beta) / a0,
	}
}
