package oversample

import (
	"errors"
	"fmt"
	"math"
)

// Quality controls the anti-aliasing filter trade-off.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

// Profile exposes the filter parameters behind each quality mode. The
// down path runs a longer, deeper prototype than the up path: only the
// decimator stands between the inner unit's harmonics and the host
// band.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64

	DecimTapsPerPhase int
	DecimKaiserBeta   float64
	DecimStopbandDB   float64
}

// QualityProfile returns the profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{
			TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55,
			DecimTapsPerPhase: 32, DecimKaiserBeta: 7.0, DecimStopbandDB: 70,
		}
	case QualityBest:
		return Profile{
			TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90,
			DecimTapsPerPhase: 128, DecimKaiserBeta: 10.5, DecimStopbandDB: 104,
		}
	default:
		return Profile{
			TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75,
			DecimTapsPerPhase: 64, DecimKaiserBeta: 8.5, DecimStopbandDB: 85,
		}
	}
}

// designFIR returns the interpolation prototype (nTaps = tapsPerPhase *
// factor) with its polyphase decomposition, and the longer decimation
// prototype. Both are normalized to DC gain factor, which preserves
// amplitude across zero-stuffed interpolation and, after the 1/factor
// decimation scale, through the down path.
func designFIR(factor int, p Profile) ([]float64, [][]float64, []float64, error) {
	if factor <= 1 {
		return nil, nil, nil, fmt.Errorf("oversample: invalid factor %d", factor)
	}

	if p.TapsPerPhase <= 0 || p.DecimTapsPerPhase <= 0 {
		return nil, nil, nil, errors.New("oversample: taps per phase must be > 0")
	}

	if p.CutoffScale <= 0 || p.CutoffScale > 1 {
		return nil, nil, nil, errors.New("oversample: cutoff scale must be in (0,1]")
	}

	taps, err := designPrototype(factor, p.TapsPerPhase, p.CutoffScale, p.KaiserBeta)
	if err != nil {
		return nil, nil, nil, err
	}

	downTaps, err := designPrototype(factor, p.DecimTapsPerPhase, p.CutoffScale, p.DecimKaiserBeta)
	if err != nil {
		return nil, nil, nil, err
	}

	nTaps := len(taps)
	phases := make([][]float64, factor)
	for p := range factor {
		phase := make([]float64, 0, (nTaps-p+factor-1)/factor)
		for i := p; i < nTaps; i += factor {
			phase = append(phase, taps[i])
		}
		phases[p] = phase
	}

	return taps, phases, downTaps, nil
}

func designPrototype(factor, tapsPerPhase int, cutoffScale, beta float64) ([]float64, error) {
	nTaps := tapsPerPhase * factor
	fc := (0.5 / float64(factor)) * cutoffScale

	taps := make([]float64, nTaps)
	center := 0.5 * float64(nTaps-1)
	for n := range nTaps {
		t := float64(n) - center
		taps[n] = 2 * fc * sinc(2*fc*t) * kaiserWindow(n, nTaps, beta)
	}

	var sum float64
	for _, v := range taps {
		sum += v
	}

	if sum == 0 {
		return nil, errors.New("oversample: designed zero-sum filter")
	}

	scale := float64(factor) / sum
	for i := range taps {
		taps[i] *= scale
	}

	return taps, nil
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiserWindow(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1
	a := math.Sqrt(math.Max(0, 1-t*t))

	return i0(beta*a) / i0(beta)
}

func i0(x float64) float64 {
	// Power series approximation.
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
