package core

import "math"

// CrossfadeLinear blends dry and wet with a linear law.
// mix = 0 returns dry unchanged, mix = 1 returns wet unchanged.
func CrossfadeLinear(dry, wet, mix float64) float64 {
	if mix <= 0 {
		return dry
	}

	if mix >= 1 {
		return wet
	}

	return dry*(1-mix) + wet*mix
}

// CrossfadeEqualPower blends dry and wet with a quarter-wave sine law,
// keeping perceived loudness roughly constant for uncorrelated signals.
func CrossfadeEqualPower(dry, wet, mix float64) float64 {
	if mix <= 0 {
		return dry
	}

	if mix >= 1 {
		return wet
	}

	theta := mix * math.Pi / 2

	return dry*math.Cos(theta) + wet*math.Sin(theta)
}

// SoftLimit applies a smooth knee-based ceiling to x.
// Below ceiling-knee the signal passes unchanged; inside the knee the
// transfer curve bends quadratically; above it the output asymptotically
// approaches ceiling. knee <= 0 degenerates to a hard clip at ceiling.
func SoftLimit(x, ceiling, knee float64) float64 {
	if ceiling <= 0 {
		return 0
	}

	sign := 1.0
	if x < 0 {
		sign = -1
		x = -x
	}

	if knee <= 0 {
		if x > ceiling {
			x = ceiling
		}

		return sign * x
	}

	lower := ceiling - knee
	if lower < 0 {
		lower = 0
	}

	switch {
	case x <= lower:
		// Passthrough region.
	case x < ceiling+knee:
		over := x - lower
		x = lower + over - over*over/(4*knee)
	default:
		x = ceiling
	}

	return sign * x
}
