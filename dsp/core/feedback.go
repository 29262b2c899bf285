package core

import "math"

// MaxFeedback is the structural cap applied to every feedback-coefficient
// parameter, independent of any gain compensation. Keeping g strictly
// below 1 is the second line of defense against runaway loops.
const MaxFeedback = 0.95

// ClampFeedback limits a feedback coefficient to [0, MaxFeedback].
func ClampFeedback(g float64) float64 {
	return Clamp(g, 0, MaxFeedback)
}

// CombPeakGain returns the steady-state peak gain 1/(1-g) of a single
// feedback comb loop at resonance.
func CombPeakGain(g float64) float64 {
	g = ClampFeedback(g)

	return 1 / (1 - g)
}

// FeedbackCompensation returns the wet-signal factor (1-g) that cancels
// the resonant peak gain of a single feedback loop exactly, making the
// wet branch's peak gain unity for every g in range.
func FeedbackCompensation(g float64) float64 {
	return 1 - ClampFeedback(g)
}

// BankFeedbackCompensation returns the wet-signal factor sqrt(1-g) used
// for parallel banks of comb filters. Only a small subset of a bank
// resonates at any one frequency, so the exact single-loop factor would
// over-attenuate the wet signal at high feedback; the square root keeps
// the bank near unity peak gain without wasting headroom.
func BankFeedbackCompensation(g float64) float64 {
	return math.Sqrt(1 - ClampFeedback(g))
}
