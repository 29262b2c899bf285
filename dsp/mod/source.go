// Package mod provides modulation sources (LFO, envelope follower, ADSR)
// behind one interface so effects can accept a modulation input without
// knowing its concrete type.
package mod

// Source produces one scalar per Advance call. Bipolar sources emit
// values in [-1, 1], unipolar sources in [0, 1].
type Source interface {
	Advance() float64
	IsBipolar() bool
	Reset()
}

// AdvanceUnipolar advances s and maps the result into [0, 1].
func AdvanceUnipolar(s Source) float64 {
	v := s.Advance()
	if s.IsBipolar() {
		return 0.5 * (v + 1)
	}

	return v
}

// AdvanceBipolar advances s and maps the result into [-1, 1].
func AdvanceBipolar(s Source) float64 {
	v := s.Advance()
	if s.IsBipolar() {
		return v
	}

	return 2*v - 1
}

// Amount composes a source with a depth and an inversion flag, forming a
// routable modulation send.
type Amount struct {
	Source Source
	Depth  float64
	Invert bool
}

// Advance returns the scaled (and possibly inverted) source value.
// A nil source contributes nothing.
func (a Amount) Advance() float64 {
	if a.Source == nil {
		return 0
	}

	v := a.Source.Advance() * a.Depth
	if a.Invert {
		v = -v
	}

	return v
}

// Reset forwards to the underlying source.
func (a Amount) Reset() {
	if a.Source != nil {
		a.Source.Reset()
	}
}
