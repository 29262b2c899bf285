package mod

import "testing"

// constSource emits a fixed value and counts resets.
type constSource struct {
	value   float64
	bipolar bool
	resets  int
}

func (c *constSource) Advance() float64 { return c.value }
func (c *constSource) IsBipolar() bool  { return c.bipolar }
func (c *constSource) Reset()           { c.resets++ }

func TestAmountScalesAndInverts(t *testing.T) {
	src := &constSource{value: 0.5, bipolar: true}

	a := Amount{Source: src, Depth: 0.4}
	if got := a.Advance(); got != 0.2 {
		t.Fatalf("scaled send: got %v want 0.2", got)
	}

	a.Invert = true
	if got := a.Advance(); got != -0.2 {
		t.Fatalf("inverted send: got %v want -0.2", got)
	}
}

func TestAmountNilSourceContributesNothing(t *testing.T) {
	var a Amount

	if got := a.Advance(); got != 0 {
		t.Fatalf("nil source: got %v want 0", got)
	}

	// Must not panic.
	a.Reset()
}

func TestAmountResetForwards(t *testing.T) {
	src := &constSource{}
	a := Amount{Source: src, Depth: 1}

	a.Reset()
	a.Reset()

	if src.resets != 2 {
		t.Fatalf("resets: got %d want 2", src.resets)
	}
}

func TestAdvanceHelpersMapConstSources(t *testing.T) {
	uni := &constSource{value: 0.25}
	if got := AdvanceBipolar(uni); got != -0.5 {
		t.Fatalf("unipolar to bipolar: got %v want -0.5", got)
	}

	bi := &constSource{value: -1, bipolar: true}
	if got := AdvanceUnipolar(bi); got != 0 {
		t.Fatalf("bipolar to unipolar: got %v want 0", got)
	}
}
