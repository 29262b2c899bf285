package delay

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// Comb is a single-tap feedback comb filter with a one-pole damping
// filter in the feedback path. Damping simulates frequency-dependent
// energy absorption; every value entering the feedback state is flushed
// to avoid subnormal decay tails.
type Comb struct {
	buffer []float64
	index  int

	feedback    float64
	filterStore float64
	dampA       float64
	dampB       float64
}

// NewComb returns a comb filter with the given loop length in samples.
func NewComb(size int) (*Comb, error) {
	if size <= 0 {
		return nil, fmt.Errorf("comb size must be > 0: %d", size)
	}

	c := &Comb{buffer: make([]float64, size)}
	c.SetDamp(0)

	return c, nil
}

// SetFeedback sets the loop gain, capped at core.MaxFeedback.
func (c *Comb) SetFeedback(g float64) {
	c.feedback = core.ClampFeedback(g)
}

// Feedback returns the effective loop gain.
func (c *Comb) Feedback() float64 {
	return c.feedback
}

// SetDamp sets feedback-path damping in [0, 1]. 0 disables damping,
// values toward 1 absorb high frequencies faster.
func (c *Comb) SetDamp(v float64) {
	v = core.Clamp(v, 0, 1)
	c.dampA = v
	c.dampB = 1 - v
}

// Process feeds one sample through the comb and returns the delayed output.
func (c *Comb) Process(input float64) float64 {
	output := c.buffer[c.index]

	c.filterStore = core.FlushDenormals(output*c.dampB + c.filterStore*c.dampA)
	c.buffer[c.index] = core.FlushDenormals(input + c.filterStore*c.feedback)

	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}

// Len returns the loop length in samples.
func (c *Comb) Len() int {
	return len(c.buffer)
}

// Reset clears the loop buffer and damping state.
func (c *Comb) Reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.index = 0
	c.filterStore = 0
}
