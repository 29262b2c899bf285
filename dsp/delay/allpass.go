package delay

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// maxAllpassFeedback keeps the allpass loop strictly inside its stable
// region.
const maxAllpassFeedback = 0.9

// Allpass is a first-order allpass diffuser. It smears discrete echoes
// into continuous diffusion without coloring the long-term spectrum.
type Allpass struct {
	buffer   []float64
	index    int
	feedback float64
}

// NewAllpass returns an allpass diffuser with the given loop length.
func NewAllpass(size int) (*Allpass, error) {
	if size <= 0 {
		return nil, fmt.Errorf("allpass size must be > 0: %d", size)
	}

	return &Allpass{
		buffer:   make([]float64, size),
		feedback: 0.5,
	}, nil
}

// SetFeedback sets the diffusion coefficient, clamped to the stable range.
func (a *Allpass) SetFeedback(g float64) {
	a.feedback = core.Clamp(g, -maxAllpassFeedback, maxAllpassFeedback)
}

// Feedback returns the effective diffusion coefficient.
func (a *Allpass) Feedback() float64 {
	return a.feedback
}

// Process feeds one sample through the diffuser.
func (a *Allpass) Process(input float64) float64 {
	bufOut := a.buffer[a.index]
	output := bufOut - input

	a.buffer[a.index] = core.FlushDenormals(input + bufOut*a.feedback)

	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return output
}

// Len returns the loop length in samples.
func (a *Allpass) Len() int {
	return len(a.buffer)
}

// Reset clears the loop buffer.
func (a *Allpass) Reset() {
	for i := range a.buffer {
		a.buffer[i] = 0
	}
	a.index = 0
}
