package unit

// Unit is a stereo processor. Implementations must be safe to call from
// a single goroutine at audio rate; no allocation or locking inside
// ProcessSample.
type Unit interface {
	// ProcessSample consumes one stereo frame and returns the processed
	// frame.
	ProcessSample(left, right float64) (float64, float64)

	// SetSampleRate re-derives internal coefficients for a new rate.
	// State is preserved where that makes sense for the processor.
	SetSampleRate(sampleRate float64) error

	// Reset clears all internal state (delay contents, filter history,
	// envelopes) without touching parameter values.
	Reset()

	// LatencySamples reports the processor's inherent delay at the
	// current sample rate.
	LatencySamples() int

	// TrueStereo reports whether the left and right paths interact.
	// False means the unit is dual mono.
	TrueStereo() bool
}

// BlockProcessor is an optional fast path for units that process whole
// buffers at once.
type BlockProcessor interface {
	ProcessBlock(left, right []float64)
}

// ProcessMono runs a mono sample through a stereo unit by duplicating it
// onto both channels and keeping the left output.
func ProcessMono(u Unit, x float64) float64 {
	l, _ := u.ProcessSample(x, x)

	return l
}

// ProcessBlock processes the buffers in place, using the unit's block
// fast path when it has one. Both slices must have equal length.
func ProcessBlock(u Unit, left, right []float64) {
	if bp, ok := u.(BlockProcessor); ok {
		bp.ProcessBlock(left, right)

		return
	}

	for i := range left {
		left[i], right[i] = u.ProcessSample(left[i], right[i])
	}
}
