package unit

// Pair composes two units in series with the composition fixed at
// compile time. Pairs nest, so a static chain of any length can be
// built without giving up inlining between stages.
type Pair[A, B Unit] struct {
	First  A
	Second B
}

// NewPair returns the serial composition of first and second.
func NewPair[A, B Unit](first A, second B) *Pair[A, B] {
	return &Pair[A, B]{First: first, Second: second}
}

// ProcessSample runs the frame through both stages in order.
func (p *Pair[A, B]) ProcessSample(left, right float64) (float64, float64) {
	left, right = p.First.ProcessSample(left, right)

	return p.Second.ProcessSample(left, right)
}

// SetSampleRate propagates the rate to both stages.
func (p *Pair[A, B]) SetSampleRate(sampleRate float64) error {
	if err := p.First.SetSampleRate(sampleRate); err != nil {
		return err
	}

	return p.Second.SetSampleRate(sampleRate)
}

// Reset clears both stages.
func (p *Pair[A, B]) Reset() {
	p.First.Reset()
	p.Second.Reset()
}

// LatencySamples is the sum of both stage latencies.
func (p *Pair[A, B]) LatencySamples() int {
	return p.First.LatencySamples() + p.Second.LatencySamples()
}

// TrueStereo reports true when either stage couples the channels.
func (p *Pair[A, B]) TrueStereo() bool {
	return p.First.TrueStereo() || p.Second.TrueStereo()
}
