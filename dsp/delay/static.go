package delay

import "github.com/cwbudde/algo-fx/dsp/interp"

// Static is an allocation-free delay line over caller-provided storage.
// It is a value type: embedding it in an effect struct together with a
// fixed-size array field gives a fully stack- or arena-resident delay,
// which is the variant embedded targets use.
type Static struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// NewStatic wraps storage as a delay line without allocating.
// The line's capacity is len(storage); storage contents are reused as-is,
// call Reset to start from silence.
func NewStatic(storage []float64, mode interp.Mode) Static {
	return Static{buffer: storage, mode: mode}
}

// Len returns the wrapped storage size.
func (d *Static) Len() int {
	return len(d.buffer)
}

// Write writes one sample and advances the cursor.
func (d *Static) Write(sample float64) {
	if len(d.buffer) == 0 {
		return
	}
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (d *Static) Read(delay int) float64 {
	return readInt(d.buffer, d.writePos, delay)
}

// ReadFractional reads a fractional delay using the configured mode.
func (d *Static) ReadFractional(delay float64) float64 {
	return readFractional(d.buffer, d.writePos, d.mode, delay)
}

// Reset clears line state.
func (d *Static) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
