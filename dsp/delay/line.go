package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/interp"
)

// Line is a heap-backed circular delay line with a single write cursor
// and fractional read taps. Capacity is fixed at construction.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// Option configures a delay line.
type Option func(*Line)

// WithMode selects the fractional-read interpolation mode.
func WithMode(m interp.Mode) Option {
	return func(l *Line) {
		l.mode = m
	}
}

// New returns a delay line of fixed size.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}

	l := &Line{
		buffer: make([]float64, size),
		mode:   interp.Hermite,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Mode returns the fractional-read interpolation mode.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// Write writes one sample and advances the cursor.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Delay 1 is the most recently
// written sample and delay Len() the oldest; out-of-range delays clamp
// to that range.
func (d *Line) Read(delay int) float64 {
	return readInt(d.buffer, d.writePos, delay)
}

// ReadFractional reads a fractional delay using the configured mode.
func (d *Line) ReadFractional(delay float64) float64 {
	return readFractional(d.buffer, d.writePos, d.mode, delay)
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

func readInt(buffer []float64, writePos, delay int) float64 {
	size := len(buffer)
	if size == 0 {
		return 0
	}
	if delay < 0 {
		delay = 0
	}
	if delay > size {
		delay = size
	}
	readPos := (writePos - delay + 2*size) % size
	return buffer[readPos]
}

func readFractional(buffer []float64, writePos int, mode interp.Mode, delay float64) float64 {
	size := len(buffer)
	if size == 0 {
		return 0
	}
	if delay < 0 {
		delay = 0
	}

	switch mode {
	case interp.None:
		return readInt(buffer, writePos, int(math.Round(delay)))
	case interp.Linear:
		maxDelay := float64(size - 2)
		if delay > maxDelay {
			delay = maxDelay
		}

		p := int(math.Floor(delay))
		t := delay - float64(p)

		return interp.Linear2(t, readInt(buffer, writePos, p), readInt(buffer, writePos, p+1))
	default:
		maxDelay := float64(size - 3)
		if delay > maxDelay {
			delay = maxDelay
		}

		p := int(math.Floor(delay))
		t := delay - float64(p)

		xm1 := readInt(buffer, writePos, maxInt(0, p-1))
		x0 := readInt(buffer, writePos, p)
		x1 := readInt(buffer, writePos, p+1)
		x2 := readInt(buffer, writePos, p+2)
		return interp.Hermite4(t, xm1, x0, x1, x2)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
