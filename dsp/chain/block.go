package chain

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// Block adapters for float32 transports. Hosts typically hand the
// engine 32-bit buffers; processing stays 64-bit internally and the
// scratch buffers are reused, so steady-state processing does not
// allocate.

// ProcessPlanar32 runs one block given separate float32 channel
// buffers. Both must have equal length.
func (r *Rack) ProcessPlanar32(left, right []float32) error {
	if len(left) != len(right) {
		return fmt.Errorf("rack: channel length mismatch: %d vs %d", len(left), len(right))
	}

	n := len(left)
	r.scratchL = core.EnsureLen(r.scratchL, n)
	r.scratchR = core.EnsureLen(r.scratchR, n)

	core.WidenInto(r.scratchL, left)
	core.WidenInto(r.scratchR, right)

	r.ProcessBlock(r.scratchL, r.scratchR)

	core.NarrowInto(left, r.scratchL)
	core.NarrowInto(right, r.scratchR)

	return nil
}

// ProcessInterleaved32 runs one block given an interleaved stereo
// float32 buffer (L R L R ...). The length must be even.
func (r *Rack) ProcessInterleaved32(buf []float32) error {
	if len(buf)%2 != 0 {
		return fmt.Errorf("rack: interleaved buffer length must be even: %d", len(buf))
	}

	n := len(buf) / 2
	r.scratchL = core.EnsureLen(r.scratchL, n)
	r.scratchR = core.EnsureLen(r.scratchR, n)

	for i := 0; i < n; i++ {
		r.scratchL[i] = float64(buf[2*i])
		r.scratchR[i] = float64(buf[2*i+1])
	}

	r.ProcessBlock(r.scratchL, r.scratchR)

	for i := 0; i < n; i++ {
		buf[2*i] = float32(r.scratchL[i])
		buf[2*i+1] = float32(r.scratchR[i])
	}

	return nil
}
