package chain

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/cwbudde/algo-fx/dsp/unit"
)

const bypassFadeMs = 5.0

// Slot hosts one unit in a rack. Parameter writes land in atomics and
// are folded into the unit at block boundaries by the audio thread, so
// any goroutine may call SetParameter or SetBypassed at any time.
type Slot struct {
	name string
	unit unit.Unit

	// Nil when the unit exposes no parameters.
	params unit.Parameterized

	pending  []atomic.Uint64
	dirty    []atomic.Bool
	anyDirty atomic.Bool

	bypassed atomic.Bool

	fade      float64
	fadeCoeff float64
}

// NewSlot wraps u under the given display name. If u also implements
// unit.Parameterized, the slot carries a write bridge for its
// parameters.
func NewSlot(name string, u unit.Unit, sampleRate float64) (*Slot, error) {
	if u == nil {
		return nil, fmt.Errorf("slot %q: unit must not be nil", name)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("slot %q: sample rate must be > 0: %f", name, sampleRate)
	}

	s := &Slot{
		name: name,
		unit: u,
		fade: 1,
	}
	s.deriveFade(sampleRate)

	if p, ok := u.(unit.Parameterized); ok {
		s.params = p
		s.pending = make([]atomic.Uint64, p.ParameterCount())
		s.dirty = make([]atomic.Bool, p.ParameterCount())
	}

	return s, nil
}

func (s *Slot) deriveFade(sampleRate float64) {
	s.fadeCoeff = 1 - math.Exp(-1/(bypassFadeMs/1000*sampleRate))
}

// Name returns the display name.
func (s *Slot) Name() string { return s.name }

// Unit returns the hosted unit. Audio-thread use only.
func (s *Slot) Unit() unit.Unit { return s.unit }

// ParameterCount returns the hosted unit's parameter count, or zero.
func (s *Slot) ParameterCount() int {
	if s.params == nil {
		return 0
	}

	return s.params.ParameterCount()
}

// ParameterInfo returns the descriptor for index.
func (s *Slot) ParameterInfo(index int) param.Descriptor {
	return s.params.ParameterInfo(index)
}

// SetParameter publishes a parameter write. Safe from any goroutine;
// the value reaches the unit at the next block boundary. Writes within
// one block coalesce, last write wins.
func (s *Slot) SetParameter(index int, value float64) error {
	if s.params == nil || index < 0 || index >= len(s.pending) {
		return fmt.Errorf("slot %q: parameter index out of range: %d", s.name, index)
	}

	s.pending[index].Store(math.Float64bits(value))
	s.dirty[index].Store(true)
	s.anyDirty.Store(true)

	return nil
}

// SetBypassed fades the slot out (true) or back in (false). Safe from
// any goroutine.
func (s *Slot) SetBypassed(bypassed bool) {
	s.bypassed.Store(bypassed)
}

// Bypassed reports the requested bypass state.
func (s *Slot) Bypassed() bool {
	return s.bypassed.Load()
}

// applyPending folds published parameter writes into the unit. Audio
// thread only.
func (s *Slot) applyPending() {
	if !s.anyDirty.Swap(false) {
		return
	}

	for i := range s.dirty {
		if !s.dirty[i].Swap(false) {
			continue
		}

		// The unit clamps via its descriptor table.
		_ = s.params.SetParameter(i, math.Float64frombits(s.pending[i].Load()))
	}
}

// processSample runs one frame through the slot, honoring the bypass
// fade. Audio thread only.
func (s *Slot) processSample(left, right float64) (float64, float64) {
	target := 1.0
	if s.bypassed.Load() {
		target = 0
	}
	s.fade += s.fadeCoeff * (target - s.fade)
	if math.Abs(target-s.fade) < 1e-4 {
		s.fade = target
	}

	if s.fade == 0 {
		return left, right
	}
	fade := s.fade

	wetL, wetR := s.unit.ProcessSample(left, right)

	return core.CrossfadeLinear(left, wetL, fade), core.CrossfadeLinear(right, wetR, fade)
}

// setSampleRate forwards the rate and re-derives the fade glide. Audio
// thread only.
func (s *Slot) setSampleRate(sampleRate float64) error {
	s.deriveFade(sampleRate)

	return s.unit.SetSampleRate(sampleRate)
}
