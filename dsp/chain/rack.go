package chain

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-fx/dsp/core"
)

const defaultCommandQueueSize = 64

type commandKind int

const (
	cmdAppend commandKind = iota
	cmdInsert
	cmdRemove
	cmdMove
)

type command struct {
	kind commandKind
	slot *Slot
	at   int
	to   int
}

// RackOption configures rack construction.
type RackOption func(*Rack)

// WithCommandQueueSize overrides the structural command queue capacity.
func WithCommandQueueSize(n int) RackOption {
	return func(r *Rack) {
		if n > 0 {
			r.commands = make(chan command, n)
		}
	}
}

// WithProcessorConfig pre-sizes the block scratch buffers from cfg, so
// hosts with a known block size do not allocate even on the first
// block.
func WithProcessorConfig(cfg core.ProcessorConfig) RackOption {
	return func(r *Rack) {
		if cfg.BlockSize > 0 {
			r.scratchL = make([]float64, 0, cfg.BlockSize)
			r.scratchR = make([]float64, 0, cfg.BlockSize)
		}
	}
}

// Rack is an ordered chain of slots. The audio thread calls the
// Process methods; any other goroutine may enqueue structural changes
// and write parameters. Structural changes are applied transactionally
// at block boundaries, so a block always runs against a consistent
// order.
type Rack struct {
	sampleRate float64

	mu    sync.RWMutex
	slots []*Slot

	// Audio-thread copy of the order, refreshed only after a
	// structural change, so steady-state blocks never touch the lock.
	active         []*Slot
	structureDirty atomic.Bool

	commands chan command

	scratchL []float64
	scratchR []float64
}

// NewRack creates an empty rack at the given rate.
func NewRack(sampleRate float64, opts ...RackOption) (*Rack, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("rack sample rate must be > 0: %f", sampleRate)
	}

	cfg := core.ApplyProcessorOptions(core.WithSampleRate(sampleRate))

	r := &Rack{
		sampleRate: cfg.SampleRate,
		commands:   make(chan command, defaultCommandQueueSize),
		scratchL:   make([]float64, 0, cfg.BlockSize),
		scratchR:   make([]float64, 0, cfg.BlockSize),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r, nil
}

// SampleRate returns the rack's sample rate.
func (r *Rack) SampleRate() float64 { return r.sampleRate }

// Append enqueues adding s at the end of the chain.
func (r *Rack) Append(s *Slot) error {
	return r.enqueue(command{kind: cmdAppend, slot: s})
}

// InsertAt enqueues inserting s before position at.
func (r *Rack) InsertAt(at int, s *Slot) error {
	return r.enqueue(command{kind: cmdInsert, slot: s, at: at})
}

// RemoveAt enqueues removing the slot at position at.
func (r *Rack) RemoveAt(at int) error {
	return r.enqueue(command{kind: cmdRemove, at: at})
}

// Move enqueues moving the slot at position from to position to.
func (r *Rack) Move(from, to int) error {
	return r.enqueue(command{kind: cmdMove, at: from, to: to})
}

func (r *Rack) enqueue(cmd command) error {
	if cmd.kind != cmdRemove && cmd.kind != cmdMove && cmd.slot == nil {
		return fmt.Errorf("rack: slot must not be nil")
	}

	select {
	case r.commands <- cmd:
		return nil
	default:
		return fmt.Errorf("rack: command queue full")
	}
}

// drainCommands applies all queued structural changes. Out-of-range
// positions clamp to the nearest valid slot. Audio thread only.
func (r *Rack) drainCommands() {
	for {
		select {
		case cmd := <-r.commands:
			r.apply(cmd)
		default:
			return
		}
	}
}

func (r *Rack) apply(cmd command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clamp := func(i, max int) int {
		if i < 0 {
			return 0
		}
		if i > max {
			return max
		}
		return i
	}

	switch cmd.kind {
	case cmdAppend:
		r.slots = append(r.slots, cmd.slot)
	case cmdInsert:
		at := clamp(cmd.at, len(r.slots))
		r.slots = append(r.slots, nil)
		copy(r.slots[at+1:], r.slots[at:])
		r.slots[at] = cmd.slot
	case cmdRemove:
		if len(r.slots) == 0 {
			return
		}
		at := clamp(cmd.at, len(r.slots)-1)
		r.slots = append(r.slots[:at], r.slots[at+1:]...)
	case cmdMove:
		if len(r.slots) == 0 {
			return
		}
		from := clamp(cmd.at, len(r.slots)-1)
		to := clamp(cmd.to, len(r.slots)-1)
		if from == to {
			return
		}
		s := r.slots[from]
		r.slots = append(r.slots[:from], r.slots[from+1:]...)
		r.slots = append(r.slots, nil)
		copy(r.slots[to+1:], r.slots[to:])
		r.slots[to] = s
	}

	r.structureDirty.Store(true)
}

// Len returns the number of slots.
func (r *Rack) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.slots)
}

// Slot returns the slot at position i.
func (r *Rack) Slot(i int) (*Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.slots) {
		return nil, fmt.Errorf("rack: slot index out of range: %d", i)
	}

	return r.slots[i], nil
}

// Find returns the first slot with the given name.
func (r *Rack) Find(name string) (*Slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.slots {
		if s.name == name {
			return s, true
		}
	}

	return nil, false
}

// LatencySamples sums the latency of all non-bypassed slots.
func (r *Rack) LatencySamples() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int
	for _, s := range r.slots {
		if !s.Bypassed() {
			total += s.unit.LatencySamples()
		}
	}

	return total
}

// SetSampleRate applies a new rate to every slot. Audio thread only.
func (r *Rack) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("rack sample rate must be > 0: %f", sampleRate)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sampleRate = sampleRate
	for _, s := range r.slots {
		if err := s.setSampleRate(sampleRate); err != nil {
			return err
		}
	}

	return nil
}

// Reset clears the state of every slot. Audio thread only.
func (r *Rack) Reset() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.slots {
		s.unit.Reset()
	}
}

// ProcessBlock runs one block through the chain in place. Queued
// structural changes and parameter writes are folded in first, then the
// order stays fixed for the whole block. The lock is taken only to
// refresh the cached order after a structural change; steady-state
// blocks run without it. Audio thread only.
func (r *Rack) ProcessBlock(left, right []float64) {
	r.drainCommands()

	if r.structureDirty.Swap(false) {
		r.mu.RLock()
		r.active = append(r.active[:0], r.slots...)
		r.mu.RUnlock()
	}

	for _, s := range r.active {
		s.applyPending()
	}

	for i := range left {
		l, rr := left[i], right[i]
		for _, s := range r.active {
			l, rr = s.processSample(l, rr)
		}
		left[i], right[i] = l, rr
	}
}
