package chain

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/core"
)

func TestProcessPlanar32MatchesFloat64Path(t *testing.T) {
	r := mustRack(t)
	if err := r.Append(mustSlot(t, "gain", 0.5)); err != nil {
		t.Fatal(err)
	}
	processOne(r)

	left32 := []float32{1, -0.5, 0.25, 0}
	right32 := []float32{0, 0.5, -0.25, 1}

	if err := r.ProcessPlanar32(left32, right32); err != nil {
		t.Fatal(err)
	}

	want := []float32{0.5, -0.25, 0.125, 0}
	for i := range want {
		if left32[i] != want[i] {
			t.Fatalf("left[%d]: %v want %v", i, left32[i], want[i])
		}
	}
}

func TestProcessPlanar32PreSizedFirstBlockNoAlloc(t *testing.T) {
	r, err := NewRack(48000, WithProcessorConfig(core.ProcessorConfig{SampleRate: 48000, BlockSize: 128}))
	if err != nil {
		t.Fatal(err)
	}

	left := make([]float32, 128)
	right := make([]float32, 128)

	// No warm-up: the pre-sized scratch must absorb the first block.
	allocs := testing.AllocsPerRun(1, func() {
		_ = r.ProcessPlanar32(left, right)
	})
	if allocs != 0 {
		t.Fatalf("pre-sized rack allocated: %v allocs/op", allocs)
	}
}

func TestProcessPlanar32LengthMismatch(t *testing.T) {
	r := mustRack(t)

	if err := r.ProcessPlanar32(make([]float32, 4), make([]float32, 5)); err == nil {
		t.Fatal("expected error")
	}
}

func TestProcessInterleaved32(t *testing.T) {
	r := mustRack(t)
	if err := r.Append(mustSlot(t, "gain", 2)); err != nil {
		t.Fatal(err)
	}
	processOne(r)

	buf := []float32{0.25, -0.25, 0.5, -0.5}
	if err := r.ProcessInterleaved32(buf); err != nil {
		t.Fatal(err)
	}

	want := []float32{0.5, -0.5, 1, -1}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d]: %v want %v", i, buf[i], want[i])
		}
	}
}

func TestProcessInterleaved32OddLength(t *testing.T) {
	r := mustRack(t)

	if err := r.ProcessInterleaved32(make([]float32, 3)); err == nil {
		t.Fatal("expected error")
	}
}

func TestProcessPlanar32SteadyStateAllocFree(t *testing.T) {
	r := mustRack(t)
	if err := r.Append(mustSlot(t, "gain", 0.9)); err != nil {
		t.Fatal(err)
	}

	left := make([]float32, 256)
	right := make([]float32, 256)

	// Warm up: drain the append and size the scratch buffers.
	if err := r.ProcessPlanar32(left, right); err != nil {
		t.Fatal(err)
	}

	allocs := testing.AllocsPerRun(100, func() {
		if err := r.ProcessPlanar32(left, right); err != nil {
			t.Fatal(err)
		}
	})

	if allocs != 0 {
		t.Fatalf("steady-state allocations: %v", allocs)
	}
}

func TestWidenNarrowRoundTripPrecision(t *testing.T) {
	r := mustRack(t)
	processOne(r)

	// An empty rack is a unity chain; float32 in, float32 out, bit exact.
	buf := []float32{0.1, -0.9, 1, -1, math.MaxFloat32 / 2, 0}
	orig := append([]float32(nil), buf...)

	if err := r.ProcessInterleaved32(buf); err != nil {
		t.Fatal(err)
	}

	for i := range orig {
		if buf[i] != orig[i] {
			t.Fatalf("sample %d changed: %v -> %v", i, buf[i], orig[i])
		}
	}
}
