package mod

import (
	"math"
	"testing"
)

func TestADSRFullCycle(t *testing.T) {
	const sampleRate = 48000.0

	a, err := NewADSR(sampleRate, 10, 20, 0.6, 30)
	if err != nil {
		t.Fatal(err)
	}

	a.Gate(true)

	attackSamples := int(10.0 / 1000 * sampleRate)
	var peak float64
	for i := 0; i <= attackSamples; i++ {
		peak = math.Max(peak, a.Advance())
	}

	if math.Abs(peak-1) > 1e-9 {
		t.Fatalf("attack peak: got %v want 1", peak)
	}

	decaySamples := int(20.0 / 1000 * sampleRate)
	var v float64
	for i := 0; i <= decaySamples; i++ {
		v = a.Advance()
	}

	if math.Abs(v-0.6) > 1e-9 || a.Stage() != StageSustain {
		t.Fatalf("after decay: value %v stage %d", v, a.Stage())
	}

	// Sustain holds indefinitely.
	for i := 0; i < 1000; i++ {
		if got := a.Advance(); got != 0.6 {
			t.Fatalf("sustain drifted: %v", got)
		}
	}

	a.Gate(false)

	releaseSamples := int(30.0 / 1000 * sampleRate)
	for i := 0; i <= releaseSamples; i++ {
		v = a.Advance()
	}

	if v != 0 || a.Stage() != StageIdle {
		t.Fatalf("after release: value %v stage %d", v, a.Stage())
	}
}

func TestADSRRetriggerFromRelease(t *testing.T) {
	a, err := NewADSR(48000, 10, 10, 0.5, 100)
	if err != nil {
		t.Fatal(err)
	}

	a.Gate(true)
	for i := 0; i < 2000; i++ {
		a.Advance()
	}

	a.Gate(false)
	for i := 0; i < 100; i++ {
		a.Advance()
	}

	before := a.Advance()

	// Reopening the gate resumes the attack from the current level.
	a.Gate(true)
	after := a.Advance()

	if after < before {
		t.Fatalf("retrigger dropped the envelope: %v -> %v", before, after)
	}

	if a.Stage() != StageAttack {
		t.Fatalf("stage: %d", a.Stage())
	}
}

func TestADSRGateOffWhileIdleStaysIdle(t *testing.T) {
	a, err := NewADSR(48000, 1, 1, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}

	a.Gate(false)

	if a.Stage() != StageIdle {
		t.Fatalf("stage: %d", a.Stage())
	}

	if got := a.Advance(); got != 0 {
		t.Fatalf("idle output: %v", got)
	}
}

func TestADSRValidation(t *testing.T) {
	if _, err := NewADSR(0, 1, 1, 0.5, 1); err == nil {
		t.Fatal("expected error for rate=0")
	}

	if _, err := NewADSR(48000, 0, 1, 0.5, 1); err == nil {
		t.Fatal("expected error for attack=0")
	}

	if _, err := NewADSR(48000, 1, 1, 1.5, 1); err == nil {
		t.Fatal("expected error for sustain>1")
	}
}
