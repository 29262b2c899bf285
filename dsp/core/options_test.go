package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions()
	if cfg.SampleRate != 48000 || cfg.BlockSize != 512 {
		t.Fatalf("defaults: %+v", cfg)
	}

	cfg = ApplyProcessorOptions(WithSampleRate(96000), WithBlockSize(256))
	if cfg.SampleRate != 96000 || cfg.BlockSize != 256 {
		t.Fatalf("overrides: %+v", cfg)
	}

	// Invalid values keep defaults.
	cfg = ApplyProcessorOptions(WithSampleRate(-1), WithBlockSize(0), nil)
	if cfg.SampleRate != 48000 || cfg.BlockSize != 512 {
		t.Fatalf("invalid values applied: %+v", cfg)
	}
}
