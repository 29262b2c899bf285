package effects

import (
	"testing"

	"github.com/cwbudde/algo-fx/dsp/unit"
)

func allEffects(t *testing.T) map[string]interface {
	unit.Unit
	unit.Parameterized
} {
	t.Helper()

	units := map[string]interface {
		unit.Unit
		unit.Parameterized
	}{}

	if d, err := NewDelay(48000); err == nil {
		units["delay"] = d
	} else {
		t.Fatal(err)
	}
	if r, err := NewReverb(48000); err == nil {
		units["reverb"] = r
	} else {
		t.Fatal(err)
	}
	if c, err := NewChorus(48000); err == nil {
		units["chorus"] = c
	} else {
		t.Fatal(err)
	}
	if tr, err := NewTremolo(48000); err == nil {
		units["tremolo"] = tr
	} else {
		t.Fatal(err)
	}
	if f, err := NewFilter(48000); err == nil {
		units["filter"] = f
	} else {
		t.Fatal(err)
	}
	if d, err := NewDrive(48000); err == nil {
		units["drive"] = d
	} else {
		t.Fatal(err)
	}
	if l, err := NewLimiter(48000); err == nil {
		units["limiter"] = l
	} else {
		t.Fatal(err)
	}

	return units
}

func TestDescriptorTablesWellFormed(t *testing.T) {
	for name, u := range allEffects(t) {
		seen := map[uint32]bool{}
		for i := 0; i < u.ParameterCount(); i++ {
			d := u.ParameterInfo(i)

			if d.Name == "" {
				t.Fatalf("%s parameter %d: empty name", name, i)
			}
			if d.Min >= d.Max {
				t.Fatalf("%s %s: min %v >= max %v", name, d.Name, d.Min, d.Max)
			}
			if d.Default < d.Min || d.Default > d.Max {
				t.Fatalf("%s %s: default %v outside range", name, d.Name, d.Default)
			}
			if seen[d.ID] {
				t.Fatalf("%s %s: duplicate id %d", name, d.Name, d.ID)
			}
			seen[d.ID] = true
		}
	}
}

func TestDefaultsReportedBack(t *testing.T) {
	for name, u := range allEffects(t) {
		for i := 0; i < u.ParameterCount(); i++ {
			if got, want := u.Parameter(i), u.ParameterInfo(i).Default; got != want {
				t.Fatalf("%s parameter %d: fresh value %v, default %v", name, i, got, want)
			}
		}
	}
}

func TestCaptureApplyAcrossEffects(t *testing.T) {
	for name, u := range allEffects(t) {
		for i := 0; i < u.ParameterCount(); i++ {
			d := u.ParameterInfo(i)
			if err := u.SetParameter(i, (d.Min+d.Max)/2); err != nil {
				t.Fatalf("%s: %v", name, err)
			}
		}

		settings := unit.Capture(u)

		if err := unit.Apply(u, settings); err != nil {
			t.Fatalf("%s: replay: %v", name, err)
		}

		for i, s := range settings {
			if got := u.Parameter(i); got != s.Value {
				t.Fatalf("%s parameter %d: %v != %v after replay", name, i, got, s.Value)
			}
		}
	}
}

func TestResetKeepsParameters(t *testing.T) {
	for name, u := range allEffects(t) {
		if u.ParameterCount() == 0 {
			continue
		}

		d := u.ParameterInfo(0)
		if err := u.SetParameter(0, d.Max); err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		u.Reset()

		if got := u.Parameter(0); got != d.Max {
			t.Fatalf("%s: reset clobbered parameter: %v", name, got)
		}
	}
}

func TestSilenceInSilenceOut(t *testing.T) {
	for name, u := range allEffects(t) {
		u.Reset()
		for i := 0; i < 1000; i++ {
			l, r := u.ProcessSample(0, 0)
			if l != 0 || r != 0 {
				t.Fatalf("%s sample %d: silence produced %v %v", name, i, l, r)
			}
		}
	}
}

func BenchmarkDelayProcessSample(b *testing.B) {
	d, _ := NewDelay(48000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.ProcessSample(0.25, -0.25)
	}
}

func BenchmarkReverbProcessSample(b *testing.B) {
	r, _ := NewReverb(48000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.ProcessSample(0.25, -0.25)
	}
}

func BenchmarkDriveProcessSample(b *testing.B) {
	d, _ := NewDrive(48000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.ProcessSample(0.25, -0.25)
	}
}
