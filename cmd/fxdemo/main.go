// Command fxdemo plays a short generated sequence through an effect
// chain and streams the result to the default audio device.
//
// Usage:
//
//	fxdemo [flags]
//
// Examples:
//
//	fxdemo
//	fxdemo -seconds 16 -rate 44100
//	fxdemo -bypass reverb
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/hajimehoshi/oto/v2"

	"github.com/cwbudde/algo-fx/dsp/chain"
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/effects"
	"github.com/cwbudde/algo-fx/dsp/mod"
	"github.com/cwbudde/algo-fx/dsp/oversample"
	"github.com/cwbudde/algo-fx/dsp/unit"
)

const (
	channelCount = 2
	bitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
	blockFrames  = 256
)

func main() {
	rate := flag.Int("rate", 48000, "sample rate in Hz")
	seconds := flag.Float64("seconds", 8, "playback duration")
	bypass := flag.String("bypass", "", "slot name to bypass (drive, chorus, delay, reverb, limiter)")
	flag.Parse()

	if err := run(*rate, *seconds, *bypass); err != nil {
		fmt.Fprintln(os.Stderr, "fxdemo:", err)
		os.Exit(1)
	}
}

func run(rate int, seconds float64, bypass string) error {
	sampleRate := float64(rate)

	rack, err := buildRack(sampleRate)
	if err != nil {
		return err
	}

	// Drain the structural queue once so the chain is live before the
	// device pulls its first block.
	rack.ProcessBlock(nil, nil)

	if bypass != "" {
		slot, ok := rack.Find(bypass)
		if !ok {
			return fmt.Errorf("no slot named %q", bypass)
		}
		slot.SetBypassed(true)
	}

	synth, err := newSynth(sampleRate)
	if err != nil {
		return err
	}

	meter, err := newMeter(sampleRate)
	if err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(rate, channelCount, bitDepth)
	if err != nil {
		return err
	}
	<-ready

	stop := make(chan struct{})
	go automate(rack, stop)

	player := ctx.NewPlayer(&blockReader{rack: rack, synth: synth, meter: meter})
	player.Play()

	time.Sleep(time.Duration(seconds * float64(time.Second)))
	close(stop)

	return player.Close()
}

// buildRack assembles drive (oversampled), chorus, delay, reverb and
// limiter into one chain.
func buildRack(sampleRate float64) (*chain.Rack, error) {
	rack, err := chain.NewRack(sampleRate)
	if err != nil {
		return nil, err
	}

	drive, err := effects.NewDrive(sampleRate)
	if err != nil {
		return nil, err
	}

	oversampledDrive, err := oversample.New(drive, sampleRate, 4)
	if err != nil {
		return nil, err
	}

	chorus, err := effects.NewChorus(sampleRate)
	if err != nil {
		return nil, err
	}

	delay, err := effects.NewDelay(sampleRate)
	if err != nil {
		return nil, err
	}

	reverb, err := effects.NewReverb(sampleRate)
	if err != nil {
		return nil, err
	}

	limiter, err := effects.NewLimiter(sampleRate)
	if err != nil {
		return nil, err
	}

	for _, stage := range []struct {
		name string
		unit unit.Unit
	}{
		{"drive", oversampledDrive},
		{"chorus", chorus},
		{"delay", delay},
		{"reverb", reverb},
		{"limiter", limiter},
	} {
		slot, err := chain.NewSlot(stage.name, stage.unit, sampleRate)
		if err != nil {
			return nil, err
		}
		if err := rack.Append(slot); err != nil {
			return nil, err
		}
	}

	return rack, nil
}

// automate sweeps parameters from a control goroutine while audio runs,
// exercising the lock-free write bridge.
func automate(rack *chain.Rack, stop <-chan struct{}) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	var step int
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		step++
		phase := float64(step) * 0.05

		if slot, ok := rack.Find("delay"); ok {
			// Feedback breathes between 0.2 and 0.6.
			_ = slot.SetParameter(1, 0.4+0.2*math.Sin(phase))
		}

		if slot, ok := rack.Find("chorus"); ok {
			_ = slot.SetParameter(1, 0.5+0.5*math.Sin(phase/3))
		}
	}
}

var noteFrequencies = []float64{220, 261.63, 293.66, 329.63, 392, 329.63, 293.66, 261.63}

// synth is a minimal plucked-tone generator driving the chain.
type synth struct {
	sampleRate float64

	phase    float64
	note     int
	envelope *mod.ADSR

	samplesPerNote int
	samplesInNote  int
}

func newSynth(sampleRate float64) (*synth, error) {
	envelope, err := mod.NewADSR(sampleRate, 5, 120, 0.3, 150)
	if err != nil {
		return nil, err
	}

	s := &synth{
		sampleRate:     sampleRate,
		envelope:       envelope,
		samplesPerNote: int(0.4 * sampleRate),
	}
	s.envelope.Gate(true)

	return s, nil
}

func (s *synth) next() float64 {
	if s.samplesInNote >= s.samplesPerNote {
		s.samplesInNote = 0
		s.note = (s.note + 1) % len(noteFrequencies)
		s.envelope.Gate(true)
	} else if s.samplesInNote == s.samplesPerNote*3/4 {
		s.envelope.Gate(false)
	}
	s.samplesInNote++

	freq := noteFrequencies[s.note]
	s.phase += freq / s.sampleRate
	if s.phase >= 1 {
		s.phase -= 1
	}

	// Sine plus a touch of second harmonic for the drive to chew on.
	tone := math.Sin(2*math.Pi*s.phase) + 0.3*math.Sin(4*math.Pi*s.phase)

	return 0.4 * tone * s.envelope.Advance()
}

const meterFFTSize = 2048

// meter tracks the processed output and logs the dominant partial about
// once per second.
type meter struct {
	sampleRate float64

	plan *algofft.Plan[complex128]

	ring     []float64
	fill     int
	sinceLog int

	in, out      []complex128
	re, im, mags []float64
}

func newMeter(sampleRate float64) (*meter, error) {
	plan, err := algofft.NewPlan64(meterFFTSize)
	if err != nil {
		return nil, err
	}

	half := meterFFTSize/2 + 1

	return &meter{
		sampleRate: sampleRate,
		plan:       plan,
		ring:       make([]float64, meterFFTSize),
		in:         make([]complex128, meterFFTSize),
		out:        make([]complex128, meterFFTSize),
		re:         make([]float64, half),
		im:         make([]float64, half),
		mags:       make([]float64, half),
	}, nil
}

// observe accumulates the left channel of an interleaved stereo block.
func (m *meter) observe(frames []float32) {
	for i := 0; i < len(frames); i += 2 {
		m.ring[m.fill%meterFFTSize] = float64(frames[i])
		m.fill++
	}
	m.sinceLog += len(frames) / 2

	if m.fill < meterFFTSize || m.sinceLog < int(m.sampleRate) {
		return
	}
	m.sinceLog = 0
	m.report()
}

func (m *meter) report() {
	// A circular rotation of the frame leaves bin magnitudes untouched,
	// so the ring is read as is.
	for i := range m.in {
		m.in[i] = complex(m.ring[i], 0)
	}
	if err := m.plan.Forward(m.out, m.in); err != nil {
		return
	}

	for i := range m.re {
		m.re[i] = real(m.out[i])
		m.im[i] = imag(m.out[i])
	}
	vecmath.Magnitude(m.mags, m.re, m.im)

	peak, peakBin := 0.0, 0
	for i := 1; i < len(m.mags); i++ {
		if m.mags[i] > peak {
			peak = m.mags[i]
			peakBin = i
		}
	}

	freq := float64(peakBin) * m.sampleRate / meterFFTSize
	log.Printf("peak %7.1f Hz  %6.1f dBFS", freq, core.LinearToDB(2*peak/meterFFTSize))
}

// blockReader feeds the device by rendering one chain block per fill.
type blockReader struct {
	rack  *chain.Rack
	synth *synth
	meter *meter

	pending []byte
}

func (b *blockReader) Read(p []byte) (int, error) {
	if len(b.pending) == 0 {
		b.pending = b.renderBlock()
	}

	n := copy(p, b.pending)
	b.pending = b.pending[n:]

	return n, nil
}

func (b *blockReader) renderBlock() []byte {
	frames := make([]float32, 2*blockFrames)
	for i := 0; i < blockFrames; i++ {
		x := float32(b.synth.next())
		frames[2*i] = x
		frames[2*i+1] = x
	}

	if err := b.rack.ProcessInterleaved32(frames); err != nil {
		return make([]byte, 8*blockFrames)
	}

	b.meter.observe(frames)

	buf := make([]byte, 4*len(frames))
	for i, f := range frames {
		bits := math.Float32bits(f)
		buf[4*i] = byte(bits)
		buf[4*i+1] = byte(bits >> 8)
		buf[4*i+2] = byte(bits >> 16)
		buf[4*i+3] = byte(bits >> 24)
	}

	return buf
}

var _ io.Reader = (*blockReader)(nil)
