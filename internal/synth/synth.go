// Package synth renders note events as mono sample buffers using additive
// harmonic synthesis.
package synth

import (
	"math"

	"github.com/cbegin/mmlwave-go/internal/mml"
	"github.com/cbegin/mmlwave-go/internal/timbre"
)

const (
	attackSeconds  = 0.005
	releaseSeconds = 0.01
)

// Synthesizer renders events at a fixed sample rate with one static spectrum.
type Synthesizer struct {
	sampleRate int
	spectrum   *timbre.Spectrum
}

// New creates a synthesizer. A nil spectrum selects the default.
func New(sampleRate int, spectrum *timbre.Spectrum) *Synthesizer {
	if spectrum == nil {
		spectrum = timbre.Default()
	}
	return &Synthesizer{sampleRate: sampleRate, spectrum: spectrum}
}

// RenderNote synthesizes one event. Rests yield silence of the same length;
// durations too short for a single sample yield an empty buffer.
func (s *Synthesizer) RenderNote(ev mml.NoteEvent) []float64 {
	n := int(math.Round(ev.Duration * float64(s.sampleRate)))
	if n <= 0 {
		return nil
	}
	buf := make([]float64, n)
	if ev.Rest {
		return buf
	}
	// n points over the half-open interval [0, duration)
	step := ev.Duration / float64(n)
	for k := 1; k <= s.spectrum.Harmonics(); k++ {
		re := s.spectrum.Real[k-1]
		im := s.spectrum.Imag[k-1]
		if re == 0 && im == 0 {
			continue
		}
		omega := 2 * math.Pi * float64(k) * ev.Frequency
		for i := range buf {
			phase := omega * float64(i) * step
			buf[i] += re*math.Cos(phase) - im*math.Sin(phase)
		}
	}
	normalize(buf)
	applyEnvelope(buf, s.sampleRate)
	for i := range buf {
		buf[i] *= ev.Volume
	}
	return buf
}

// RenderChannel concatenates the rendered buffers of all events in order,
// with no gaps or overlaps.
func (s *Synthesizer) RenderChannel(events []mml.NoteEvent) []float64 {
	bufs := make([][]float64, 0, len(events))
	total := 0
	for _, ev := range events {
		b := s.RenderNote(ev)
		bufs = append(bufs, b)
		total += len(b)
	}
	out := make([]float64, 0, total)
	for _, b := range bufs {
		out = append(out, b...)
	}
	return out
}

// normalize scales buf so its peak magnitude is 1. An all-zero buffer is
// left untouched.
func normalize(buf []float64) {
	peak := 0.0
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	for i := range buf {
		buf[i] /= peak
	}
}

// applyEnvelope applies linear attack and release ramps to avoid
// discontinuity clicks. Each ramp is capped at a tenth of the buffer; on
// very short buffers the ramps may overlap, and the release wins over the
// tail samples.
func applyEnvelope(buf []float64, sampleRate int) {
	n := len(buf)
	attack := minInt(int(attackSeconds*float64(sampleRate)), n/10)
	release := minInt(int(releaseSeconds*float64(sampleRate)), n/10)
	env := make([]float64, n)
	for i := range env {
		env[i] = 1
	}
	for i := 0; i < attack; i++ {
		env[i] = ramp(i, attack)
	}
	for j := 0; j < release; j++ {
		env[n-release+j] = 1 - ramp(j, release)
	}
	for i := range buf {
		buf[i] *= env[i]
	}
}

// ramp maps i in [0,count) onto a rising 0..1 line inclusive of both ends.
func ramp(i, count int) float64 {
	if count <= 1 {
		return 0
	}
	return float64(i) / float64(count-1)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
