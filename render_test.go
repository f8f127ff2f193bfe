package mmlwave

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/go-audio/wav"

	"github.com/cbegin/mmlwave-go/internal/timbre"
)

func TestRenderEndToEnd(t *testing.T) {
	rendering, err := Render("t120 o5 l4 v12 c", WithSampleRate(44100))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	// a quarter note at 120 BPM is half a second
	if len(rendering.Samples) != 22050 {
		t.Fatalf("expected 22050 samples, got %d", len(rendering.Samples))
	}
	peak := 0.0
	for _, v := range rendering.Samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if math.Abs(peak-0.95) > 1e-9 {
		t.Fatalf("mixed peak = %g, want 0.95", peak)
	}
}

func TestRenderNoAudio(t *testing.T) {
	for _, score := range []string{"", "   ", "|||", "zzz !!"} {
		if _, err := Render(score); !errors.Is(err, ErrNoAudio) {
			t.Fatalf("render %q: expected ErrNoAudio, got %v", score, err)
		}
	}
}

func TestRenderInvalidConfiguration(t *testing.T) {
	if _, err := Render("c", WithSampleRate(0)); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for sample rate 0, got %v", err)
	}
	if _, err := Render("c", WithSampleRate(-44100)); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for negative sample rate, got %v", err)
	}
	if _, err := Render("c", WithTempo(0)); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for tempo 0, got %v", err)
	}
}

func TestRenderMultiChannelLength(t *testing.T) {
	rendering, err := Render("c4|c4 c4", WithSampleRate(44100))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	// the longer channel (two quarter notes) decides the mix length
	if len(rendering.Samples) != 44100 {
		t.Fatalf("expected 44100 samples, got %d", len(rendering.Samples))
	}
}

func TestRenderTempoOverride(t *testing.T) {
	slow, err := Render("c", WithSampleRate(44100), WithTempo(60))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(slow.Samples) != 44100 {
		t.Fatalf("tempo override 60: expected 44100 samples, got %d", len(slow.Samples))
	}
	// a channel's own t command still overrides the seed
	explicit, err := Render("t120 c", WithSampleRate(44100), WithTempo(60))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(explicit.Samples) != 22050 {
		t.Fatalf("explicit tempo: expected 22050 samples, got %d", len(explicit.Samples))
	}
}

func TestRenderWithTimbre(t *testing.T) {
	pure, err := Render("a4", WithSampleRate(44100), WithTimbre("1;0"))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(pure.Samples) != 22050 {
		t.Fatalf("expected 22050 samples, got %d", len(pure.Samples))
	}
}

func TestRenderInvalidTimbre(t *testing.T) {
	if _, err := Render("c", WithTimbre("1,abc")); !errors.Is(err, timbre.ErrInvalidSpecification) {
		t.Fatalf("expected ErrInvalidSpecification, got %v", err)
	}
}

func TestCompileReportsTempo(t *testing.T) {
	score := Compile("t150 cde|cde")
	if len(score.Channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(score.Channels))
	}
	if score.Channels[0].Tempo != 150 || score.Channels[1].Tempo != 120 {
		t.Fatalf("tempos = %g,%g, want 150,120",
			score.Channels[0].Tempo, score.Channels[1].Tempo)
	}
}

func TestRenderingDuration(t *testing.T) {
	r := &Rendering{Samples: make([]float64, 22050), SampleRate: 44100}
	if got := r.Duration().Seconds(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("duration = %gs, want 0.5s", got)
	}
}

func TestWriteWAVFile(t *testing.T) {
	rendering, err := Render("t120 o5 l4 c", WithSampleRate(44100))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := WriteWAVFile(path, rendering); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()
	dec := gowav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if dec.SampleRate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", dec.SampleRate)
	}
	if dec.NumChans != 1 {
		t.Fatalf("channels = %d, want mono", dec.NumChans)
	}
	if len(buf.Data) != len(rendering.Samples) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(rendering.Samples))
	}
}
