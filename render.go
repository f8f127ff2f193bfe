// Package mmlwave renders Music Macro Language scores into audio waveforms
// using additive harmonic synthesis. A score is one string; channels are
// separated by '|' and each channel is an independent monophonic voice with
// its own tempo, octave, length and volume context. Tone color comes from an
// optional per-channel Fourier coefficient specification.
package mmlwave

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	intmix "github.com/cbegin/mmlwave-go/internal/mix"
	intmml "github.com/cbegin/mmlwave-go/internal/mml"
	intsynth "github.com/cbegin/mmlwave-go/internal/synth"
	inttimbre "github.com/cbegin/mmlwave-go/internal/timbre"
)

const DefaultSampleRate = 44100

var (
	// ErrNoAudio reports that the score produced no samples at all: no
	// channels, all channels empty, or every event too short to render.
	// This is an expected outcome, not a failure.
	ErrNoAudio = errors.New("mmlwave: no audio produced")

	// ErrInvalidConfiguration reports a non-positive sample rate or tempo
	// override. Configuration is validated before any synthesis work.
	ErrInvalidConfiguration = errors.New("mmlwave: invalid render configuration")
)

type RenderOption func(*renderConfig)

type renderConfig struct {
	sampleRate int
	tempo      float64
	tempoSet   bool
	timbre     string
	logger     *zap.Logger
}

func defaultRenderConfig() renderConfig {
	return renderConfig{sampleRate: DefaultSampleRate, logger: zap.NewNop()}
}

func WithSampleRate(rate int) RenderOption {
	return func(cfg *renderConfig) {
		cfg.sampleRate = rate
	}
}

// WithTempo seeds every channel's parser context with the given tempo in
// place of the default 120 BPM. A channel's own t command still overrides
// it mid-parse.
func WithTempo(bpm float64) RenderOption {
	return func(cfg *renderConfig) {
		cfg.tempo = bpm
		cfg.tempoSet = true
	}
}

// WithTimbre sets the per-channel harmonic coefficient specification:
// "re1,re2,...;im1,im2,..." entries separated by '|'. Channels without an
// entry use the built-in default spectrum.
func WithTimbre(spec string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.timbre = spec
	}
}

// WithLogger installs a logger for render diagnostics. The default is a nop.
func WithLogger(logger *zap.Logger) RenderOption {
	return func(cfg *renderConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Rendering is a finished mono mixdown.
type Rendering struct {
	Samples    []float64
	SampleRate int
}

func (r *Rendering) Duration() time.Duration {
	return time.Duration(float64(len(r.Samples)) / float64(r.SampleRate) * float64(time.Second))
}

// Compile parses a score without rendering it. Parsing is permissive and
// never fails; malformed tokens are skipped.
func Compile(score string) *intmml.Score {
	return intmml.NewParser(intmml.DefaultParserConfig()).Parse(score)
}

// Render parses and synthesizes a score into a single mixed waveform.
// Channels render independently (in parallel) and are then summed and
// peak-normalized with headroom. Returns ErrNoAudio when the score yields
// no samples.
func Render(score string, opts ...RenderOption) (*Rendering, error) {
	cfg := defaultRenderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidConfiguration, cfg.sampleRate)
	}
	if cfg.tempoSet && cfg.tempo <= 0 {
		return nil, fmt.Errorf("%w: tempo %g", ErrInvalidConfiguration, cfg.tempo)
	}

	pcfg := intmml.DefaultParserConfig()
	if cfg.tempoSet {
		pcfg.DefaultTempo = cfg.tempo
	}
	parsed := intmml.NewParser(pcfg).Parse(score)

	spectra, err := inttimbre.ParsePerChannel(cfg.timbre, len(parsed.Channels))
	if err != nil {
		return nil, err
	}

	// Channels share no mutable state; each worker owns its channel's
	// buffer until the join below.
	waves := make([][]float64, len(parsed.Channels))
	var g errgroup.Group
	for i, ch := range parsed.Channels {
		g.Go(func() error {
			s := intsynth.New(cfg.sampleRate, spectra[i])
			waves[i] = s.RenderChannel(ch.Events)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mixed := intmix.Mix(waves)
	if len(mixed) == 0 {
		return nil, ErrNoAudio
	}
	cfg.logger.Debug("render complete",
		zap.Int("channels", len(parsed.Channels)),
		zap.Int("samples", len(mixed)),
		zap.Int("sample_rate", cfg.sampleRate),
	)
	return &Rendering{Samples: mixed, SampleRate: cfg.sampleRate}, nil
}
