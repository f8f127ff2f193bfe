// Package audio plays pre-rendered mono waveforms through the platform
// audio device.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// bufferReader streams a finite mono float64 waveform as little-endian
// stereo float32 frames, returning io.EOF once the buffer is exhausted.
type bufferReader struct {
	mu      sync.Mutex
	samples []float64
	pos     int
}

func (r *bufferReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	n := 0
	for f := 0; f < frames && r.pos < len(r.samples); f++ {
		u := math.Float32bits(float32(r.samples[r.pos]))
		binary.LittleEndian.PutUint32(p[f*8:], u)
		binary.LittleEndian.PutUint32(p[f*8+4:], u)
		r.pos++
		n += 8
	}
	return n, nil
}

func (r *bufferReader) Close() error { return nil }

type Player struct {
	player *ebitaudio.Player
	reader *bufferReader
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// The backend context is process-wide and fixed at its first sample rate.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

func NewPlayer(sampleRate int, samples []float64) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := &bufferReader{samples: samples}
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Player{
		player: pl,
		reader: reader,
	}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Position returns the current playback position (what the listener actually hears).
func (p *Player) Position() time.Duration {
	return p.player.Position()
}

func (p *Player) Stop() error {
	p.player.Pause()
	p.player.Close()
	return p.reader.Close()
}
