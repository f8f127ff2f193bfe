package mmlwave

import (
	"fmt"
	"sync"
	"time"

	intaudio "github.com/cbegin/mmlwave-go/internal/audio"
)

// Player renders scores and plays them through the platform audio device.
// Playback is of a finished rendering; nothing is synthesized in real time.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	opts       []RenderOption
	audio      *intaudio.Player
}

// NewPlayer creates a player. Render options passed here apply to every
// PlayMML call.
func NewPlayer(sampleRate int, opts ...RenderOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidConfiguration, sampleRate)
	}
	return &Player{sampleRate: sampleRate, opts: opts}, nil
}

// PlayMML renders the score and starts playback.
func (p *Player) PlayMML(score string) error {
	opts := append([]RenderOption{WithSampleRate(p.sampleRate)}, p.opts...)
	rendering, err := Render(score, opts...)
	if err != nil {
		return err
	}
	return p.Play(rendering)
}

// Play starts playback of a finished rendering, replacing any playback
// already in progress.
func (p *Player) Play(r *Rendering) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	backend, err := intaudio.NewPlayer(r.SampleRate, r.Samples)
	if err != nil {
		return err
	}
	if p.audio != nil {
		_ = p.audio.Stop()
	}
	p.audio = backend
	p.audio.Play()
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	return err
}

// Wait blocks until the current playback finishes or is stopped. Returns
// immediately if nothing is playing.
func (p *Player) Wait() {
	for {
		p.mu.Lock()
		a := p.audio
		p.mu.Unlock()
		if a == nil || !a.IsPlaying() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// PlaybackPosition returns the current output position of the audio driver,
// i.e. what the listener actually hears right now. Returns 0 if not playing.
func (p *Player) PlaybackPosition() time.Duration {
	p.mu.Lock()
	a := p.audio
	p.mu.Unlock()
	if a == nil {
		return 0
	}
	return a.Position()
}
