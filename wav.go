package mmlwave

import (
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

const pcmMax = 32767

// WriteWAVFile saves a rendering as a 16-bit mono PCM WAV file. Samples are
// expected in [-1, 1]; values outside are clamped.
func WriteWAVFile(path string, r *Rendering) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := gowav.NewEncoder(f, r.SampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: r.SampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(r.Samples)),
	}
	for i, s := range r.Samples {
		buf.Data[i] = clampPCM(int(s * pcmMax))
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func clampPCM(v int) int {
	if v > pcmMax-1 {
		return pcmMax - 1
	}
	if v < -pcmMax {
		return -pcmMax
	}
	return v
}
