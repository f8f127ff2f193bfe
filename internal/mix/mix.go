// Package mix combines channel waveforms into a single clipping-safe buffer.
package mix

import "math"

// Headroom is the fraction of full scale the mixed peak is scaled to.
const Headroom = 0.95

// Mix sums the channel waveforms into a buffer the length of the longest
// channel; shorter channels contribute silence for the remainder. The summed
// buffer is scaled so its peak magnitude is Headroom. An all-zero mix is
// left unscaled and no channels yields an empty buffer.
func Mix(channels [][]float64) []float64 {
	maxLen := 0
	for _, ch := range channels {
		if len(ch) > maxLen {
			maxLen = len(ch)
		}
	}
	if maxLen == 0 {
		return nil
	}
	out := make([]float64, maxLen)
	for _, ch := range channels {
		for i, v := range ch {
			out[i] += v
		}
	}
	peak := 0.0
	for _, v := range out {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		scale := Headroom / peak
		for i := range out {
			out[i] *= scale
		}
	}
	return out
}
