// Package timbre parses harmonic-coefficient specifications. A spectrum is a
// finite Fourier series: index k-1 holds the real and imaginary coefficients
// of harmonic order k.
package timbre

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Spectrum holds paired coefficient sequences of equal length.
type Spectrum struct {
	Real []float64
	Imag []float64
}

// Harmonics returns the number of harmonic orders in the spectrum.
func (s *Spectrum) Harmonics() int { return len(s.Real) }

// ErrInvalidSpecification reports a coefficient token that is not a valid
// real number. Coefficients are never silently coerced to zero.
var ErrInvalidSpecification = errors.New("timbre: invalid coefficient")

const defaultHarmonics = 12

// Default returns the built-in spectrum: 12 harmonics with 1/k amplitudes
// and no imaginary part, a soft saw-like tone.
func Default() *Spectrum {
	sp := &Spectrum{
		Real: make([]float64, defaultHarmonics),
		Imag: make([]float64, defaultHarmonics),
	}
	for k := 1; k <= defaultHarmonics; k++ {
		sp.Real[k-1] = 1.0 / float64(k)
	}
	return sp
}

// Parse parses a "re1,re2,...;im1,im2,..." specification. The imaginary side
// and its leading ';' are optional; either side may be empty, and the shorter
// side is zero-padded to the longer. An entirely empty specification yields
// nil, which callers treat as "use the default spectrum".
func Parse(spec string) (*Spectrum, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	parts := strings.SplitN(spec, ";", 2)
	reals, err := parseCoefficients(parts[0])
	if err != nil {
		return nil, err
	}
	var imags []float64
	if len(parts) > 1 {
		if imags, err = parseCoefficients(parts[1]); err != nil {
			return nil, err
		}
	}
	n := len(reals)
	if len(imags) > n {
		n = len(imags)
	}
	if n == 0 {
		return nil, nil
	}
	return &Spectrum{
		Real: padZeros(reals, n),
		Imag: padZeros(imags, n),
	}, nil
}

// ParsePerChannel splits a multi-channel timbre string on the channel
// delimiter and parses each entry. Channels without an entry (index out of
// range or empty text) get nil.
func ParsePerChannel(spec string, numChannels int) ([]*Spectrum, error) {
	out := make([]*Spectrum, numChannels)
	if strings.TrimSpace(spec) == "" {
		return out, nil
	}
	parts := strings.Split(spec, "|")
	for i := 0; i < numChannels && i < len(parts); i++ {
		sp, err := Parse(parts[i])
		if err != nil {
			return nil, err
		}
		out[i] = sp
	}
	return out, nil
}

func parseCoefficients(s string) ([]float64, error) {
	var out []float64
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSpecification, tok)
		}
		out = append(out, v)
	}
	return out, nil
}

func padZeros(v []float64, n int) []float64 {
	if len(v) >= n {
		return v
	}
	out := make([]float64, n)
	copy(out, v)
	return out
}
