package mml

import (
	"errors"
	"math"
)

const (
	a4Frequency = 440.0
	// Frequency of C at octave 0; the anchor for numeric (n) notes.
	c0Frequency = 16.351597831287414
)

// Semitone offsets relative to A4.
var noteOffsets = map[byte]int{
	'c': -9, 'd': -7, 'e': -5, 'f': -4, 'g': -2, 'a': 0, 'b': 2,
}

// ErrInvalidLength reports a non-positive length denominator or tempo.
var ErrInvalidLength = errors.New("mml: length denominator and tempo must be positive")

// LengthSeconds converts a note length denominator to seconds at the given
// tempo: a quarter note (denominator 4) lasts 60/tempo seconds.
func LengthSeconds(denominator int, tempo float64) (float64, error) {
	if denominator <= 0 || tempo <= 0 {
		return 0, ErrInvalidLength
	}
	return (4.0 / float64(denominator)) * (60.0 / tempo), nil
}

// LetterFrequency resolves a note letter (a-g, case-insensitive) with an
// accidental offset in semitones at the given octave. Reports false for
// letters outside a-g.
func LetterFrequency(letter byte, accidental int, octave int) (float64, bool) {
	base, ok := noteOffsets[lower(letter)]
	if !ok {
		return 0, false
	}
	semitone := base + accidental + (octave-4)*12
	return a4Frequency * math.Pow(2, float64(semitone)/12.0), true
}

// NumericFrequency maps an absolute semitone index to Hz, with 0 at C0.
func NumericFrequency(n int) float64 {
	return c0Frequency * math.Pow(2, float64(n)/12.0)
}
