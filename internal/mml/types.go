package mml

// NoteEvent is one sounding or silent interval on a channel. A rest carries
// no frequency and a volume of zero.
type NoteEvent struct {
	Frequency float64 // Hz; meaningless when Rest is set
	Rest      bool
	Duration  float64 // seconds, always > 0
	Volume    float64 // 0..1
}

// Channel is the parse result for one voice: its events in playing order and
// the tempo in effect when the parse finished.
type Channel struct {
	Events []NoteEvent
	Tempo  float64
}

type Score struct {
	Channels []Channel
}

type ParserConfig struct {
	DefaultTempo  float64
	DefaultOctave int
	DefaultLength int
	DefaultVolume float64
}

func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		DefaultTempo:  120,
		DefaultOctave: 4,
		DefaultLength: 4,
		DefaultVolume: 1.0,
	}
}
