package mml

import "strings"

// ChannelDelimiter separates the voices of a multi-channel score. The same
// delimiter separates per-channel timbre entries.
const ChannelDelimiter = "|"

// volumeMax is the nominal top of the v command's range; vN maps to N/15
// clamped to [0,1].
const volumeMax = 15.0

type Parser struct{ cfg ParserConfig }

func NewParser(cfg ParserConfig) *Parser { return &Parser{cfg: cfg} }

// SplitChannels splits a full score into per-channel substrings, trimming
// whitespace and dropping empty entries.
func SplitChannels(input string) []string {
	parts := strings.Split(input, ChannelDelimiter)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Parse splits the score into channels and parses each with a fresh context.
// Parsing is permissive and never fails: unrecognized input is skipped.
func (p *Parser) Parse(input string) *Score {
	parts := SplitChannels(input)
	channels := make([]Channel, 0, len(parts))
	for _, part := range parts {
		channels = append(channels, p.parseChannel(part))
	}
	return &Score{Channels: channels}
}

// channelState is the mutable context threaded through one channel's parse.
// Channels never share state.
type channelState struct {
	tempo      float64
	octave     int
	defaultLen int
	volume     float64
	tiePending bool
}

func newChannelState(cfg ParserConfig) *channelState {
	return &channelState{
		tempo:      cfg.DefaultTempo,
		octave:     cfg.DefaultOctave,
		defaultLen: cfg.DefaultLength,
		volume:     cfg.DefaultVolume,
	}
}

func (p *Parser) parseChannel(input string) Channel {
	st := newChannelState(p.cfg)
	events := make([]NoteEvent, 0, 64)
	i := 0
	for i < len(input) {
		ch := lower(input[i])
		i++
		switch {
		case isSpace(ch) || ch == ',':
			// separators
		case ch == 't':
			if n, next, ok := readNumber(input, i); ok {
				if n > 0 {
					st.tempo = float64(n)
				}
				i = next
			}
		case ch == 'o':
			if n, next, ok := readNumber(input, i); ok {
				st.octave = n
				i = next
			}
		case ch == 'l':
			if n, next, ok := readNumber(input, i); ok {
				if n > 0 {
					st.defaultLen = n
				}
				i = next
			}
		case ch == 'v':
			if n, next, ok := readNumber(input, i); ok {
				st.volume = clampUnit(float64(n) / volumeMax)
				i = next
			}
		case ch == '>':
			st.octave++
		case ch == '<':
			st.octave--
		case ch == 'r':
			dur, next := readDuration(input, i, st)
			i = next
			events = append(events, NoteEvent{Rest: true, Duration: dur})
			st.tiePending = false
		case ch == 'n':
			n, next, ok := readNumber(input, i)
			if !ok {
				continue // bare n with no semitone index emits nothing
			}
			i = next
			dur, next := readDuration(input, i, st)
			i = next
			events = appendOrTie(events, st, NumericFrequency(n), dur)
		case isNoteLetter(ch):
			accidental := 0
			if i < len(input) && (input[i] == '+' || input[i] == '#') {
				accidental++
				i++
			} else if i < len(input) && input[i] == '-' {
				accidental--
				i++
			}
			dur, next := readDuration(input, i, st)
			i = next
			tie := false
			if i < len(input) && input[i] == '&' {
				tie = true
				i++
			}
			freq, _ := LetterFrequency(ch, accidental, st.octave)
			events = appendOrTie(events, st, freq, dur)
			// a trailing & arms the tie for the following note only
			st.tiePending = tie
		default:
			// unknown input is skipped, not rejected
		}
	}
	return Channel{Events: events, Tempo: st.tempo}
}

// appendOrTie applies the tie-merge rule: a pending tie extends the previous
// event in place when the frequency matches, otherwise a new event is
// appended. The pending flag is cleared by every merge decision.
func appendOrTie(events []NoteEvent, st *channelState, freq, dur float64) []NoteEvent {
	if st.tiePending {
		st.tiePending = false
		if n := len(events); n > 0 && !events[n-1].Rest && events[n-1].Frequency == freq {
			events[n-1].Duration += dur
			return events
		}
	}
	return append(events, NoteEvent{Frequency: freq, Duration: dur, Volume: st.volume})
}

// readDuration reads an optional explicit length denominator and an optional
// dot, falling back to the channel's default length. The result is always
// positive: explicit zero denominators fall back to the default as well.
func readDuration(input string, i int, st *channelState) (float64, int) {
	denom := st.defaultLen
	if n, next, ok := readNumber(input, i); ok {
		if n > 0 {
			denom = n
		}
		i = next
	}
	// denominator and tempo are kept positive above, so this cannot fail
	dur, _ := LengthSeconds(denom, st.tempo)
	if i < len(input) && input[i] == '.' {
		dur *= 1.5
		i++
	}
	return dur, i
}

// readNumber reads a greedy run of digits starting at i.
func readNumber(s string, i int) (value int, next int, ok bool) {
	start := i
	for i < len(s) && isDigit(s[i]) {
		value = value*10 + int(s[i]-'0')
		i++
	}
	return value, i, i > start
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isNoteLetter(b byte) bool { return b >= 'a' && b <= 'g' }

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
