package nmea

import (
	"bytes"
	"errors"
)

const (
	startDelimiter    = '$'
	checksumDelimiter = '*'
)

var (
	// ErrNoSentence is returned by Extract when a line lacks '$' or '*'.
	ErrNoSentence = errors.New("nmea: no sentence in line")

	// ErrMisordered is returned by Extract when the first '*' precedes the first '$'.
	ErrMisordered = errors.New("nmea: checksum delimiter before sentence start")
)

// Sentence is a view over a terminated raw line that holds a sentence.
// The slices alias the line passed to Extract.
type Sentence struct {
	// Text runs from '$' through the end of the line, terminator included.
	Text []byte

	// Payload is the region strictly between '$' and '*'.
	Payload []byte

	// Start is the index of '$' in the raw line.
	Start int

	// End is the index of '*' in the raw line.
	End int

	// Claimed is the checksum written after '*'.
	Claimed byte
}

// Extract locates the sentence in line. The first '$' and the first '*' are
// used. The claimed checksum is read from at most two characters following
// '*'; parsing stops at the first non-hexadecimal character, so "*G1" claims 0
// and "*1G" claims 1.
func Extract(line []byte) (Sentence, error) {
	start := bytes.IndexByte(line, startDelimiter)
	end := bytes.IndexByte(line, checksumDelimiter)
	if start < 0 || end < 0 {
		return Sentence{}, ErrNoSentence
	}
	if start > end {
		return Sentence{}, ErrMisordered
	}

	return Sentence{
		Text:    line[start:],
		Payload: line[start+1 : end],
		Start:   start,
		End:     end,
		Claimed: parseClaimed(line[end+1:]),
	}, nil
}

// Computed returns the checksum of the payload.
func (s Sentence) Computed() byte {
	return Checksum(s.Payload)
}

// Valid reports whether the claimed checksum matches the payload.
func (s Sentence) Valid() bool {
	return s.Computed()^s.Claimed == 0
}

func parseClaimed(b []byte) byte {
	var v byte
	for i := 0; i < len(b) && i < 2; i++ {
		d, ok := hexDigit(b[i])
		if !ok {
			break
		}
		v = v<<4 | d
	}
	return v
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
