package nmea

import (
	"errors"
	"fmt"
	"io"
)

const (
	// DefaultMaxLineLength is the number of bytes stored per line before the
	// line is cut, not counting the line feed.
	DefaultMaxLineLength = 250

	// MaxLineLengthLimit bounds WithMaxLength.
	MaxLineLengthLimit = 4096

	lineFeed = 0x0a
	nul      = 0x00
)

// ErrEndOfStream indicates the source has no more bytes.
var ErrEndOfStream = io.EOF

// SourceError wraps a read failure other than end of stream.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("nmea: read source: %v", e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// OverflowPolicy decides what happens to bytes read after a line reached its cap.
type OverflowPolicy int

const (
	// OverflowSplit returns the capped line immediately. Bytes up to the next
	// line feed become the start of the following line.
	OverflowSplit OverflowPolicy = iota

	// OverflowDiscard returns the capped line once the next line feed has been
	// consumed. Bytes in between are dropped and the line feed is kept.
	OverflowDiscard
)

// String returns the configuration name of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowSplit:
		return "split"
	case OverflowDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// ParseOverflowPolicy maps a configuration name to a policy.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "split":
		return OverflowSplit, nil
	case "discard":
		return OverflowDiscard, nil
	}
	return OverflowSplit, fmt.Errorf("unknown overflow policy %q", s)
}

// RawLine is one framed line.
type RawLine struct {
	// Bytes holds the stored bytes, including the line feed when Terminated.
	Bytes []byte

	// Terminated is true when the line ended with a line feed.
	Terminated bool

	// Truncated is true when the line reached the cap. Under OverflowSplit
	// this is reported whenever the cap is hit before a line feed; under
	// OverflowDiscard only when at least one byte was dropped.
	Truncated bool

	// Discarded counts bytes dropped under OverflowDiscard.
	Discarded int
}

// FramerOption configures a Framer.
type FramerOption func(*Framer)

// WithMaxLength sets the per-line cap. Values outside 1..MaxLineLengthLimit are ignored.
func WithMaxLength(n int) FramerOption {
	return func(f *Framer) {
		if n > 0 && n <= MaxLineLengthLimit {
			f.max = n
		}
	}
}

// WithOverflow sets the overflow policy.
func WithOverflow(p OverflowPolicy) FramerOption {
	return func(f *Framer) {
		f.overflow = p
	}
}

// Framer splits a byte source into lines. It is not safe for concurrent use.
type Framer struct {
	src      io.ByteReader
	max      int
	overflow OverflowPolicy
	buf      []byte
}

// NewFramer returns a Framer reading from src.
func NewFramer(src io.ByteReader, opts ...FramerOption) *Framer {
	f := &Framer{
		src:      src,
		max:      DefaultMaxLineLength,
		overflow: OverflowSplit,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.buf = make([]byte, 0, f.max+1)
	return f
}

// MaxLength returns the per-line cap in use.
func (f *Framer) MaxLength() int { return f.max }

// Next reads the next line. The returned bytes are only valid until the next
// call. On ErrEndOfStream the partially read line, if any, is returned along
// with the error and must not be treated as a complete line.
func (f *Framer) Next() (RawLine, error) {
	f.buf = f.buf[:0]

	for len(f.buf) < f.max {
		b, err := f.readByte()
		if err != nil {
			return RawLine{Bytes: f.buf}, err
		}
		if b == nul {
			continue
		}
		f.buf = append(f.buf, b)
		if b == lineFeed {
			return RawLine{Bytes: f.buf, Terminated: true}, nil
		}
	}

	if f.overflow == OverflowSplit {
		return RawLine{Bytes: f.buf, Truncated: true}, nil
	}

	discarded := 0
	for {
		b, err := f.readByte()
		if err != nil {
			return RawLine{Bytes: f.buf, Truncated: discarded > 0, Discarded: discarded}, err
		}
		if b == lineFeed {
			f.buf = append(f.buf, lineFeed)
			return RawLine{Bytes: f.buf, Terminated: true, Truncated: discarded > 0, Discarded: discarded}, nil
		}
		if b != nul {
			discarded++
		}
	}
}

func (f *Framer) readByte() (byte, error) {
	b, err := f.src.ReadByte()
	if err == nil {
		return b, nil
	}
	if errors.Is(err, io.EOF) {
		return 0, ErrEndOfStream
	}
	return 0, &SourceError{Err: err}
}
