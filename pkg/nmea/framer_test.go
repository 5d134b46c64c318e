package nmea

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
)

type failingReader struct{ err error }

func (r failingReader) ReadByte() (byte, error) { return 0, r.err }

func readAll(t *testing.T, f *Framer) ([]RawLine, error) {
	t.Helper()
	var lines []RawLine
	for {
		l, err := f.Next()
		if err != nil {
			return lines, err
		}
		// Bytes alias the framer buffer.
		l.Bytes = append([]byte(nil), l.Bytes...)
		lines = append(lines, l)
	}
}

func TestFramerLines(t *testing.T) {
	f := NewFramer(strings.NewReader("$A*41\r\n\nsecond\n"))
	lines, err := readAll(t, f)
	if !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("err = %v, want ErrEndOfStream", err)
	}
	want := []string{"$A*41\r\n", "\n", "second\n"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, l := range lines {
		if string(l.Bytes) != want[i] {
			t.Errorf("line %d = %q, want %q", i, l.Bytes, want[i])
		}
		if !l.Terminated || l.Truncated {
			t.Errorf("line %d Terminated=%v Truncated=%v", i, l.Terminated, l.Truncated)
		}
	}
}

func TestFramerSkipsNullBytes(t *testing.T) {
	f := NewFramer(strings.NewReader("$G\x00P\x00\x00*00\n"))
	l, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(l.Bytes) != "$GP*00\n" {
		t.Fatalf("line = %q", l.Bytes)
	}
}

func TestFramerNullBytesDoNotCountTowardCap(t *testing.T) {
	f := NewFramer(strings.NewReader("ab\x00\x00\x00cd\n"), WithMaxLength(4))
	l, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(l.Bytes) != "abcd" || !l.Truncated {
		t.Fatalf("line = %q truncated=%v", l.Bytes, l.Truncated)
	}
}

func TestFramerSplitOverflow(t *testing.T) {
	long := strings.Repeat("x", DefaultMaxLineLength)
	f := NewFramer(strings.NewReader(long + "tail\n"))

	first, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if len(first.Bytes) != DefaultMaxLineLength || !first.Truncated || first.Terminated {
		t.Fatalf("first: len=%d truncated=%v terminated=%v", len(first.Bytes), first.Truncated, first.Terminated)
	}

	second, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(second.Bytes) != "tail\n" || second.Truncated {
		t.Fatalf("second = %q truncated=%v", second.Bytes, second.Truncated)
	}
}

func TestFramerTerminatorFitsAfterCap(t *testing.T) {
	line := strings.Repeat("x", DefaultMaxLineLength-1) + "\n"
	f := NewFramer(strings.NewReader(line))
	l, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(l.Bytes) != line || l.Truncated {
		t.Fatalf("len=%d truncated=%v", len(l.Bytes), l.Truncated)
	}
}

func TestFramerDiscardOverflow(t *testing.T) {
	f := NewFramer(strings.NewReader("abcdefgh\nnext\n"), WithMaxLength(4), WithOverflow(OverflowDiscard))

	first, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(first.Bytes) != "abcd\n" || !first.Truncated || first.Discarded != 4 {
		t.Fatalf("first = %q truncated=%v discarded=%d", first.Bytes, first.Truncated, first.Discarded)
	}

	second, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(second.Bytes) != "next\n" {
		t.Fatalf("second = %q", second.Bytes)
	}
}

func TestFramerDiscardExactFit(t *testing.T) {
	f := NewFramer(strings.NewReader("abcd\n"), WithMaxLength(4), WithOverflow(OverflowDiscard))
	l, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(l.Bytes) != "abcd\n" || l.Truncated {
		t.Fatalf("line = %q truncated=%v", l.Bytes, l.Truncated)
	}
}

func TestFramerPartialLineAtEndOfStream(t *testing.T) {
	f := NewFramer(bufio.NewReader(strings.NewReader("$GPXXX*4F")))
	l, err := f.Next()
	if !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("err = %v, want ErrEndOfStream", err)
	}
	if string(l.Bytes) != "$GPXXX*4F" {
		t.Fatalf("partial = %q", l.Bytes)
	}
}

func TestFramerSourceError(t *testing.T) {
	boom := errors.New("device unplugged")
	f := NewFramer(failingReader{err: boom})
	_, err := f.Next()

	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("err = %v, want *SourceError", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err does not wrap cause: %v", err)
	}
	if errors.Is(err, io.EOF) {
		t.Fatal("source error must not look like end of stream")
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    OverflowPolicy
		wantErr bool
	}{
		{"", OverflowSplit, false},
		{"split", OverflowSplit, false},
		{"discard", OverflowDiscard, false},
		{"drop", OverflowSplit, true},
	}
	for _, tt := range tests {
		got, err := ParseOverflowPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOverflowPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseOverflowPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
