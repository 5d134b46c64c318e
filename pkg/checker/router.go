package checker

import (
	"fmt"
	"io"

	"github.com/bft-labs/nmeacheck/pkg/nmea"
)

// Console trace markers.
const (
	MarkerValid   = "  checksum is ok: "
	MarkerInvalid = "# checksum wrong: "
)

// Sink is a buffered byte destination.
type Sink interface {
	io.Writer
	Flush() error
}

// Sinks groups the destinations a Router writes to. Nil sinks are skipped.
type Sinks struct {
	// Output receives valid sentences verbatim.
	Output Sink

	// All, OK and Wrong are the audit sinks.
	All   Sink
	OK    Sink
	Wrong Sink

	// Console receives the human readable trace.
	Console io.Writer
}

// SinkError reports a failed write or flush on a named sink.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("checker: %s sink: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// Disposition is the outcome of processing one line.
type Disposition int

const (
	Dropped Disposition = iota
	Valid
	Invalid
)

func (d Disposition) String() string {
	switch d {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "dropped"
	}
}

// Router dispatches classified sentences to sinks.
type Router struct {
	sinks Sinks
}

// NewRouter returns a Router writing to sinks.
func NewRouter(sinks Sinks) *Router {
	return &Router{sinks: sinks}
}

// Route classifies s and writes it to the sinks. stamp prefixes every line
// except the one sent to Output.
func (r *Router) Route(s nmea.Sentence, stamp string) (Disposition, error) {
	d := Invalid
	if s.Valid() {
		d = Valid
	}

	if d == Valid {
		if err := r.trace(MarkerValid, stamp, s.Text); err != nil {
			return d, err
		}
		if err := write("output", r.sinks.Output, "", s.Text); err != nil {
			return d, err
		}
		if err := write("ok", r.sinks.OK, stamp, s.Text); err != nil {
			return d, err
		}
	} else {
		if err := r.trace(MarkerInvalid, stamp, s.Text); err != nil {
			return d, err
		}
		if err := write("wrong", r.sinks.Wrong, stamp, s.Text); err != nil {
			return d, err
		}
	}

	if err := write("all", r.sinks.All, stamp, s.Text); err != nil {
		return d, err
	}
	return d, nil
}

// Flush flushes every configured sink.
func (r *Router) Flush() error {
	for _, ns := range r.named() {
		if ns.sink == nil {
			continue
		}
		if err := ns.sink.Flush(); err != nil {
			return &SinkError{Sink: ns.name, Err: err}
		}
	}
	return nil
}

type namedSink struct {
	name string
	sink Sink
}

func (r *Router) named() []namedSink {
	return []namedSink{
		{"output", r.sinks.Output},
		{"all", r.sinks.All},
		{"ok", r.sinks.OK},
		{"wrong", r.sinks.Wrong},
	}
}

func (r *Router) trace(marker, stamp string, text []byte) error {
	if r.sinks.Console == nil {
		return nil
	}
	if _, err := fmt.Fprintf(r.sinks.Console, "%s%s%s", marker, stamp, text); err != nil {
		return &SinkError{Sink: "console", Err: err}
	}
	return nil
}

func write(name string, sink Sink, stamp string, text []byte) error {
	if sink == nil {
		return nil
	}
	if stamp != "" {
		if _, err := io.WriteString(sink, stamp); err != nil {
			return &SinkError{Sink: name, Err: err}
		}
	}
	if _, err := sink.Write(text); err != nil {
		return &SinkError{Sink: name, Err: err}
	}
	return nil
}
