package checker

import "time"

// Drop reasons reported in Event.Reason.
const (
	ReasonNoSentence = "no_sentence"
	ReasonMisordered = "misordered"
	ReasonEmpty      = "empty_line"
)

// Event describes one processed line.
type Event struct {
	Disposition Disposition

	// Reason is set for dropped lines.
	Reason string

	// Text is the routed sentence text; empty for dropped lines. It aliases the
	// framer buffer and is only valid during the callback.
	Text []byte

	Claimed  byte
	Computed byte

	Truncated bool
	Discarded int

	ReadAt time.Time
}

// EventHandler receives one event per line, synchronously from the read loop.
type EventHandler interface {
	OnLine(ev Event)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ev Event)

func (f EventHandlerFunc) OnLine(ev Event) { f(ev) }
