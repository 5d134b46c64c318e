package checker

import (
	"time"

	"github.com/bft-labs/nmeacheck/pkg/log"
	"github.com/bft-labs/nmeacheck/pkg/nmea"
)

// Option configures a Checker.
type Option func(*options)

type options struct {
	logger     log.Logger
	handler    EventHandler
	timestamps bool
	clock      func() time.Time
	framer     []nmea.FramerOption
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
		clock:  time.Now,
	}
}

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler registers a per-line callback.
func WithEventHandler(h EventHandler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// WithTimestamps prefixes console and audit lines with the local time the
// line finished reading. Output sink bytes are never stamped.
func WithTimestamps(enabled bool) Option {
	return func(o *options) {
		o.timestamps = enabled
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithFraming passes options to the underlying nmea.Framer.
func WithFraming(opts ...nmea.FramerOption) Option {
	return func(o *options) {
		o.framer = append(o.framer, opts...)
	}
}
