package checker

import (
	"context"
	"errors"
	"io"

	"github.com/bft-labs/nmeacheck/pkg/log"
	"github.com/bft-labs/nmeacheck/pkg/nmea"
)

// Checker is the read-validate-route loop over a single source.
// It is not safe for concurrent use.
type Checker struct {
	framer *nmea.Framer
	router *Router
	opts   options
	stats  Stats
}

// New returns a Checker reading from src and writing to sinks.
func New(src io.ByteReader, sinks Sinks, opts ...Option) *Checker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Checker{
		framer: nmea.NewFramer(src, o.framer...),
		router: NewRouter(sinks),
		opts:   o,
	}
}

// Run processes lines until the source ends, ctx is done or a source or sink
// fails. It returns nil on end of stream. When ctx is cancelled while a read
// is blocked, the caller must close the source to unblock it; the resulting
// read error is then reported as ctx.Err().
func (c *Checker) Run(ctx context.Context) error {
	c.stats.StartedAt = c.opts.clock()
	defer func() { c.stats.EndedAt = c.opts.clock() }()

	c.opts.logger.Info("checker started",
		log.Bool("timestamps", c.opts.timestamps),
		log.Int("max_line", c.framer.MaxLength()),
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := c.Step()
		if err == nil {
			continue
		}
		if errors.Is(err, nmea.ErrEndOfStream) {
			c.opts.logger.Info("end of stream")
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil && isSourceError(err) {
			return ctxErr
		}
		return err
	}
}

// Step reads and processes a single line.
func (c *Checker) Step() (Disposition, error) {
	line, err := c.framer.Next()
	if err != nil {
		if len(line.Bytes) > 0 && errors.Is(err, nmea.ErrEndOfStream) {
			c.opts.logger.Debug("unterminated line discarded at end of stream",
				log.Int("bytes", len(line.Bytes)),
			)
		}
		return Dropped, err
	}

	ev := Event{
		ReadAt:    c.opts.clock(),
		Truncated: line.Truncated,
		Discarded: line.Discarded,
	}
	if line.Truncated {
		c.opts.logger.Warn("line truncated",
			log.Int("max_line", c.framer.MaxLength()),
			log.Int("discarded", line.Discarded),
		)
	}

	var stamp string
	if c.opts.timestamps {
		stamp = nmea.FormatTimestamp(ev.ReadAt)
	}

	s, err := nmea.Extract(line.Bytes)
	if err != nil {
		ev.Disposition = Dropped
		ev.Reason = dropReason(line, err)
		c.opts.logger.Debug("line dropped",
			log.String("reason", ev.Reason),
			log.Int("bytes", len(line.Bytes)),
		)
		c.emit(ev)
		return Dropped, nil
	}

	d, err := c.router.Route(s, stamp)
	if err != nil {
		return d, err
	}
	if err := c.router.Flush(); err != nil {
		return d, err
	}

	ev.Disposition = d
	ev.Text = s.Text
	ev.Claimed = s.Claimed
	ev.Computed = s.Computed()
	if d == Invalid {
		c.opts.logger.Debug("checksum mismatch",
			log.Hex("claimed", ev.Claimed),
			log.Hex("computed", ev.Computed),
		)
	}
	c.emit(ev)
	return d, nil
}

// Stats returns the counters collected so far.
func (c *Checker) Stats() Stats {
	return c.stats
}

func (c *Checker) emit(ev Event) {
	c.stats.record(ev)
	if c.opts.handler != nil {
		c.opts.handler.OnLine(ev)
	}
}

func dropReason(line nmea.RawLine, err error) string {
	switch {
	case errors.Is(err, nmea.ErrMisordered):
		return ReasonMisordered
	case len(line.Bytes) == 0 || (len(line.Bytes) == 1 && line.Terminated):
		return ReasonEmpty
	default:
		return ReasonNoSentence
	}
}

func isSourceError(err error) bool {
	var srcErr *nmea.SourceError
	return errors.As(err, &srcErr)
}
