package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bft-labs/nmeacheck/internal/adapters/fs"
	"github.com/bft-labs/nmeacheck/internal/cliconfig"
	"github.com/bft-labs/nmeacheck/pkg/checker"
	"github.com/bft-labs/nmeacheck/pkg/log"
	"github.com/bft-labs/nmeacheck/pkg/nmea"
)

// Options carries collaborators that are not part of the configuration.
type Options struct {
	Logger log.Logger

	// Console receives the per-sentence trace; nil disables it.
	Console io.Writer

	// Clock replaces time.Now for timestamps and stats.
	Clock func() time.Time

	// EventHandler, if set, observes every line.
	EventHandler checker.EventHandler
}

// Run opens the configured resources, processes the input until end of
// stream or cancellation and releases everything before returning. It
// returns nil on end of stream and on cancellation.
func Run(ctx context.Context, cfg cliconfig.Config, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	overflow, err := nmea.ParseOverflowPolicy(cfg.Overflow)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}

	res, err := Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("close resources", log.Err(err))
		}
	}()

	// Cancellation closes the input so a blocked read returns.
	stop := context.AfterFunc(ctx, func() {
		_ = res.CloseInput()
	})
	defer stop()

	console := opts.Console
	if cfg.Quiet {
		console = nil
	}

	checkerOpts := []checker.Option{
		checker.WithLogger(logger),
		checker.WithTimestamps(cfg.Timestamp),
		checker.WithFraming(nmea.WithMaxLength(cfg.MaxLine), nmea.WithOverflow(overflow)),
	}
	if opts.Clock != nil {
		checkerOpts = append(checkerOpts, checker.WithClock(opts.Clock))
	}
	if opts.EventHandler != nil {
		checkerOpts = append(checkerOpts, checker.WithEventHandler(opts.EventHandler))
	}

	c := checker.New(res.Input, res.Sinks(console), checkerOpts...)
	runErr := c.Run(ctx)

	st := c.Stats()
	logger.Info("checker finished",
		log.Uint64("lines", st.Lines),
		log.Uint64("valid", st.Valid),
		log.Uint64("invalid", st.Invalid),
		log.Uint64("dropped", st.Dropped),
		log.Uint64("truncated", st.Truncated),
	)
	if cfg.StatsFile != "" {
		if err := fs.NewStatsFile(cfg.StatsFile).Save(st); err != nil {
			logger.Warn("save stats", log.String("path", cfg.StatsFile), log.Err(err))
		}
	}

	if errors.Is(runErr, context.Canceled) {
		logger.Info("stopped")
		return nil
	}
	return runErr
}
