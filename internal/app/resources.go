package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bft-labs/nmeacheck/internal/adapters/fs"
	"github.com/bft-labs/nmeacheck/internal/adapters/serial"
	"github.com/bft-labs/nmeacheck/internal/cliconfig"
	"github.com/bft-labs/nmeacheck/pkg/checker"
	"github.com/bft-labs/nmeacheck/pkg/log"
)

// ErrStartup marks failures to acquire a source or sink.
var ErrStartup = errors.New("startup failed")

// Kind is how a path is opened.
type Kind int

const (
	KindFile Kind = iota
	KindDevice
)

func (k Kind) String() string {
	if k == KindDevice {
		return "device"
	}
	return "file"
}

// Classify decides whether path is opened as a file or a character device.
// Paths that cannot be stat'ed are treated as files so that outputs can be
// created; other special files are rejected.
func Classify(path string) (Kind, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return KindFile, nil
	}
	mode := fi.Mode()
	switch {
	case mode.IsRegular():
		return KindFile, nil
	case mode&os.ModeCharDevice != 0:
		return KindDevice, nil
	}
	return KindFile, fmt.Errorf("file or device %q not found", path)
}

// Source is an open input.
type Source interface {
	io.ByteReader
	io.Closer
	Name() string
}

// Sink is an open output or audit log.
type Sink interface {
	checker.Sink
	io.Closer
	Name() string
}

// Resources owns every opened source and sink. Close releases all of them
// exactly once, in reverse acquisition order.
type Resources struct {
	Input     Source
	InputKind Kind
	Output    Sink
	All       Sink
	OK        Sink
	Wrong     Sink

	logger  log.Logger
	opened  []io.Closer
	names   []string
	once    sync.Once
	closeEr error
}

// Open acquires the input, the optional output and, when enabled, the three
// audit logs. On failure everything acquired so far is released and the
// returned error wraps ErrStartup.
func Open(cfg cliconfig.Config, logger log.Logger) (res *Resources, err error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	res = &Resources{logger: logger}
	defer func() {
		if err != nil {
			if cerr := res.Close(); cerr != nil {
				logger.Warn("release after startup failure", log.Err(cerr))
			}
			res = nil
			err = fmt.Errorf("%w: %w", ErrStartup, err)
		}
	}()

	if err := res.openInput(cfg); err != nil {
		return res, err
	}
	if cfg.Output != "" {
		if err := res.openOutput(cfg); err != nil {
			return res, err
		}
	}
	if cfg.Audit {
		if err := res.openAudit(cfg); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (r *Resources) openInput(cfg cliconfig.Config) error {
	kind, err := Classify(cfg.Input)
	if err != nil {
		return err
	}
	r.InputKind = kind

	switch kind {
	case KindDevice:
		if cfg.Follow {
			r.logger.Warn("follow ignored for device input", log.String("path", cfg.Input))
		}
		r.logger.Info("opening device for input", log.String("path", cfg.Input), log.Int("baud", cfg.Baud))
		p, err := serial.OpenInput(cfg.Input, cfg.Baud)
		if err != nil {
			return err
		}
		r.Input = p
		r.track(p, p.Name())
	default:
		r.logger.Info("opening file for input", log.String("path", cfg.Input), log.Bool("follow", cfg.Follow))
		f, err := fs.OpenSource(cfg.Input, fs.SourceOptions{
			Follow:     cfg.Follow,
			FollowPoll: cfg.FollowPoll,
			Logger:     r.logger,
		})
		if err != nil {
			return err
		}
		r.Input = f
		r.track(f, f.Name())
	}
	return nil
}

func (r *Resources) openOutput(cfg cliconfig.Config) error {
	kind, err := Classify(cfg.Output)
	if err != nil {
		return err
	}

	if kind == KindDevice {
		r.logger.Info("opening device for output", log.String("path", cfg.Output), log.Int("baud", cfg.Baud))
		p, err := serial.OpenOutput(cfg.Output, cfg.Baud)
		if err != nil {
			return err
		}
		if p.Slave() != "" {
			r.logger.Info("pseudo-terminal output", log.String("slave", p.Slave()))
		}
		r.Output = p
		r.track(p, p.Name())
		return nil
	}

	r.logger.Info("opening file for output", log.String("path", cfg.Output))
	s, err := fs.CreateSink(cfg.Output)
	if err != nil {
		return err
	}
	r.Output = s
	r.track(s, s.Name())
	return nil
}

func (r *Resources) openAudit(cfg cliconfig.Config) error {
	rot := fs.Rotation{MaxSizeMB: cfg.AuditMaxSizeMB, MaxBackups: cfg.AuditMaxBackups}
	for _, target := range []struct {
		kind string
		dst  *Sink
	}{
		{fs.AuditAll, &r.All},
		{fs.AuditWrong, &r.Wrong},
		{fs.AuditOK, &r.OK},
	} {
		path := fs.AuditPath(cfg.AuditDir, cfg.AuditPrefix, target.kind)
		s, err := fs.CreateRotatingSink(path, rot)
		if err != nil {
			return err
		}
		*target.dst = s
		r.track(s, s.Name())
	}
	r.logger.Info("audit logging enabled",
		log.String("dir", cfg.AuditDir),
		log.String("prefix", cfg.AuditPrefix),
		log.Int("max_size_mb", cfg.AuditMaxSizeMB),
	)
	return nil
}

func (r *Resources) track(c io.Closer, name string) {
	r.opened = append(r.opened, c)
	r.names = append(r.names, name)
}

// Sinks returns the checker view of the open sinks. Unopened sinks stay nil.
func (r *Resources) Sinks(console io.Writer) checker.Sinks {
	s := checker.Sinks{Console: console}
	if r.Output != nil {
		s.Output = r.Output
	}
	if r.All != nil {
		s.All = r.All
	}
	if r.OK != nil {
		s.OK = r.OK
	}
	if r.Wrong != nil {
		s.Wrong = r.Wrong
	}
	return s
}

// CloseInput closes only the input, unblocking a pending read. The input is
// closed again, harmlessly, by Close.
func (r *Resources) CloseInput() error {
	if r.Input == nil {
		return nil
	}
	return r.Input.Close()
}

// Close releases every resource. Subsequent calls return the first result.
func (r *Resources) Close() error {
	r.once.Do(func() {
		var errs []error
		for i := len(r.opened) - 1; i >= 0; i-- {
			if err := r.opened[i].Close(); err != nil && !errors.Is(err, os.ErrClosed) {
				errs = append(errs, fmt.Errorf("close %s: %w", r.names[i], err))
				continue
			}
			r.logger.Debug("closed", log.String("name", r.names[i]))
		}
		r.closeEr = errors.Join(errs...)
	})
	return r.closeEr
}
