package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/nmeacheck/pkg/log"
)

// DefaultFollowPoll is how often a followed file is re-read when no
// filesystem event arrives.
const DefaultFollowPoll = time.Second

// SourceOptions configures a FileSource.
type SourceOptions struct {
	// Follow keeps reading after end of file, waiting for appended data.
	Follow bool

	// FollowPoll is the fallback re-read interval in follow mode.
	FollowPoll time.Duration

	Logger log.Logger
}

// FileSource reads a regular file byte by byte. In follow mode it blocks at
// end of file until the file grows, is removed, or the source is closed.
type FileSource struct {
	path   string
	f      *os.File
	r      *bufio.Reader
	opts   SourceOptions
	logger log.Logger

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// OpenSource opens path for sequential reading.
func OpenSource(path string, opts SourceOptions) (*FileSource, error) {
	if opts.FollowPoll <= 0 {
		opts.FollowPoll = DefaultFollowPoll
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}

	s := &FileSource{
		path:   filepath.Clean(path),
		f:      f,
		r:      bufio.NewReader(f),
		opts:   opts,
		logger: logger,
		done:   make(chan struct{}),
	}

	if opts.Follow {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("follow %s: %w", path, err)
		}
		if err := w.Add(filepath.Dir(s.path)); err != nil {
			w.Close()
			f.Close()
			return nil, fmt.Errorf("follow %s: %w", path, err)
		}
		s.watcher = w
	}
	return s, nil
}

// ReadByte implements io.ByteReader.
func (s *FileSource) ReadByte() (byte, error) {
	for {
		b, err := s.r.ReadByte()
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, io.EOF) || s.watcher == nil {
			return 0, err
		}
		if err := s.waitForData(); err != nil {
			return 0, err
		}
	}
}

func (s *FileSource) waitForData() error {
	ticker := time.NewTicker(s.opts.FollowPoll)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return os.ErrClosed

		case <-ticker.C:
			return nil

		case event, ok := <-s.watcher.Events:
			if !ok {
				return os.ErrClosed
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				s.logger.Info("followed input removed", log.String("path", s.path))
				return io.EOF
			}
			if event.Op&fsnotify.Write != 0 {
				return nil
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return os.ErrClosed
			}
			s.logger.Warn("follow watcher error", log.Err(err))
		}
	}
}

// Name returns the path being read.
func (s *FileSource) Name() string { return s.path }

// Close releases the file and the watcher. It may be called from another
// goroutine to unblock a pending ReadByte, and more than once.
func (s *FileSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		var errs []error
		if s.watcher != nil {
			errs = append(errs, s.watcher.Close())
		}
		errs = append(errs, s.f.Close())
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
