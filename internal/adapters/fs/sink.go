package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Audit log kinds, used as file name suffixes.
const (
	AuditAll   = "all"
	AuditOK    = "ok"
	AuditWrong = "wrong"
)

// AuditPath returns <dir>/<prefix>_<kind>.log.
func AuditPath(dir, prefix, kind string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", prefix, kind))
}

// Rotation enables size based rotation of a sink.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
}

// Enabled reports whether rotation is configured.
func (r Rotation) Enabled() bool { return r.MaxSizeMB > 0 }

// FileSink is a buffered file writer. Writes are held until Flush.
type FileSink struct {
	path string
	dst  io.WriteCloser
	w    *bufio.Writer

	closeOnce sync.Once
	closeErr  error
}

// CreateSink creates or truncates path.
func CreateSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return newFileSink(path, f), nil
}

// CreateRotatingSink truncates path and hands it to a size rotating writer.
// The file is opened once up front so that an unwritable location fails here
// rather than on the first write.
func CreateRotatingSink(path string, rot Rotation) (*FileSink, error) {
	if !rot.Enabled() {
		return CreateSink(path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		LocalTime:  true,
	}
	return newFileSink(path, lj), nil
}

func newFileSink(path string, dst io.WriteCloser) *FileSink {
	return &FileSink{path: path, dst: dst, w: bufio.NewWriter(dst)}
}

func (s *FileSink) Write(p []byte) (int, error) { return s.w.Write(p) }

// Flush writes buffered data to the file.
func (s *FileSink) Flush() error { return s.w.Flush() }

// Name returns the sink path.
func (s *FileSink) Name() string { return s.path }

// Close flushes and closes the file. Safe to call more than once.
func (s *FileSink) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = errors.Join(s.w.Flush(), s.dst.Close())
	})
	return s.closeErr
}
