package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/nmeacheck/internal/adapters/fs"
	"github.com/bft-labs/nmeacheck/pkg/checker"
)

const (
	goodLine = "$GPGLL,5300.97914,N,00259.98174,E,125926,A*28\r\n"
	badLine  = "$GPXXX*00\n"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t, writeInput(t, goodLine+"garbage\n"+badLine))
	cfg.Output = filepath.Join(t.TempDir(), "out.nmea")
	cfg.Audit = true
	cfg.Timestamp = true
	cfg.StatsFile = filepath.Join(t.TempDir(), "stats.json")

	var console bytes.Buffer
	clock := func() time.Time { return time.Date(2014, 6, 1, 12, 0, 0, 0, time.Local) }

	require.NoError(t, Run(context.Background(), cfg, Options{Console: &console, Clock: clock}))

	stamp := "2014-06-01,12:00:00,"
	assert.Equal(t, goodLine, readFile(t, cfg.Output))
	assert.Equal(t, stamp+goodLine+stamp+badLine, readFile(t, fs.AuditPath(cfg.AuditDir, cfg.AuditPrefix, fs.AuditAll)))
	assert.Equal(t, stamp+goodLine, readFile(t, fs.AuditPath(cfg.AuditDir, cfg.AuditPrefix, fs.AuditOK)))
	assert.Equal(t, stamp+badLine, readFile(t, fs.AuditPath(cfg.AuditDir, cfg.AuditPrefix, fs.AuditWrong)))
	assert.Equal(t, checker.MarkerValid+stamp+goodLine+checker.MarkerInvalid+stamp+badLine, console.String())

	st, err := fs.NewStatsFile(cfg.StatsFile).Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), st.Lines)
	assert.Equal(t, uint64(1), st.Valid)
	assert.Equal(t, uint64(1), st.Invalid)
	assert.Equal(t, uint64(1), st.Dropped)
}

func TestRunQuietSuppressesConsole(t *testing.T) {
	cfg := testConfig(t, writeInput(t, goodLine))
	cfg.Quiet = true

	var console bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, Options{Console: &console}))
	assert.Empty(t, console.String())
}

func TestRunStartupFailure(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing.nmea"))
	err := Run(context.Background(), cfg, Options{})
	assert.ErrorIs(t, err, ErrStartup)
}

func TestRunFollowStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, writeInput(t, goodLine))
	cfg.Follow = true
	cfg.FollowPoll = time.Hour
	cfg.Output = filepath.Join(t.TempDir(), "out.nmea")

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan checker.Event, 4)
	handler := checker.EventHandlerFunc(func(ev checker.Event) { events <- ev })

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, Options{EventHandler: handler})
	}()

	select {
	case ev := <-events:
		assert.Equal(t, checker.Valid, ev.Disposition)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for the first line")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, goodLine, readFile(t, cfg.Output))
}
