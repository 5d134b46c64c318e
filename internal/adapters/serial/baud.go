// Package serial opens character devices as raw 8N1 byte streams.
package serial

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"
)

// DefaultBaud is the NMEA 0183 line speed.
const DefaultBaud = 4800

var supportedBauds = []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400}

// ErrUnsupported is returned on platforms without termios support.
var ErrUnsupported = errors.New("serial: devices not supported on this platform")

// SupportedBaud reports whether rate can be configured.
func SupportedBaud(rate int) bool {
	for _, b := range supportedBauds {
		if b == rate {
			return true
		}
	}
	return false
}

// Port is an open, configured character device.
type Port struct {
	path  string
	slave string
	f     *os.File
	r     *bufio.Reader

	closeOnce sync.Once
	closeErr  error
}

// ReadByte blocks until one byte is available.
func (p *Port) ReadByte() (byte, error) {
	return p.r.ReadByte()
}

// Write sends p to the device unbuffered.
func (p *Port) Write(b []byte) (int, error) {
	return p.f.Write(b)
}

// Flush is a no-op; writes are not buffered.
func (p *Port) Flush() error { return nil }

// Name returns the device path.
func (p *Port) Name() string { return p.path }

// Slave returns the pseudo-terminal slave path when the port is a ptmx master.
func (p *Port) Slave() string { return p.slave }

// Close releases the device. Safe to call more than once and from another
// goroutine to unblock a pending read.
func (p *Port) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.f.Close()
	})
	return p.closeErr
}

func checkBaud(rate int) error {
	if !SupportedBaud(rate) {
		return fmt.Errorf("serial: unsupported baud rate %d", rate)
	}
	return nil
}
