//go:build linux

package serial

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

var speeds = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

// OpenInput opens a device for reading: raw 8N1, reads block until one byte arrives.
func OpenInput(path string, baud int) (*Port, error) {
	return open(path, baud, 1, false)
}

// OpenOutput opens a device for writing. A /dev/ptmx master is unlocked so the
// slave side can be opened by a consumer; see Port.Slave.
func OpenOutput(path string, baud int) (*Port, error) {
	return open(path, baud, 0, filepath.Base(path) == "ptmx")
}

func open(path string, baud int, vmin uint8, pty bool) (*Port, error) {
	if err := checkBaud(baud); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open device %s: %w", path, err)
	}

	p := &Port{path: path, f: f, r: bufio.NewReader(f)}

	// SyscallConn keeps the descriptor non-blocking so Close can interrupt reads.
	rc, err := f.SyscallConn()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("device %s: %w", path, err)
	}
	var cfgErr error
	ctlErr := rc.Control(func(fd uintptr) {
		if pty {
			p.slave, cfgErr = unlockPty(int(fd))
			if cfgErr != nil {
				return
			}
		}
		cfgErr = configure(int(fd), speeds[baud], vmin)
	})
	if ctlErr != nil {
		cfgErr = ctlErr
	}
	if cfgErr != nil {
		f.Close()
		return nil, fmt.Errorf("configure device %s: %w", path, cfgErr)
	}
	return p, nil
}

func configure(fd int, speed uint32, vmin uint8) error {
	t := &unix.Termios{
		Iflag:  unix.IGNPAR,
		Cflag:  speed | unix.CS8 | unix.CLOCAL | unix.CREAD,
		Ispeed: speed,
		Ospeed: speed,
	}
	t.Cc[unix.VEOF] = 4
	t.Cc[unix.VMIN] = vmin
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		return fmt.Errorf("flush input: %w", err)
	}
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("set attributes: %w", err)
	}
	return nil
}

func unlockPty(fd int) (string, error) {
	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		return "", fmt.Errorf("unlock pty: %w", err)
	}
	n, err := unix.IoctlGetUint32(fd, unix.TIOCGPTN)
	if err != nil {
		return "", fmt.Errorf("pty number: %w", err)
	}
	return fmt.Sprintf("/dev/pts/%d", n), nil
}
