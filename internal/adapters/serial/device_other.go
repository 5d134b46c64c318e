//go:build !linux

package serial

// OpenInput is not available on this platform.
func OpenInput(path string, baud int) (*Port, error) {
	return nil, ErrUnsupported
}

// OpenOutput is not available on this platform.
func OpenOutput(path string, baud int) (*Port, error) {
	return nil, ErrUnsupported
}
