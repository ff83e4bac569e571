//go:build !linux

package actuator

import "errors"

// DefaultUinputPath is unused outside Linux.
const DefaultUinputPath = ""

// Uinput is only available on Linux.
type Uinput struct{}

// NewUinput always fails outside Linux.
func NewUinput(path, name string) (*Uinput, error) {
	return nil, errors.New("uinput backend is only supported on linux")
}

// SetKey is never reached outside Linux.
func (u *Uinput) SetKey(key string, pressed bool) error {
	return errors.ErrUnsupported
}

// Close is a no-op.
func (u *Uinput) Close() error {
	return nil
}
