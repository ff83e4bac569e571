//go:build linux

package actuator

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// uinput ioctl requests (from <linux/uinput.h>).
const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502

	busUSB            = 0x03
	uinputMaxNameSize = 80
	absCnt            = 64
)

// DefaultUinputPath is where the uinput module exposes its control node.
const DefaultUinputPath = "/dev/uinput"

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputUserDev mirrors struct uinput_user_dev.
type uinputUserDev struct {
	Name       [uinputMaxNameSize]byte
	ID         inputID
	EffectsMax uint32
	Absmax     [absCnt]int32
	Absmin     [absCnt]int32
	Absfuzz    [absCnt]int32
	Absflat    [absCnt]int32
}

// Uinput injects keys through a virtual keyboard created with /dev/uinput.
// It works under Wayland and on the console, where X11 injection does not.
type Uinput struct {
	mu   sync.Mutex
	f    *os.File
	name string
}

// NewUinput creates a virtual keyboard device named name.
func NewUinput(path, name string) (*Uinput, error) {
	if path == "" {
		path = DefaultUinputPath
	}
	f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	fd := int(f.Fd())

	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, fmt.Errorf("UI_SET_EVBIT: %w", err)
	}
	for _, code := range keyCodes {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			f.Close()
			return nil, fmt.Errorf("UI_SET_KEYBIT %d: %w", code, err)
		}
	}

	var dev uinputUserDev
	copy(dev.Name[:uinputMaxNameSize-1], name)
	dev.ID = inputID{Bustype: busUSB, Vendor: 0x1209, Product: 0x5044, Version: 1}
	if err := binary.Write(f, binary.NativeEndian, &dev); err != nil {
		f.Close()
		return nil, fmt.Errorf("write device descriptor: %w", err)
	}

	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("UI_DEV_CREATE: %w", err)
	}

	return &Uinput{f: f, name: name}, nil
}

// SetKey writes a key event to the virtual keyboard.
func (u *Uinput) SetKey(key string, pressed bool) error {
	code, ok := KeyCode(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.f == nil {
		return fmt.Errorf("uinput device %q is closed", u.name)
	}
	return writeKeyEvent(u.f, code, pressed, time.Now())
}

// Close destroys the virtual keyboard.
func (u *Uinput) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.f == nil {
		return nil
	}
	unix.IoctlSetInt(int(u.f.Fd()), uiDevDestroy, 0)
	err := u.f.Close()
	u.f = nil
	return err
}
