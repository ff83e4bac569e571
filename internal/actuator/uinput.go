package actuator

import (
	"encoding/binary"
	"io"
	"strings"
	"time"
)

// Linux input event types and codes (from <linux/input.h>).
const (
	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0
)

// keyCodes maps the key names accepted in config to Linux KEY_* codes.
var keyCodes = map[string]uint16{
	"esc": 1, "enter": 28, "ctrl": 29, "shift": 42, "alt": 56, "space": 57,
	"up": 103, "left": 105, "right": 106, "down": 108,
	"q": 16, "w": 17, "e": 18, "r": 19, "t": 20, "y": 21, "u": 22, "i": 23, "o": 24, "p": 25,
	"a": 30, "s": 31, "d": 32, "f": 33, "g": 34, "h": 35, "j": 36, "k": 37, "l": 38,
	"z": 44, "x": 45, "c": 46, "v": 47, "b": 48, "n": 49, "m": 50,
}

// KeyCode returns the Linux key code for a key name.
func KeyCode(name string) (uint16, bool) {
	code, ok := keyCodes[strings.ToLower(name)]
	return code, ok
}

// inputEvent mirrors struct input_event on 64-bit Linux.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// writeKeyEvent writes a key transition followed by a SYN_REPORT.
func writeKeyEvent(w io.Writer, code uint16, pressed bool, now time.Time) error {
	value := int32(0)
	if pressed {
		value = 1
	}
	sec := now.Unix()
	usec := int64(now.Nanosecond() / 1000)

	events := []inputEvent{
		{Sec: sec, Usec: usec, Type: evKey, Code: code, Value: value},
		{Sec: sec, Usec: usec, Type: evSyn, Code: synReport, Value: 0},
	}
	return binary.Write(w, binary.NativeEndian, events)
}
