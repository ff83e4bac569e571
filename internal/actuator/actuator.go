// Package actuator holds and releases the virtual gas and brake keys.
//
// The edge-triggered policy in Apply guarantees that a key is released
// before another is pressed, so at most one of the two keys is ever held.
package actuator

import (
	"errors"
	"fmt"

	"github.com/ayusman/palmdrive/internal/gesture"
)

// ErrUnknownKey is returned by backends that cannot map a key name.
var ErrUnknownKey = errors.New("unknown key")

// Actuator synthesizes OS-level key events.
type Actuator interface {
	// SetKey presses (pressed=true) or releases a named key.
	SetKey(key string, pressed bool) error

	// Close releases any resources held by the backend.
	Close() error
}

// State is the gesture whose key is currently applied.
type State = gesture.State

// None is the applied state before the first frame has been handled.
const None State = ""

// Keys names the keys bound to the two driving gestures.
type Keys struct {
	Gas   string
	Brake string
}

// DefaultKeys returns the arrow-key bindings used by most browser racers.
func DefaultKeys() Keys {
	return Keys{Gas: "right", Brake: "left"}
}

// For returns the key held while s is applied, or "" if s holds nothing.
func (k Keys) For(s State) string {
	switch s {
	case gesture.Gas:
		return k.Gas
	case gesture.Brake:
		return k.Brake
	default:
		return ""
	}
}

// Apply moves the actuator from prev to next and returns the new applied
// state. A repeated state is a no-op. On a change the key held for prev is
// released before the key for next is pressed.
//
// If the release fails prev is returned unchanged. If the press fails the
// returned state is Neutral, since nothing is held at that point.
func Apply(a Actuator, keys Keys, prev, next State) (State, error) {
	if next == prev {
		return prev, nil
	}

	if held := keys.For(prev); held != "" {
		if err := a.SetKey(held, false); err != nil {
			return prev, fmt.Errorf("release %s: %w", held, err)
		}
	}

	if key := keys.For(next); key != "" {
		if err := a.SetKey(key, true); err != nil {
			return gesture.Neutral, fmt.Errorf("press %s: %w", key, err)
		}
	}

	return next, nil
}

// ReleaseAll releases both keys regardless of the applied state. Both
// releases are attempted even if the first one fails.
func ReleaseAll(a Actuator, keys Keys) error {
	var errs []error
	for _, key := range []string{keys.Gas, keys.Brake} {
		if key == "" {
			continue
		}
		if err := a.SetKey(key, false); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
