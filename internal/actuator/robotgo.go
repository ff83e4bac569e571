package actuator

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// Robotgo injects keys through robotgo, which drives X11, Quartz or
// SendInput depending on the platform.
type Robotgo struct{}

// NewRobotgo creates a robotgo backend.
func NewRobotgo() *Robotgo {
	return &Robotgo{}
}

// SetKey toggles key down or up.
func (r *Robotgo) SetKey(key string, pressed bool) error {
	dir := "up"
	if pressed {
		dir = "down"
	}
	if err := robotgo.KeyToggle(key, dir); err != nil {
		return fmt.Errorf("robotgo key %s %s: %w", key, dir, err)
	}
	return nil
}

// Close is a no-op.
func (r *Robotgo) Close() error {
	return nil
}
