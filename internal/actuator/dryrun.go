package actuator

import "log/slog"

// DryRun logs key events instead of injecting them.
type DryRun struct {
	*Recorder
	logger *slog.Logger
}

// NewDryRun creates a DryRun backend that logs through logger.
func NewDryRun(logger *slog.Logger) *DryRun {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRun{Recorder: NewRecorder(), logger: logger}
}

// SetKey logs the event and records it.
func (d *DryRun) SetKey(key string, pressed bool) error {
	action := "up"
	if pressed {
		action = "down"
	}
	d.logger.Info("key", "key", key, "action", action)
	return d.Recorder.SetKey(key, pressed)
}
