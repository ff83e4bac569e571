// Package app runs the palmdrive control loop: read a frame, find the hand,
// classify it and hold the matching key.
package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/palmdrive/internal/actuator"
	"github.com/ayusman/palmdrive/internal/capture"
	"github.com/ayusman/palmdrive/internal/detector"
	"github.com/ayusman/palmdrive/internal/display"
	"github.com/ayusman/palmdrive/internal/gesture"
	"github.com/ayusman/palmdrive/internal/store"
)

// ExitReason says why Run returned.
type ExitReason string

const (
	// ExitQuit means the quit key was pressed in the debug window.
	ExitQuit ExitReason = "quit"
	// ExitCancelled means the context was cancelled.
	ExitCancelled ExitReason = "cancelled"
	// ExitCaptureFailed means the camera stopped delivering frames.
	ExitCaptureFailed ExitReason = "capture_failed"
	// ExitActuatorFailed means a key could not be pressed or released.
	ExitActuatorFailed ExitReason = "actuator_failed"
)

// Transition is a change of the applied gesture.
type Transition struct {
	Seq     int           `json:"seq"`
	From    gesture.State `json:"from"`
	To      gesture.State `json:"to"`
	Fingers int           `json:"fingers"`
	At      time.Time     `json:"at"`
}

// Observer is notified of every applied transition. It is called on the
// loop goroutine and must not block.
type Observer interface {
	ObserveTransition(t Transition)
}

// FrameSink receives every annotated frame. The frame is only valid for the
// duration of the call.
type FrameSink interface {
	ObserveFrame(frame *gocv.Mat)
}

// Status is a snapshot of the loop for the tray and the status server.
type Status struct {
	State   gesture.State `json:"state"`
	Fingers int           `json:"fingers"`
	Hand    bool          `json:"hand"`
	Frames  int           `json:"frames"`
	Enabled bool          `json:"enabled"`
	Session string        `json:"session,omitempty"`
}

// Config wires the loop to its devices. Camera, Detector and Actuator are
// required; a nil Display runs headless.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Actuator actuator.Actuator
	Display  display.Display

	Keys    actuator.Keys
	QuitKey byte
	Mirror  bool

	// Store enables the session journal when set.
	Store *store.Store

	Logger *slog.Logger
}

// App is the control loop and its shared status.
type App struct {
	config    Config
	logger    *slog.Logger
	observers []Observer
	sinks     []FrameSink

	mu      sync.RWMutex
	enabled bool
	status  Status
}

// New creates an App. Detection starts enabled.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if config.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if config.Actuator == nil {
		return nil, errors.New("app: actuator is required")
	}
	if config.Display == nil {
		config.Display = display.NewHeadless()
	}
	if config.Keys == (actuator.Keys{}) {
		config.Keys = actuator.DefaultKeys()
	}
	if config.QuitKey == 0 {
		config.QuitKey = 'q'
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &App{
		config:  config,
		logger:  logger,
		enabled: true,
		status:  Status{State: gesture.Neutral, Enabled: true},
	}, nil
}

// AddObserver registers o for transitions. Call before Run.
func (a *App) AddObserver(o Observer) {
	a.observers = append(a.observers, o)
}

// AddFrameSink registers s for annotated frames. Call before Run.
func (a *App) AddFrameSink(s FrameSink) {
	a.sinks = append(a.sinks, s)
}

// SetEnabled pauses or resumes detection. While paused every frame is
// treated as showing no hand, so any held key is released.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
	a.status.Enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Status returns a snapshot of the loop state.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *App) updateStatus(fn func(s *Status)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.status)
}

// Close releases the camera, detector, display and actuator.
func (a *App) Close() error {
	var errs []error
	if err := a.config.Camera.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.config.Detector.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.config.Display.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.config.Actuator.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
