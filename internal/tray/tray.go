// Package tray provides the system tray controller used when palmdrive runs
// without a debug window.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/palmdrive/internal/app"
	"github.com/ayusman/palmdrive/internal/gesture"
)

// Tray is the system tray menu: pause/resume, the current gesture, an
// optional status page link and quit.
type Tray struct {
	onToggle func(enabled bool)
	onStatus func()
	onQuit   func()
	onReady  func()
	enabled  bool
	state    gesture.State
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuState  *systray.MenuItem
}

// New creates a new Tray with detection enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
		state:   gesture.Neutral,
	}
}

// OnToggle sets the callback run when detection is paused or resumed.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnStatus sets the callback run when the status menu item is clicked. The
// item is only shown when a callback is set.
func (t *Tray) OnStatus(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStatus = fn
}

// OnQuit sets the callback run when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// OnReady sets the callback run once the tray is up. The control loop is
// started from here.
func (t *Tray) OnReady(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReady = fn
}

// Run starts the system tray. It must be called from the main goroutine and
// blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.ready, func() {})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) ready() {
	systray.SetTitle(titleFor(gesture.Neutral))
	systray.SetTooltip("Hill Climb Gesture Controller")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume gesture control")
	systray.AddSeparator()

	t.menuState = systray.AddMenuItem(stateTitle(t.state), "Applied gesture")
	t.menuState.Disable()
	systray.AddSeparator()

	var statusClicked <-chan struct{}
	if t.onStatus != nil {
		statusClicked = systray.AddMenuItem("Open Status...", "Open the status page in a browser").ClickedCh
		systray.AddSeparator()
	}

	menuQuit := systray.AddMenuItem("Quit", "Release keys and quit")
	toggleClicked := t.menuToggle.ClickedCh
	onReady := t.onReady
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-toggleClicked:
				t.handleToggle()
			case <-statusClicked:
				t.handleStatus()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()

	if onReady != nil {
		onReady()
	}
}

// handleToggle flips the enabled state and reports it.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleStatus() {
	t.mu.RLock()
	callback := t.onStatus
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit runs the quit callback. Run returns once the caller invokes
// Quit after the control loop has released its keys.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// ObserveTransition shows the applied gesture in the tray title and menu.
func (t *Tray) ObserveTransition(tr app.Transition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = tr.To
	if t.menuState != nil {
		t.menuState.SetTitle(stateTitle(tr.To))
		systray.SetTitle(titleFor(tr.To))
	}
}

// State returns the last applied gesture.
func (t *Tray) State() gesture.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Paused"
}

func stateTitle(s gesture.State) string {
	return "Current: " + s.Label()
}

func titleFor(s gesture.State) string {
	switch s {
	case gesture.Gas:
		return "PD ▲"
	case gesture.Brake:
		return "PD ▼"
	default:
		return "PD"
	}
}
