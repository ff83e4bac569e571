// Package display shows the annotated camera feed and reads the quit key.
package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// DefaultTitle is the debug window title.
const DefaultTitle = "Hill Climb Gesture Controller"

// NoKey is returned by WaitKey when no key was pressed.
const NoKey = -1

// Display renders frames and reports key presses.
type Display interface {
	// Show renders frame. The frame is not retained.
	Show(frame *gocv.Mat)

	// WaitKey pumps the window event loop for up to ms milliseconds and
	// returns the pressed key code, or NoKey.
	WaitKey(ms int) int

	Close() error
}

// Window is a native OpenCV HighGUI window.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a window titled title. It must be called from the main
// goroutine on platforms whose GUI toolkit requires it.
func NewWindow(title string) *Window {
	if title == "" {
		title = DefaultTitle
	}
	return &Window{window: gocv.NewWindow(title)}
}

// Show displays frame.
func (w *Window) Show(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}
	w.window.IMShow(*frame)
}

// WaitKey returns the key pressed within ms milliseconds, or NoKey.
func (w *Window) WaitKey(ms int) int {
	return w.window.WaitKey(ms)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}

// Headless is a Display without a window. Keys queued with Press are
// returned by WaitKey in order, which lets tests drive the quit path.
type Headless struct {
	mu     sync.Mutex
	keys   []int
	shown  int
	closed bool
}

// NewHeadless creates a Headless display.
func NewHeadless() *Headless {
	return &Headless{}
}

// Show counts the frame and discards it.
func (h *Headless) Show(frame *gocv.Mat) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shown++
}

// WaitKey returns the next queued key, or NoKey. It never blocks.
func (h *Headless) WaitKey(ms int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.keys) == 0 {
		return NoKey
	}
	k := h.keys[0]
	h.keys = h.keys[1:]
	return k
}

// Press queues a key for WaitKey.
func (h *Headless) Press(key int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, key)
}

// Shown returns how many frames were passed to Show.
func (h *Headless) Shown() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

// Close marks the display closed.
func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (h *Headless) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// IsKey reports whether the code returned by WaitKey is the key k. Only the
// low byte is compared, since some backends set modifier bits above it.
func IsKey(code int, k byte) bool {
	if code < 0 {
		return false
	}
	return byte(code&0xFF) == k
}
