package actuator

import (
	"sort"
	"sync"
)

// Event is a single key transition seen by a Recorder.
type Event struct {
	Key     string
	Pressed bool
}

// Recorder is an in-memory Actuator. It keeps every event and tracks which
// keys are currently held, which makes it useful in tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	held   map[string]bool
	fail   map[Event]error
	closed bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		held: make(map[string]bool),
		fail: make(map[Event]error),
	}
}

// FailOn makes SetKey return err for the given key transition.
func (r *Recorder) FailOn(key string, pressed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[Event{Key: key, Pressed: pressed}] = err
}

// SetKey records the event and updates the held set.
func (r *Recorder) SetKey(key string, pressed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev := Event{Key: key, Pressed: pressed}
	if err, ok := r.fail[ev]; ok {
		return err
	}

	r.events = append(r.events, ev)
	if pressed {
		r.held[key] = true
	} else {
		delete(r.held, key)
	}
	return nil
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Events returns a copy of all recorded events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Presses returns how many press events were recorded for key.
func (r *Recorder) Presses(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Key == key && ev.Pressed {
			n++
		}
	}
	return n
}

// Held returns the currently held keys, sorted.
func (r *Recorder) Held() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.held))
	for k := range r.held {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Closed reports whether Close has been called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Reset clears recorded events and held keys.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.held = make(map[string]bool)
}
