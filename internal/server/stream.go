package server

import (
	"fmt"
	"net/http"
	"sync"

	"gocv.io/x/gocv"
)

// StreamHandler serves the annotated control-loop frames as MJPEG. Frames
// arrive through ObserveFrame and are only encoded while a client is
// connected.
type StreamHandler struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewStreamHandler creates a StreamHandler with no clients.
func NewStreamHandler() *StreamHandler {
	return &StreamHandler{clients: make(map[chan []byte]struct{})}
}

// Clients returns the number of connected stream clients.
func (h *StreamHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ObserveFrame encodes frame as JPEG and hands it to every client. A client
// that has not consumed its previous frame skips this one.
func (h *StreamHandler) ObserveFrame(frame *gocv.Mat) {
	if h.Clients() == 0 || frame == nil || frame.Empty() {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c <- data:
		default:
		}
	}
}

func (h *StreamHandler) subscribe() chan []byte {
	c := make(chan []byte, 1)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *StreamHandler) unsubscribe(c chan []byte) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// ServeHTTP streams MJPEG frames until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	frames := h.subscribe()
	defer h.unsubscribe(frames)

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-frames:
			if err := writePart(w, data); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

func writePart(w http.ResponseWriter, data []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}
