package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/palmdrive/internal/app"
)

const (
	eventBuffer  = 16
	writeTimeout = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler pushes every applied gesture transition to websocket clients
// as one JSON message.
type EventsHandler struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

// NewEventsHandler creates an EventsHandler with no clients.
func NewEventsHandler(logger *slog.Logger) *EventsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsHandler{
		logger:  logger,
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Clients returns the number of connected websocket clients.
func (h *EventsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ObserveTransition queues t for every client. It never blocks: a client
// whose queue is full misses the event.
func (h *EventsHandler) ObserveTransition(t app.Transition) {
	msg, err := json.Marshal(t)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn, queue := range h.clients {
		select {
		case queue <- msg:
		default:
			h.logger.Debug("dropped event for slow client", "remote", conn.RemoteAddr().String(), "seq", t.Seq)
		}
	}
}

// CloseAll disconnects every client.
func (h *EventsHandler) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	queue := make(chan []byte, eventBuffer)
	h.mu.Lock()
	h.clients[conn] = queue
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// The read loop only notices the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case msg := <-queue:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
