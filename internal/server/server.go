// Package server provides the local status server for palmdrive: health,
// live status, an MJPEG feed of the annotated frames, a websocket of gesture
// transitions and the session journal.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ayusman/palmdrive/internal/app"
	"github.com/ayusman/palmdrive/internal/server/api"
	"github.com/ayusman/palmdrive/internal/store"
)

// StatusSource provides the live loop status.
type StatusSource interface {
	Status() app.Status
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Status    StatusSource
	Logger    *slog.Logger
}

// Server represents the HTTP status server.
type Server struct {
	config Config
	logger *slog.Logger
	mux    *http.ServeMux
	start  time.Time

	stream *StreamHandler
	events *EventsHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config: config,
		logger: logger,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		stream: NewStreamHandler(),
		events: NewEventsHandler(logger),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/stream", s.stream)
	s.mux.Handle("/api/events", s.events)

	if s.config.Status != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
	}

	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Stream returns the MJPEG handler. Register it with the app as a frame sink.
func (s *Server) Stream() *StreamHandler {
	return s.stream
}

// Events returns the websocket handler. Register it with the app as an
// observer.
func (s *Server) Events() *EventsHandler {
	return s.events
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.Status.Status()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
// A bad address is reported immediately.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.events.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("status server shutdown", "err", err)
		}
	}()

	s.logger.Info("status server listening", "addr", ln.Addr().String())
	err = srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}
