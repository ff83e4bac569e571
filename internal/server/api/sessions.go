// Package api provides HTTP API handlers for the palmdrive session journal.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/palmdrive/internal/store"
)

// SessionHandler handles HTTP requests for journaled sessions.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes requests. Expected paths:
//
//	/api/sessions
//	/api/sessions/{id}
//	/api/sessions/{id}/transitions
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "transitions" && r.Method == http.MethodGet:
		h.transitions(w, r, id)
	case sub == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case sub == "" && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case sub != "" && sub != "transitions":
		writeError(w, http.StatusNotFound, "Not found")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type sessionResponse struct {
	ID         string  `json:"id"`
	StartedAt  string  `json:"started_at"`
	EndedAt    *string `json:"ended_at"`
	ExitReason string  `json:"exit_reason,omitempty"`
	Frames     int     `json:"frames"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type transitionResponse struct {
	Seq     int    `json:"seq"`
	From    string `json:"from"`
	To      string `json:"to"`
	Fingers int    `json:"fingers"`
	At      string `json:"at"`
}

type listTransitionsResponse struct {
	SessionID   string               `json:"session_id"`
	Transitions []transitionResponse `json:"transitions"`
	Counts      map[string]int       `json:"counts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:         s.ID,
		StartedAt:  s.StartedAt.Format(time.RFC3339),
		ExitReason: s.ExitReason,
		Frames:     s.Frames,
	}
	if s.EndedAt != nil {
		ended := s.EndedAt.Format(time.RFC3339)
		resp.EndedAt = &ended
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions?limit=N, newest first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sess))
}

// delete handles DELETE /api/sessions/{id}. Its transitions go with it.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// transitions handles GET /api/sessions/{id}/transitions.
func (h *SessionHandler) transitions(w http.ResponseWriter, r *http.Request, id string) {
	ts, err := h.store.Transitions().ListBySession(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to list transitions")
		return
	}

	counts, err := h.store.Transitions().CountByState(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count transitions")
		return
	}

	response := listTransitionsResponse{
		SessionID:   id,
		Transitions: make([]transitionResponse, 0, len(ts)),
		Counts:      counts,
	}
	for _, t := range ts {
		response.Transitions = append(response.Transitions, transitionResponse{
			Seq:     t.Seq,
			From:    t.From,
			To:      t.To,
			Fingers: t.Fingers,
			At:      t.At.Format(time.RFC3339Nano),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
