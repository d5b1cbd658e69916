// Package api provides HTTP API handlers for recorded capture sessions.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/kathak/internal/store"
)

// SessionHandler handles HTTP requests for session resources.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
// Expected paths: /api/sessions, /api/sessions/{id}, /api/sessions/{id}/frames
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/sessions
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Frame export endpoint: /api/sessions/{id}/frames
	if id, ok := strings.CutSuffix(path, "/frames"); ok {
		switch r.Method {
		case http.MethodGet:
			h.frames(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/sessions/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type sessionResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RigVersion string `json:"rig_version"`
	Frames     int    `json:"frames"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type frameResponse struct {
	Sequence    int             `json:"sequence"`
	TimestampMs int64           `json:"timestamp_ms"`
	Input       json.RawMessage `json:"input"`
	Output      json.RawMessage `json:"output"`
}

type listFramesResponse struct {
	SessionID string          `json:"session_id"`
	Frames    []frameResponse `json:"frames"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Session to a sessionResponse.
func toResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:         s.ID,
		Name:       s.Name,
		RigVersion: s.RigVersion,
		Frames:     s.Frames,
		StartedAt:  s.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
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

// list handles GET /api/sessions and returns all sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
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

// get handles GET /api/sessions/{id} and returns a single session.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(session))
}

// frames handles GET /api/sessions/{id}/frames and exports the recorded
// frames for offline analysis.
func (h *SessionHandler) frames(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	frames, err := h.store.Frames().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list frames")
		return
	}

	response := listFramesResponse{
		SessionID: id,
		Frames:    make([]frameResponse, 0, len(frames)),
	}
	for _, f := range frames {
		response.Frames = append(response.Frames, frameResponse{
			Sequence:    f.Sequence,
			TimestampMs: f.TimestampMs,
			Input:       f.Input,
			Output:      f.Output,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// delete handles DELETE /api/sessions/{id} and removes a session with its
// frames.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Sessions().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
