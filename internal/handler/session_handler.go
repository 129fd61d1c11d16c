package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
	"github.com/RaymondAhuren/swedru-konnect/internal/middleware"
	"github.com/RaymondAhuren/swedru-konnect/internal/session"
)

// SessionHandler maps view intents onto the session manager
type SessionHandler struct {
	sessions *session.Manager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// LoginRequest represents a login intent
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login result
type LoginResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Login handles the login intent
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrInvalidCredentials):
			status = http.StatusUnauthorized
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(LoginResponse{
			Success: false,
			Error:   domain.ErrorMessage(err, err.Error()),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Success: true,
		User:    user,
	})
}

// Logout handles the logout intent. It always succeeds locally, whatever
// the backend said.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Get returns the current session snapshot
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.sessions.Snapshot())
}

// Recheck silently re-resolves the session. Views call it when the tab
// becomes visible again.
func (h *SessionHandler) Recheck(w http.ResponseWriter, r *http.Request) {
	h.sessions.Recheck(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.sessions.Snapshot())
}

// Profile returns the authenticated user's record. Reached only through
// RequireAuth, which attaches the user to the request context.
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, `{"error":"Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]*domain.User{"data": user})
}
