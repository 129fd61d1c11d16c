package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrProductNotFound    = errors.New("product not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// authExpired is implemented by errors that indicate the backend rejected
// the request because the session credential lapsed. Keeping this a
// capability rather than a status-code check decouples the refresh-retry
// policy from any one backend's error shape.
type authExpired interface {
	AuthExpired() bool
}

// IsAuthExpired reports whether err signals an expired session
func IsAuthExpired(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionExpired) {
		return true
	}
	var ae authExpired
	if errors.As(err, &ae) {
		return ae.AuthExpired()
	}
	return false
}

// backendMessage is implemented by errors carrying a user-visible failure
// reason from the backend's error payload.
type backendMessage interface {
	BackendMessage() string
}

// ErrorMessage extracts the backend's user-visible message from err,
// falling back to a generic string when the payload had none.
func ErrorMessage(err error, fallback string) string {
	var bm backendMessage
	if errors.As(err, &bm) && bm.BackendMessage() != "" {
		return bm.BackendMessage()
	}
	return fallback
}
