package backend

import (
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the marketplace backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("backend: unexpected status %d", e.StatusCode)
}

// BackendMessage returns the failure reason from the error payload
func (e *APIError) BackendMessage() string {
	return e.Message
}

// AuthExpired reports whether the response means the session lapsed.
// The backend signals this either as a plain 401 or as an explicit
// "Session expired" message.
func (e *APIError) AuthExpired() bool {
	return e.StatusCode == http.StatusUnauthorized ||
		strings.EqualFold(e.Message, "session expired")
}
