package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
	"github.com/RaymondAhuren/swedru-konnect/internal/observability"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the backend. On success the backend sets
// the session cookie on the shared jar; the response body is not the
// authoritative user record (CurrentUser is).
func (c *Client) Login(ctx context.Context, email, password string) error {
	start := time.Now()
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	})
	observability.ObserveBackendRequest("auth_login", start, err)
	return err
}

// Logout invalidates the server-side session
func (c *Client) Logout(ctx context.Context) error {
	start := time.Now()
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil)
	observability.ObserveBackendRequest("auth_logout", start, err)
	return err
}

// RefreshToken renews the session cookie
func (c *Client) RefreshToken(ctx context.Context) error {
	start := time.Now()
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/refresh-token", nil)
	observability.ObserveBackendRequest("auth_refresh", start, err)
	return err
}

// CurrentUser fetches the identity bound to the session cookie
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	start := time.Now()
	env, err := c.doJSON(ctx, http.MethodGet, "/auth/user/me", nil)
	observability.ObserveBackendRequest("auth_me", start, err)
	if err != nil {
		return nil, err
	}

	records := env.records()
	if len(records) == 0 || string(records) == "null" {
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal(records, &user); err != nil {
		return nil, fmt.Errorf("malformed user payload: %w", err)
	}
	return &user, nil
}
