package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

// Client talks to the marketplace backend under {baseURL}/api/v1.
// All requests go through a shared cookie jar so the session cookie the
// backend sets on login rides along on every later call; no credential is
// ever held in gateway-visible storage.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a backend client rooted at baseURL
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// envelope is the backend's response wrapper. List responses put the
// records in either "data" or "items"; error responses carry "error"
// (auth endpoints) or "message" (product endpoints).
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Items      json.RawMessage `json:"items"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
}

// records returns whichever of data/items is populated
func (e *envelope) records() json.RawMessage {
	if len(e.Data) > 0 && string(e.Data) != "null" {
		return e.Data
	}
	return e.Items
}

// errorMessage returns the backend's failure reason with a generic fallback
func (e *envelope) errorMessage(fallback string) string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// doJSON issues one request and decodes the response envelope. A non-2xx
// status is returned as *APIError carrying the backend's message.
func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	env := &envelope{}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(raw) > 0 {
		// Malformed bodies on success responses are a transport error;
		// on failures the status code alone is enough to classify.
		if err := json.Unmarshal(raw, env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("malformed response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.errorMessage(""),
		}
	}
	return env, nil
}

// Ping probes the backend with a one-item products query. Used by the
// readiness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodGet, "/products?page=1&limit=1", nil)
	return err
}
