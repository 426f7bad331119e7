// Package api implements the HTTP client for the DueTrack deadline service.
// All network access goes through this single gateway: it attaches the bearer
// token when one is held, serializes JSON bodies and normalizes error
// responses into *Error values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Error is the normalized failure returned for any non-2xx response.
// Message carries the backend's reported detail when one was decodable,
// otherwise the HTTP status text.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// errorBody matches the service's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// TokenStore persists the session bearer token between invocations.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Client is the deadline service API client.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
	tokens  TokenStore

	mu    sync.RWMutex
	token string
}

// NewClient creates a Client for the service at baseURL. A previously
// persisted token is loaded into memory if tokens holds one.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, tokens TokenStore) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
		tokens:  tokens,
	}
	if tokens != nil {
		if token, err := tokens.Load(); err == nil && token != "" {
			c.token = token
		}
	}
	return c
}

// IsAuthenticated reports whether a bearer token is currently held.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// setToken retains the token in memory and persists it.
func (c *Client) setToken(token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if c.tokens != nil {
		if err := c.tokens.Save(token); err != nil {
			return fmt.Errorf("failed to persist token: %w", err)
		}
	}
	return nil
}

// clearToken drops the token from memory and durable storage.
func (c *Client) clearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	if c.tokens != nil {
		if err := c.tokens.Clear(); err != nil {
			c.logger.Warn("Failed to clear persisted token", "error", err)
		}
	}
}

// request performs an HTTP round trip against the service. A non-nil body is
// serialized as JSON. A non-nil out receives the decoded JSON response;
// empty and 204 responses leave out untouched.
func (c *Client) request(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// do sends a prepared request, attaching authorization and decoding the
// response. It is shared by request and the form/multipart entry points,
// which set their own body and content type.
func (c *Client) do(req *http.Request, out any) error {
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	// Empty or non-JSON bodies resolve to no result rather than a decode error.
	if len(data) == 0 || !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// decodeError extracts the backend's detail message, falling back to the
// HTTP status text when the body is not the expected envelope.
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &Error{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
	data, err := io.ReadAll(resp.Body)
	if err == nil && len(data) > 0 {
		var body errorBody
		if json.Unmarshal(data, &body) == nil && body.Detail != "" {
			apiErr.Message = body.Detail
		}
	}
	c.logger.Debug("Request rejected by service", "status", resp.StatusCode, "message", apiErr.Message)
	return apiErr
}
