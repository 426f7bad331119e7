package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"duetrack/internal/models"
)

// Login exchanges credentials for a bearer token. The endpoint expects a
// form-encoded body rather than JSON. On success the token is retained in
// memory and persisted for later invocations.
func (c *Client) Login(ctx context.Context, creds LoginRequest) (*TokenResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/login",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token TokenResponse
	if err := c.do(req, &token); err != nil {
		return nil, err
	}
	if err := c.setToken(token.AccessToken); err != nil {
		return nil, err
	}
	c.logger.Debug("Obtained bearer token", "tokenType", token.TokenType)
	return &token, nil
}

// Register creates a new account. It does not log the account in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}
	var user models.User
	if err := c.request(ctx, http.MethodPost, "/users/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser fetches the account the held token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.request(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateCurrentUser patches the current user's profile.
func (c *Client) UpdateCurrentUser(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile update: %w", err)
	}
	var user models.User
	if err := c.request(ctx, http.MethodPut, "/users/me", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout discards the bearer token from memory and durable storage.
// It is local and immediate; the service keeps no session state.
func (c *Client) Logout() {
	c.clearToken()
}

// CalendarPreferences reads the user's calendar sync settings.
func (c *Client) CalendarPreferences(ctx context.Context) (*models.CalendarPreferences, error) {
	var prefs models.CalendarPreferences
	if err := c.request(ctx, http.MethodGet, "/users/me/calendar-preferences", nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdateCalendarPreferences patches the user's calendar sync settings.
func (c *Client) UpdateCalendarPreferences(ctx context.Context, req UpdateCalendarPreferencesRequest) (*models.CalendarPreferences, error) {
	var prefs models.CalendarPreferences
	if err := c.request(ctx, http.MethodPut, "/users/me/calendar-preferences", req, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}
