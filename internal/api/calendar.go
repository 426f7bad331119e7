package api

import (
	"context"
	"fmt"
	"net/http"

	"duetrack/internal/models"
)

// CalendarStatus reports whether the user's calendar is connected and
// whether sync is enabled. This is the authoritative completion signal for
// the connect flow: the client never infers success from anything else.
func (c *Client) CalendarStatus(ctx context.Context) (*models.CalendarStatus, error) {
	var status models.CalendarStatus
	if err := c.request(ctx, http.MethodGet, "/calendar/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CalendarConnectURL asks the service for the consent URL the user must open
// in a browser. The connect endpoint authenticates the bearer header and
// replies with a redirect to the provider; the redirect target is returned
// without following it, so the session token never appears in any URL.
func (c *Client) CalendarConnectURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/calendar/connect", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	noRedirect := &http.Client{
		Timeout: c.httpc.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to /calendar/connect failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		return "", c.decodeError(resp)
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("connect response carried no redirect target")
	}
	return location, nil
}

// DisconnectCalendar removes the stored calendar authorization.
func (c *Client) DisconnectCalendar(ctx context.Context) (*MessageResponse, error) {
	var msg MessageResponse
	if err := c.request(ctx, http.MethodPost, "/calendar/disconnect", nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SyncAllDeadlines asks the service to push every unsynced, uncompleted
// deadline to the connected calendar.
func (c *Client) SyncAllDeadlines(ctx context.Context) (*SyncAllResponse, error) {
	var result SyncAllResponse
	if err := c.request(ctx, http.MethodPost, "/calendar/sync-all", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ImportFromCalendar asks the service to turn upcoming calendar events into
// deadlines. daysAhead bounds the import window; the service skips events it
// has imported before.
func (c *Client) ImportFromCalendar(ctx context.Context, daysAhead int) (*ImportResponse, error) {
	endpoint := fmt.Sprintf("/calendar/import?days_ahead=%d", daysAhead)
	var result ImportResponse
	if err := c.request(ctx, http.MethodPost, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
