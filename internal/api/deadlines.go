package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"duetrack/internal/models"
)

// Deadlines fetches the current user's deadlines. skip and limit page
// through the collection; limit <= 0 requests the service default.
func (c *Client) Deadlines(ctx context.Context, skip, limit int) ([]models.Deadline, error) {
	endpoint := "/deadlines/"
	if limit > 0 {
		endpoint = fmt.Sprintf("/deadlines/?skip=%d&limit=%d", skip, limit)
	}
	var deadlines []models.Deadline
	if err := c.request(ctx, http.MethodGet, endpoint, nil, &deadlines); err != nil {
		return nil, err
	}
	return deadlines, nil
}

// Deadline fetches a single deadline by id.
func (c *Client) Deadline(ctx context.Context, id int) (*models.Deadline, error) {
	var deadline models.Deadline
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/deadlines/%d", id), nil, &deadline); err != nil {
		return nil, err
	}
	return &deadline, nil
}

// CreateDeadline creates a deadline and returns the stored record.
func (c *Client) CreateDeadline(ctx context.Context, req CreateDeadlineRequest) (*models.Deadline, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deadline: %w", err)
	}
	var deadline models.Deadline
	if err := c.request(ctx, http.MethodPost, "/deadlines/create", req, &deadline); err != nil {
		return nil, err
	}
	return &deadline, nil
}

// UpdateDeadline patches a deadline and returns the stored record.
func (c *Client) UpdateDeadline(ctx context.Context, id int, req UpdateDeadlineRequest) (*models.Deadline, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deadline update: %w", err)
	}
	var deadline models.Deadline
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/deadlines/%d", id), req, &deadline); err != nil {
		return nil, err
	}
	return &deadline, nil
}

// DeleteDeadline removes a deadline. The service answers 204 on success.
func (c *Client) DeleteDeadline(ctx context.Context, id int) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/deadlines/%d", id), nil, nil)
}

// ScanDocument uploads a document for AI deadline extraction and returns
// the extracted candidates. The multipart writer sets the content type with
// its boundary; no manual JSON header is applied.
func (c *Client) ScanDocument(ctx context.Context, filename string, content io.Reader) ([]models.Deadline, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/deadlines/scan-document", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build scan request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var deadlines []models.Deadline
	if err := c.do(req, &deadlines); err != nil {
		return nil, err
	}
	c.logger.Info("Document scanned", "file", filename, "extracted", len(deadlines))
	return deadlines, nil
}

// TeamDeadlines fetches the deadlines assigned to a team.
func (c *Client) TeamDeadlines(ctx context.Context, teamID int) ([]models.Deadline, error) {
	var deadlines []models.Deadline
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/deadlines/team/%d", teamID), nil, &deadlines); err != nil {
		return nil, err
	}
	return deadlines, nil
}

// AssignDeadlineToTeam shares a deadline with a team.
func (c *Client) AssignDeadlineToTeam(ctx context.Context, deadlineID, teamID int) (*models.Deadline, error) {
	var deadline models.Deadline
	endpoint := fmt.Sprintf("/deadlines/%d/assign-team/%d", deadlineID, teamID)
	if err := c.request(ctx, http.MethodPost, endpoint, nil, &deadline); err != nil {
		return nil, err
	}
	return &deadline, nil
}

// RemoveDeadlineFromTeam makes a shared deadline personal again.
func (c *Client) RemoveDeadlineFromTeam(ctx context.Context, deadlineID int) (*models.Deadline, error) {
	var deadline models.Deadline
	endpoint := fmt.Sprintf("/deadlines/%d/remove-from-team", deadlineID)
	if err := c.request(ctx, http.MethodPost, endpoint, nil, &deadline); err != nil {
		return nil, err
	}
	return &deadline, nil
}
