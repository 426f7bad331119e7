package api

import (
	"context"
	"fmt"
	"net/http"

	"duetrack/internal/models"
)

// Teams fetches the teams the current user belongs to.
func (c *Client) Teams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := c.request(ctx, http.MethodGet, "/teams/", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// CreateTeam creates a team; the creator becomes its admin.
func (c *Client) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid team: %w", err)
	}
	var team models.Team
	if err := c.request(ctx, http.MethodPost, "/teams/", req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Team fetches a single team by id.
func (c *Client) Team(ctx context.Context, id int) (*models.Team, error) {
	var team models.Team
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/teams/%d", id), nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteTeam removes a team. Admin only.
func (c *Client) DeleteTeam(ctx context.Context, id int) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/teams/%d", id), nil, nil)
}

// TeamMembers fetches the roster of a team.
func (c *Client) TeamMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/teams/%d/members", teamID), nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// InviteMember adds a user to a team by email. Admin only.
func (c *Client) InviteMember(ctx context.Context, teamID int, req InviteMemberRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid invite: %w", err)
	}
	var msg MessageResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("/teams/%d/invite", teamID), req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RemoveMember removes a user from a team. Admin only.
func (c *Client) RemoveMember(ctx context.Context, teamID, userID int) (*MessageResponse, error) {
	var msg MessageResponse
	endpoint := fmt.Sprintf("/teams/%d/members/%d", teamID, userID)
	if err := c.request(ctx, http.MethodDelete, endpoint, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
