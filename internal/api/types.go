package api

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate checks request payloads before any network call. The service
// applies the same rules server-side; this only fails fast.
var validate = newValidator()

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// Usernames are letters, digits, underscores and hyphens only.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}

// TokenResponse is the payload returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse is the generic acknowledgement envelope used by the team
// and calendar endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest carries the credentials for the form-encoded login endpoint.
// The service expects the email in the username field.
type LoginRequest struct {
	Username string `validate:"required,email"`
	Password string `validate:"required"`
}

// Validate reports whether the credentials are well formed.
func (r LoginRequest) Validate() error { return validate.Struct(r) }

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Password string `json:"password" validate:"required,min=8"`
}

// Validate reports whether the registration payload is well formed.
func (r RegisterRequest) Validate() error { return validate.Struct(r) }

// UpdateUserRequest patches the current user's profile. Nil fields are
// left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=20,username"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// Validate reports whether the profile patch is well formed.
func (r UpdateUserRequest) Validate() error { return validate.Struct(r) }

// CreateDeadlineRequest creates a deadline.
type CreateDeadlineRequest struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description,omitempty"`
	Course         string    `json:"course,omitempty"`
	Date           time.Time `json:"date" validate:"required"`
	Priority       string    `json:"priority" validate:"required,oneof=low medium high"`
	EstimatedHours float64   `json:"estimated_hours,omitempty" validate:"gte=0"`
}

// Validate reports whether the deadline payload is well formed.
func (r CreateDeadlineRequest) Validate() error { return validate.Struct(r) }

// UpdateDeadlineRequest patches a deadline. Nil fields are left unchanged.
type UpdateDeadlineRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Course         *string    `json:"course,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	Priority       *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty" validate:"omitempty,gte=0"`
	Completed      *bool      `json:"completed,omitempty"`
}

// Validate reports whether the deadline patch is well formed.
func (r UpdateDeadlineRequest) Validate() error { return validate.Struct(r) }

// CreateTeamRequest creates a team.
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// Validate reports whether the team payload is well formed.
func (r CreateTeamRequest) Validate() error { return validate.Struct(r) }

// InviteMemberRequest invites a user to a team by email.
type InviteMemberRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	Role      string `json:"role" validate:"required,oneof=admin member viewer"`
}

// Validate reports whether the invite is well formed. Invalid emails are
// rejected here, before the invite endpoint is called.
func (r InviteMemberRequest) Validate() error { return validate.Struct(r) }

// UpdateCalendarPreferencesRequest patches the user's calendar settings.
type UpdateCalendarPreferencesRequest struct {
	CalendarSyncEnabled *bool   `json:"calendar_sync_enabled,omitempty"`
	CalendarID          *string `json:"calendar_id,omitempty"`
}

// SyncAllResponse reports the outcome of a bulk calendar sync.
type SyncAllResponse struct {
	Message       string          `json:"message"`
	SyncedCount   int             `json:"synced_count"`
	TotalUnsynced int             `json:"total_unsynced"`
	Errors        []SyncItemError `json:"errors,omitempty"`
}

// SyncItemError identifies a deadline the service could not sync.
type SyncItemError struct {
	DeadlineID int    `json:"deadline_id"`
	Title      string `json:"title"`
	Error      string `json:"error"`
}

// ImportResponse reports the outcome of a calendar-to-deadline import.
type ImportResponse struct {
	Message       string `json:"message"`
	ImportedCount int    `json:"imported_count"`
	SkippedCount  int    `json:"skipped_count"`
	TotalEvents   int    `json:"total_events"`
}
