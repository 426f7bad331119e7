package models

import "time"

// Priority levels accepted by the deadline service.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// User is the authenticated account, as returned by the service.
// The client holds a read-only copy for the current session.
type User struct {
	ID        int        `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Deadline is a user-owned task record with a due date, priority and
// completion status. TeamID is set when the deadline is shared with a team.
type Deadline struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Course         string     `json:"course,omitempty"`
	Date           time.Time  `json:"date"`
	Priority       string     `json:"priority"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
	Completed      bool       `json:"completed"`
	UserID         int        `json:"user_id"`
	TeamID         *int       `json:"team_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// Team is a named group of users sharing a subset of deadlines.
type Team struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// TeamMember is a user's identity within a team roster. ID is the user id
// the member-removal endpoint addresses.
// Role is one of "admin", "member" or "viewer".
type TeamMember struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// CalendarStatus reports the state of the user's calendar connection.
type CalendarStatus struct {
	Connected   bool   `json:"connected"`
	SyncEnabled bool   `json:"sync_enabled"`
	CalendarID  string `json:"calendar_id"`
}

// CalendarPreferences holds the per-user calendar sync settings.
type CalendarPreferences struct {
	CalendarSyncEnabled bool   `json:"calendar_sync_enabled"`
	CalendarID          string `json:"calendar_id,omitempty"`
}
