package models

import "time"

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleStageManager Role = "stage_manager"
	RoleDJ           Role = "dj"
	RoleArtist       Role = "artist"
)

// roleLevels orders roles for hierarchy checks. A higher level grants every
// privilege of the levels below it. Resource permissions are a separate,
// explicit allow-list model (see the rbac package).
var roleLevels = map[Role]int{
	RoleSuperAdmin:   4,
	RoleStageManager: 3,
	RoleDJ:           2,
	RoleArtist:       1,
}

func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the hierarchy rank of the role, 0 for unknown roles.
func (r Role) Level() int {
	return roleLevels[r]
}

type AccountStatus string

const (
	StatusActive      AccountStatus = "active"
	StatusPending     AccountStatus = "pending"
	StatusSuspended   AccountStatus = "suspended"
	StatusDeactivated AccountStatus = "deactivated"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusSuspended, StatusDeactivated:
		return true
	}
	return false
}

// statusPages maps each non-active status to its dedicated page. Active maps
// to no page: an active session is never status-redirected.
var statusPages = map[AccountStatus]string{
	StatusPending:     "/account-pending",
	StatusSuspended:   "/account-suspended",
	StatusDeactivated: "/account-deactivated",
}

// StatusPagePath returns the page a non-active account is confined to, or ""
// for active (and unknown) statuses.
func StatusPagePath(s AccountStatus) string {
	return statusPages[s]
}

// dashboards is the single role→landing-page mapping. The gatekeeper, the
// login handler and the session-refresh handler all resolve through it;
// diverging copies would redirect-loop users between dashboards.
var dashboards = map[Role]string{
	RoleSuperAdmin:   "/super-admin",
	RoleStageManager: "/stage-manager",
	RoleDJ:           "/dj",
	RoleArtist:       "/",
}

func DashboardPath(r Role) string {
	if path, ok := dashboards[r]; ok {
		return path
	}
	return "/"
}

type User struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	PasswordHash []byte        `json:"passwordHash"`
	DisplayName  string        `json:"displayName"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	EventID      string        `json:"eventId,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Venue     string    `json:"venue"`
	StartsAt  time.Time `json:"startsAt"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
