package domain

import "time"

// Session binds a running client to an identity.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at t.
func (s *Session) Expired(t time.Time) bool {
	return s == nil || !t.Before(s.ExpiresAt)
}

// AuthState is the lifecycle state of a client's session manager.
type AuthState int

const (
	StateUnauthenticated AuthState = iota
	StateAuthenticating
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Route is the top-level set of screens/commands a client may enter.
type Route string

const (
	RouteEntry    Route = "entry"
	RouteAdmin    Route = "admin"
	RouteStandard Route = "standard"
)

// RouteFor maps a role to its route set. The mapping is total: any role
// other than ADMIN lands on the standard set.
func RouteFor(role Role) Route {
	if role == RoleAdmin {
		return RouteAdmin
	}
	return RouteStandard
}
