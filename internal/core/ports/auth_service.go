package ports

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// RegisterInput carries the fields of a self-registration.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// AuthService is the backend side of authentication: it issues, verifies and
// revokes sessions.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error)
	Logout(ctx context.Context, token string) error
	// Authenticate verifies a bearer token against the live-session registry
	// and returns the session together with the current user row.
	Authenticate(ctx context.Context, token string) (*domain.Session, *domain.User, error)
}
