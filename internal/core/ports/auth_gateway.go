package ports

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// AuthGateway is the authentication boundary a client session manager talks
// to. CurrentSession returns (nil, nil) when no stored session exists.
type AuthGateway interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, session *domain.Session) error
	CurrentSession(ctx context.Context) (*domain.Session, error)
}

// IdentityReader loads the user row a session belongs to.
type IdentityReader interface {
	FetchIdentity(ctx context.Context, session *domain.Session) (*domain.User, error)
}
