package ports

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// UserService defines profile and administrative operations on users.
type UserService interface {
	Me(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*domain.User, error)
	SetPushToken(ctx context.Context, id, token string) error
	Directory(ctx context.Context, excludeID string) ([]domain.DirectoryEntry, error)

	ListUsers(ctx context.Context) ([]*domain.User, error)
	ChangeRole(ctx context.Context, targetID, role string) (*domain.User, error)
	SetActive(ctx context.Context, targetID string, active bool) (*domain.User, error)
}
