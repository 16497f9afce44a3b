package ports

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// UserFilter narrows a user listing. Zero values mean "any".
type UserFilter struct {
	Role      domain.Role
	ExcludeID string
	OrderBy   string // "full_name" (default) or "updated_at" (newest first)
}

// ProfileUpdate carries the self-editable fields of a user.
type ProfileUpdate struct {
	FullName  string
	Username  string
	AvatarURL string
}

// UserRepository defines persistence operations for the users table.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) error
	SetRole(ctx context.Context, id string, role domain.Role) error
	SetActive(ctx context.Context, id string, active bool) error
	SetPushToken(ctx context.Context, id, token string) error
	Count(ctx context.Context) (int64, error)
}
