package ports

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks. List returns
// every task newest first; narrowing is done by the filter package.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Task, error)
	Count(ctx context.Context) (int64, error)
}
