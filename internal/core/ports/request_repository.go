package ports

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// RequestQuery selects requests by either party. Empty fields do not filter.
type RequestQuery struct {
	AssigneeID  string
	RequesterID string
}

// RequestRepository defines persistence operations for user_requests.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.Request) error
	FindByID(ctx context.Context, id string) (*domain.Request, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, narration string, at time.Time) error
	// ListViews returns matching requests joined with both parties' names,
	// newest first.
	ListViews(ctx context.Context, q RequestQuery) ([]domain.RequestView, error)
	Count(ctx context.Context) (int64, error)
}
