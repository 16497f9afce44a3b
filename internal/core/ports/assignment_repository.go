package ports

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// AssignmentQuery selects assignments. Empty fields do not filter.
type AssignmentQuery struct {
	AssignedTo string
	ProjectID  string
}

// AssignmentCompletion records the close-out of an assignment.
type AssignmentCompletion struct {
	CompletedAt time.Time
	Hours       float64
	Narration   string
}

// AssignmentRepository defines persistence operations for task_assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) error
	FindByID(ctx context.Context, id string) (*domain.Assignment, error)
	Delete(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, c AssignmentCompletion) error
	// ListViews returns matching assignments joined with task, user, project
	// and client display fields, newest assignment first.
	ListViews(ctx context.Context, q AssignmentQuery) ([]domain.AssignmentView, error)
	Count(ctx context.Context) (int64, error)
}
