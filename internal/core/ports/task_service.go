package ports

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/filter"
)

// TaskInput carries the editable fields of a task. Empty Priority/Status
// default to medium/pending on create.
type TaskInput struct {
	Title       string
	Description string
	ProjectID   string
	Priority    string
	Status      string
	DueDate     *time.Time
	Notes       string
	ImageURL    string
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	CreateTask(ctx context.Context, actorID string, in TaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, in TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, f filter.TaskFilter) ([]*domain.Task, error)
}
