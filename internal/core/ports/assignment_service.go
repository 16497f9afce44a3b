package ports

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/filter"
)

// AssignInput carries everything needed to assign a task.
type AssignInput struct {
	TaskID     string
	AssigneeID string
	AssignorID string
	ProjectID  string // optional
	ClientID   string // optional
	StartDate  time.Time
	DueDate    time.Time
}

// AssignResult is returned once the assignment row is persisted. Warnings
// collects non-fatal failures of the notification step.
type AssignResult struct {
	Assignment *domain.Assignment
	Notified   bool
	Warnings   []domain.Warning
}

// CompleteInput records hours and narration when an assignee closes out an
// assignment.
type CompleteInput struct {
	AssignmentID string
	ActorID      string
	Hours        float64
	Narration    string
}

// ReportInput narrows the assignment report. Empty fields do not filter.
type ReportInput struct {
	ProjectID  string
	AssigneeID string
}

// AssignmentReport lists assignments and the sum of their recorded hours.
type AssignmentReport struct {
	Items      []domain.AssignmentView
	TotalHours float64
}

// AssignmentService defines use-case operations for task assignments.
type AssignmentService interface {
	Assign(ctx context.Context, in AssignInput) (*AssignResult, error)
	ListAssignments(ctx context.Context) ([]domain.AssignmentView, error)
	ListForAssignee(ctx context.Context, assigneeID string, f filter.AssignmentFilter) ([]domain.AssignmentView, error)
	RemoveAssignment(ctx context.Context, id string) error
	CompleteAssignment(ctx context.Context, in CompleteInput) error
	Report(ctx context.Context, in ReportInput) (*AssignmentReport, error)
}
