package ports

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// CreateRequestInput carries a new peer request.
type CreateRequestInput struct {
	RequesterID string
	AssigneeID  string
	Title       string
	Description string
}

// UpdateRequestStatusInput changes a request's status on behalf of ActorID.
type UpdateRequestStatusInput struct {
	RequestID string
	ActorID   string
	Status    string
	Narration string
}

// RequestService defines use-case operations for peer requests.
type RequestService interface {
	CreateRequest(ctx context.Context, in CreateRequestInput) (*domain.Request, error)
	Inbox(ctx context.Context, assigneeID string) ([]domain.RequestView, error)
	Outbox(ctx context.Context, requesterID string) ([]domain.RequestView, error)
	UpdateStatus(ctx context.Context, in UpdateRequestStatusInput) (*domain.Request, error)
}
