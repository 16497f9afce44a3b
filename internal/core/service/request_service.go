package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
	"github.com/taskdesk/taskdesk/internal/ids"
)

// RequestService handles peer requests. Status changes are restricted to the
// assignee; the other party is told about them through the notification
// queue, and a failure there never fails the change itself.
type RequestService struct {
	requests ports.RequestRepository
	users    ports.UserRepository
	queue    ports.NotificationQueue
	log      zerolog.Logger
	now      func() time.Time
}

func NewRequestService(requests ports.RequestRepository, users ports.UserRepository, queue ports.NotificationQueue, log zerolog.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		users:    users,
		queue:    queue,
		log:      log,
		now:      time.Now,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, in ports.CreateRequestInput) (*domain.Request, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	var problems []string
	if title == "" {
		problems = append(problems, "title is required")
	}
	if description == "" {
		problems = append(problems, "description is required")
	}
	if in.AssigneeID == "" {
		problems = append(problems, "assigned_to is required")
	} else if in.AssigneeID == in.RequesterID {
		problems = append(problems, "a request cannot be assigned to its requester")
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	assignee, err := s.users.FindByID(ctx, in.AssigneeID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewValidationError("assigned_to does not exist")
		}
		return nil, err
	}

	now := s.now().UTC()
	r := &domain.Request{
		ID:          ids.New(),
		Title:       title,
		Description: description,
		RequesterID: in.RequesterID,
		AssigneeID:  in.AssigneeID,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", r.ID).Str("assigned_to", r.AssigneeID).Msg("request created")
	s.enqueue(assignee, domain.Notification{
		Title: "New request",
		Body:  r.Title,
		Data:  map[string]string{"type": "user_request", "request_id": r.ID},
	})
	return r, nil
}

// Inbox lists the requests addressed to assigneeID.
func (s *RequestService) Inbox(ctx context.Context, assigneeID string) ([]domain.RequestView, error) {
	return s.requests.ListViews(ctx, ports.RequestQuery{AssigneeID: assigneeID})
}

// Outbox lists the requests raised by requesterID.
func (s *RequestService) Outbox(ctx context.Context, requesterID string) ([]domain.RequestView, error) {
	return s.requests.ListViews(ctx, ports.RequestQuery{RequesterID: requesterID})
}

// UpdateStatus changes the status of a request. Only its assignee may do so.
func (s *RequestService) UpdateStatus(ctx context.Context, in ports.UpdateRequestStatusInput) (*domain.Request, error) {
	status, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, domain.NewValidationError("status must be one of pending, in_progress, completed")
	}

	r, err := s.requests.FindByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if r.AssigneeID != in.ActorID {
		return nil, domain.ErrForbidden
	}

	now := s.now().UTC()
	narration := strings.TrimSpace(in.Narration)
	if err := s.requests.UpdateStatus(ctx, r.ID, status, narration, now); err != nil {
		return nil, err
	}
	r.Status = status
	r.Narration = narration
	r.UpdatedAt = now

	s.log.Info().Str("request_id", r.ID).Str("status", string(status)).Msg("request status changed")

	requester, err := s.users.FindByID(ctx, r.RequesterID)
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", r.ID).Msg("requester lookup failed, not notifying")
		return r, nil
	}
	s.enqueue(requester, domain.Notification{
		Title: "Request updated",
		Body:  fmt.Sprintf("%s is now %s", r.Title, strings.ReplaceAll(string(status), "_", " ")),
		Data:  map[string]string{"type": "user_request", "request_id": r.ID, "status": string(status)},
	})
	return r, nil
}

func (s *RequestService) enqueue(to *domain.User, n domain.Notification) {
	if s.queue == nil || to == nil || to.PushToken == "" {
		return
	}
	n.To = to.PushToken
	if err := s.queue.Enqueue(n); err != nil {
		s.log.Warn().Err(err).Str("user_id", to.ID).Msg("notification dropped")
	}
}
