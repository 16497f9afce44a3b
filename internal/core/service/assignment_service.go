package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/filter"
	"github.com/taskdesk/taskdesk/internal/core/ports"
	"github.com/taskdesk/taskdesk/internal/ids"
)

// Warning codes raised by the notification step of Assign.
const (
	WarnPushTokenLookup = "push_token_lookup_failed"
	WarnNotifyFailed    = "notification_failed"
)

// AssignmentService creates assignments and notifies assignees. The insert
// is the operation's result; the notification is a best-effort second step
// whose failures are returned as warnings.
type AssignmentService struct {
	assignments ports.AssignmentRepository
	tasks       ports.TaskRepository
	users       ports.UserRepository
	notifier    ports.Notifier
	log         zerolog.Logger
	now         func() time.Time
}

func NewAssignmentService(assignments ports.AssignmentRepository, tasks ports.TaskRepository, users ports.UserRepository, notifier ports.Notifier, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		tasks:       tasks,
		users:       users,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

// Assign validates in before touching the store, persists the assignment,
// then tries to push a notification to the assignee.
func (s *AssignmentService) Assign(ctx context.Context, in ports.AssignInput) (*ports.AssignResult, error) {
	if err := validateAssign(in); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}

	a := &domain.Assignment{
		ID:         ids.New(),
		TaskID:     in.TaskID,
		AssignedBy: in.AssignorID,
		AssignedTo: in.AssigneeID,
		ProjectID:  in.ProjectID,
		ClientID:   in.ClientID,
		StartDate:  domain.CalendarDay(in.StartDate),
		DueDate:    domain.CalendarDay(in.DueDate),
		AssignedAt: s.now().UTC(),
	}
	if a.ProjectID == "" {
		a.ProjectID = task.ProjectID
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("assign task: %w", err)
	}

	s.log.Info().
		Str("assignment_id", a.ID).
		Str("task_id", a.TaskID).
		Str("assigned_to", a.AssignedTo).
		Msg("task assigned")

	result := &ports.AssignResult{Assignment: a}
	s.notifyAssignee(ctx, a, task.Title, result)
	return result, nil
}

func validateAssign(in ports.AssignInput) error {
	var problems []string
	if in.AssigneeID == "" {
		problems = append(problems, "assignee is required")
	}
	if in.TaskID == "" {
		problems = append(problems, "task is required")
	}
	if in.AssignorID == "" {
		problems = append(problems, "assignor is required")
	}
	if in.StartDate.IsZero() {
		problems = append(problems, "start_date is required")
	}
	if in.DueDate.IsZero() {
		problems = append(problems, "due_date is required")
	}
	if !in.StartDate.IsZero() && !in.DueDate.IsZero() && in.DueDate.Before(in.StartDate) {
		problems = append(problems, "due_date must not be before start_date")
	}
	if len(problems) > 0 {
		return domain.NewValidationError(problems...)
	}
	return nil
}

func (s *AssignmentService) notifyAssignee(ctx context.Context, a *domain.Assignment, taskTitle string, result *ports.AssignResult) {
	if s.notifier == nil {
		return
	}

	assignee, err := s.users.FindByID(ctx, a.AssignedTo)
	if err != nil {
		s.warn(result, WarnPushTokenLookup, a, err)
		return
	}
	if assignee.PushToken == "" {
		return
	}

	err = s.notifier.Send(ctx, domain.Notification{
		To:    assignee.PushToken,
		Title: "New task assigned",
		Body:  fmt.Sprintf("You have been assigned: %s", taskTitle),
		Data: map[string]string{
			"type":          "task_assignment",
			"task_id":       a.TaskID,
			"assignment_id": a.ID,
		},
	})
	if err != nil {
		s.warn(result, WarnNotifyFailed, a, err)
		return
	}
	result.Notified = true
}

func (s *AssignmentService) warn(result *ports.AssignResult, code string, a *domain.Assignment, err error) {
	s.log.Warn().Err(err).Str("assignment_id", a.ID).Str("code", code).Msg("assignment notification skipped")
	result.Warnings = append(result.Warnings, domain.Warning{
		Code:    code,
		Message: fmt.Errorf("%w: %w", domain.ErrNotify, err).Error(),
	})
}

func (s *AssignmentService) ListAssignments(ctx context.Context) ([]domain.AssignmentView, error) {
	return s.assignments.ListViews(ctx, ports.AssignmentQuery{})
}

// ListForAssignee returns the assignee's assignments narrowed by f.
func (s *AssignmentService) ListForAssignee(ctx context.Context, assigneeID string, f filter.AssignmentFilter) ([]domain.AssignmentView, error) {
	if assigneeID == "" {
		return nil, domain.NewValidationError("assignee is required")
	}
	views, err := s.assignments.ListViews(ctx, ports.AssignmentQuery{AssignedTo: assigneeID})
	if err != nil {
		return nil, err
	}
	return filter.Assignments(views, f, s.now()), nil
}

func (s *AssignmentService) RemoveAssignment(ctx context.Context, id string) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("assignment_id", id).Msg("assignment removed")
	return nil
}

// CompleteAssignment records hours and narration. Only the assignee may
// complete an assignment.
func (s *AssignmentService) CompleteAssignment(ctx context.Context, in ports.CompleteInput) error {
	if in.Hours < 0 {
		return domain.NewValidationError("hours must not be negative")
	}

	a, err := s.assignments.FindByID(ctx, in.AssignmentID)
	if err != nil {
		return err
	}
	if a.AssignedTo != in.ActorID {
		return domain.ErrForbidden
	}

	return s.assignments.Complete(ctx, a.ID, ports.AssignmentCompletion{
		CompletedAt: s.now().UTC(),
		Hours:       in.Hours,
		Narration:   in.Narration,
	})
}

// Report lists matching assignments with the total of their recorded hours.
func (s *AssignmentService) Report(ctx context.Context, in ports.ReportInput) (*ports.AssignmentReport, error) {
	views, err := s.assignments.ListViews(ctx, ports.AssignmentQuery{
		AssignedTo: in.AssigneeID,
		ProjectID:  in.ProjectID,
	})
	if err != nil {
		return nil, err
	}

	report := &ports.AssignmentReport{Items: views}
	for _, v := range views {
		if v.Hours != nil {
			report.TotalHours += *v.Hours
		}
	}
	return report, nil
}
