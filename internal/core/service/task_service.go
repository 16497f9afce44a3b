package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/filter"
	"github.com/taskdesk/taskdesk/internal/core/ports"
	"github.com/taskdesk/taskdesk/internal/ids"
)

type TaskService struct {
	tasks ports.TaskRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewTaskService(tasks ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, log: log, now: time.Now}
}

func (s *TaskService) CreateTask(ctx context.Context, actorID string, in ports.TaskInput) (*domain.Task, error) {
	priority, status, err := parseTaskInput(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &domain.Task{
		ID:          ids.New(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ProjectID:   in.ProjectID,
		CreatedBy:   actorID,
		Priority:    priority,
		DueDate:     calendarDay(in.DueDate),
		Notes:       in.Notes,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
	}
	task.SetStatus(status, now)

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", task.ID).Str("created_by", actorID).Msg("task created")
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// UpdateTask replaces the editable fields of a task. Moving into completed
// stamps CompletedAt; moving out of it clears the stamp.
func (s *TaskService) UpdateTask(ctx context.Context, id string, in ports.TaskInput) (*domain.Task, error) {
	priority, status, err := parseTaskInput(in)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Title = strings.TrimSpace(in.Title)
	task.Description = in.Description
	task.ProjectID = in.ProjectID
	task.Priority = priority
	task.DueDate = calendarDay(in.DueDate)
	task.Notes = in.Notes
	task.ImageURL = in.ImageURL
	task.SetStatus(status, s.now().UTC())

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", task.ID).Str("status", string(task.Status)).Msg("task updated")
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

// ListTasks fetches every task and narrows it in memory with f.
func (s *TaskService) ListTasks(ctx context.Context, f filter.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Tasks(tasks, f, s.now()), nil
}

func parseTaskInput(in ports.TaskInput) (domain.Priority, domain.TaskStatus, error) {
	var problems []string
	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, "title is required")
	}

	priority := domain.PriorityMedium
	if in.Priority != "" {
		p, ok := domain.ParsePriority(in.Priority)
		if !ok {
			problems = append(problems, "priority must be one of low, medium, high")
		}
		priority = p
	}

	status := domain.StatusPending
	if in.Status != "" {
		st, ok := domain.ParseStatus(in.Status)
		if !ok {
			problems = append(problems, "status must be one of pending, in_progress, completed")
		}
		status = st
	}

	if len(problems) > 0 {
		return "", "", domain.NewValidationError(problems...)
	}
	return priority, status, nil
}

func calendarDay(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	d := domain.CalendarDay(*t)
	return &d
}
