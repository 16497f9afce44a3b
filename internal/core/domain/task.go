package domain

import (
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a task, assignment or request.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// ParseStatus normalises s case-insensitively.
func ParseStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	}
	return "", false
}

// Priority orders tasks by urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority normalises s case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

// Task is a unit of work.
type Task struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	ProjectID   string     `json:"project_id,omitempty" bson:"project_id,omitempty"`
	CreatedBy   string     `json:"created_by" bson:"created_by"`
	Priority    Priority   `json:"priority" bson:"priority"`
	Status      TaskStatus `json:"status" bson:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Notes       string     `json:"notes,omitempty" bson:"notes,omitempty"`
	ImageURL    string     `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// SetStatus changes the status and keeps CompletedAt consistent with it.
func (t *Task) SetStatus(s TaskStatus, now time.Time) {
	if s == StatusCompleted && t.Status != StatusCompleted {
		at := now
		t.CompletedAt = &at
	}
	if s != StatusCompleted {
		t.CompletedAt = nil
	}
	t.Status = s
}

// CalendarDay returns the date t falls on in its own location, as UTC
// midnight. Due and start dates are stored this way so the calendar day a
// caller picked survives storage in UTC.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
