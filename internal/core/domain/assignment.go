package domain

import "time"

// Assignment links a task to an assignee for a date range. A task may carry
// any number of assignments; none are deduplicated.
type Assignment struct {
	ID          string     `json:"id" bson:"_id"`
	TaskID      string     `json:"task_id" bson:"task_id"`
	AssignedBy  string     `json:"assigned_by" bson:"assigned_by"`
	AssignedTo  string     `json:"assigned_to" bson:"assigned_to"`
	ProjectID   string     `json:"project_id,omitempty" bson:"project_id,omitempty"`
	ClientID    string     `json:"client_id,omitempty" bson:"client_id,omitempty"`
	StartDate   time.Time  `json:"start_date" bson:"start_date"`
	DueDate     time.Time  `json:"due_date" bson:"due_date"`
	AssignedAt  time.Time  `json:"assigned_at" bson:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Hours       *float64   `json:"hours,omitempty" bson:"hours,omitempty"`
	Narration   string     `json:"narration,omitempty" bson:"narration,omitempty"`
}

// AssignmentView is an assignment joined with the display fields of the
// rows it references.
type AssignmentView struct {
	Assignment
	TaskTitle       string     `json:"task_title"`
	TaskDescription string     `json:"task_description,omitempty"`
	TaskPriority    Priority   `json:"task_priority,omitempty"`
	TaskStatus      TaskStatus `json:"task_status"`
	AssignedByName  string     `json:"assigned_by_name,omitempty"`
	AssignedToName  string     `json:"assigned_to_name,omitempty"`
	ProjectName     string     `json:"project_name,omitempty"`
	ClientName      string     `json:"client_name,omitempty"`
}
