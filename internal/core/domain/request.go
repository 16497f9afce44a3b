package domain

import "time"

// Request is a peer-to-peer work item exchanged between two users. It is
// independent of tasks and only its assignee may change its status.
type Request struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	RequesterID string     `json:"user_id" bson:"user_id"`
	AssigneeID  string     `json:"assigned_to" bson:"assigned_to"`
	Status      TaskStatus `json:"status" bson:"status"`
	Narration   string     `json:"narration,omitempty" bson:"narration,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// RequestView is a request joined with the names of both parties.
type RequestView struct {
	Request
	RequesterName string `json:"requester_name,omitempty"`
	AssigneeName  string `json:"assignee_name,omitempty"`
}
