package domain

import "time"

// Client status values.
const (
	ClientActive   = "ACTIVE"
	ClientInactive = "INACTIVE"
)

// Client is a customer that projects and assignments are billed to.
type Client struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Project groups tasks for a client.
type Project struct {
	ID          string     `json:"id" bson:"_id"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	ClientID    string     `json:"client_id,omitempty" bson:"client_id,omitempty"`
	ManagerID   string     `json:"manager_id,omitempty" bson:"manager_id,omitempty"`
	Status      string     `json:"status,omitempty" bson:"status,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}
