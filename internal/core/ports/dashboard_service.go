package ports

import "context"

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	Projects    int64 `json:"total_projects"`
	Clients     int64 `json:"total_clients"`
	Tasks       int64 `json:"total_tasks"`
	Users       int64 `json:"active_users"`
	Assignments int64 `json:"total_task_assignments"`
	Requests    int64 `json:"total_requests"`
}

// DashboardService loads the admin dashboard.
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}
