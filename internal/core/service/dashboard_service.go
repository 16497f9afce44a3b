package service

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/core/ports"
)

type counter interface {
	Count(ctx context.Context) (int64, error)
}

type DashboardService struct {
	projects    counter
	clients     counter
	tasks       counter
	users       counter
	assignments counter
	requests    counter
}

func NewDashboardService(
	projects ports.ProjectRepository,
	clients ports.ClientRepository,
	tasks ports.TaskRepository,
	users ports.UserRepository,
	assignments ports.AssignmentRepository,
	requests ports.RequestRepository,
) *DashboardService {
	return &DashboardService{
		projects:    projects,
		clients:     clients,
		tasks:       tasks,
		users:       users,
		assignments: assignments,
		requests:    requests,
	}
}

// Stats loads all six counters concurrently; one failure fails the whole
// dashboard.
func (s *DashboardService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	var st ports.DashboardStats

	count := func(c counter, dst *int64) func(context.Context) error {
		return func(ctx context.Context) error {
			n, err := c.Count(ctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		}
	}

	err := loadAll(ctx,
		count(s.projects, &st.Projects),
		count(s.clients, &st.Clients),
		count(s.tasks, &st.Tasks),
		count(s.users, &st.Users),
		count(s.assignments, &st.Assignments),
		count(s.requests, &st.Requests),
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
