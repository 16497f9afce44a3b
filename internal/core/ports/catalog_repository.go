package ports

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	List(ctx context.Context) ([]*domain.Project, error)
	Count(ctx context.Context) (int64, error)
}

// ClientRepository defines persistence operations for clients. An empty
// status lists every client.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	List(ctx context.Context, status string) ([]*domain.Client, error)
	Count(ctx context.Context) (int64, error)
}
