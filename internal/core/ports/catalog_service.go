package ports

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// ProjectInput carries the editable fields of a project.
type ProjectInput struct {
	Name        string
	Description string
	ClientID    string
	ManagerID   string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ClientInput carries the editable fields of a client.
type ClientInput struct {
	Name        string
	Email       string
	Phone       string
	Description string
	Status      string
}

// ProjectFormData is everything the project editor needs up front.
type ProjectFormData struct {
	Clients  []*domain.Client
	Managers []domain.DirectoryEntry
}

// CatalogService defines use-case operations for projects and clients.
type CatalogService interface {
	CreateProject(ctx context.Context, in ProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, in ProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	ProjectForm(ctx context.Context) (*ProjectFormData, error)

	CreateClient(ctx context.Context, in ClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, in ClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)
}
