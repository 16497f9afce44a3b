package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
	"github.com/taskdesk/taskdesk/internal/ids"
)

// CatalogService manages projects and clients.
type CatalogService struct {
	projects ports.ProjectRepository
	clients  ports.ClientRepository
	users    ports.UserRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewCatalogService(projects ports.ProjectRepository, clients ports.ClientRepository, users ports.UserRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		projects: projects,
		clients:  clients,
		users:    users,
		log:      log,
		now:      time.Now,
	}
}

func (s *CatalogService) CreateProject(ctx context.Context, in ports.ProjectInput) (*domain.Project, error) {
	if err := validateProject(in); err != nil {
		return nil, err
	}

	p := &domain.Project{
		ID:        ids.New(),
		CreatedAt: s.now().UTC(),
	}
	applyProject(p, in)

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("project_id", p.ID).Msg("project created")
	return p, nil
}

func (s *CatalogService) UpdateProject(ctx context.Context, id string, in ports.ProjectInput) (*domain.Project, error) {
	if err := validateProject(in); err != nil {
		return nil, err
	}

	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProject(p, in)

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *CatalogService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

// ProjectForm loads the active clients and the managers a project can be
// attached to. Both reads run concurrently and both must succeed.
func (s *CatalogService) ProjectForm(ctx context.Context) (*ports.ProjectFormData, error) {
	var (
		clients  []*domain.Client
		managers []*domain.User
	)

	err := loadAll(ctx,
		func(ctx context.Context) error {
			var err error
			clients, err = s.clients.List(ctx, domain.ClientActive)
			return err
		},
		func(ctx context.Context) error {
			var err error
			managers, err = s.users.List(ctx, ports.UserFilter{Role: domain.RoleManager})
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	form := &ports.ProjectFormData{
		Clients:  clients,
		Managers: make([]domain.DirectoryEntry, 0, len(managers)),
	}
	for _, m := range managers {
		form.Managers = append(form.Managers, domain.DirectoryEntry{ID: m.ID, FullName: m.FullName})
	}
	return form, nil
}

func (s *CatalogService) CreateClient(ctx context.Context, in ports.ClientInput) (*domain.Client, error) {
	status, err := validateClient(in)
	if err != nil {
		return nil, err
	}

	c := &domain.Client{
		ID:        ids.New(),
		CreatedAt: s.now().UTC(),
	}
	applyClient(c, in, status)

	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Str("client_id", c.ID).Msg("client created")
	return c, nil
}

func (s *CatalogService) UpdateClient(ctx context.Context, id string, in ports.ClientInput) (*domain.Client, error) {
	status, err := validateClient(in)
	if err != nil {
		return nil, err
	}

	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyClient(c, in, status)

	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.clients.FindByID(ctx, id)
}

func (s *CatalogService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.List(ctx, "")
}

func validateProject(in ports.ProjectInput) error {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		problems = append(problems, "end_date must not be before start_date")
	}
	if len(problems) > 0 {
		return domain.NewValidationError(problems...)
	}
	return nil
}

func applyProject(p *domain.Project, in ports.ProjectInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.ClientID = in.ClientID
	p.ManagerID = in.ManagerID
	p.Status = in.Status
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
}

func validateClient(in ports.ClientInput) (string, error) {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}

	status := strings.ToUpper(strings.TrimSpace(in.Status))
	switch status {
	case "":
		status = domain.ClientActive
	case domain.ClientActive, domain.ClientInactive:
	default:
		problems = append(problems, "status must be ACTIVE or INACTIVE")
	}

	if len(problems) > 0 {
		return "", domain.NewValidationError(problems...)
	}
	return status, nil
}

func applyClient(c *domain.Client, in ports.ClientInput, status string) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Description = in.Description
	c.Status = status
}
