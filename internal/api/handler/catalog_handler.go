package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// CatalogHandler serves projects and clients.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListProjects handles GET /v1/projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Project
// @Router       /v1/projects [get]
func (h *CatalogHandler) ListProjects(c echo.Context) error {
	projects, err := h.service.ListProjects(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// GetProject handles GET /v1/projects/:id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [get]
func (h *CatalogHandler) GetProject(c echo.Context) error {
	p, err := h.service.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// CreateProject handles POST /v1/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      projectRequest  true  "Project fields"
// @Success      201   {object}  domain.Project
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects [post]
func (h *CatalogHandler) CreateProject(c echo.Context) error {
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.CreateProject(c.Request().Context(), toProjectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProject handles PUT /v1/projects/:id.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project ID"
// @Param        body  body      projectRequest  true  "Project fields"
// @Success      200   {object}  domain.Project
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects/{id} [put]
func (h *CatalogHandler) UpdateProject(c echo.Context) error {
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.UpdateProject(c.Request().Context(), c.Param("id"), toProjectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// ProjectForm handles GET /v1/forms/project. Clients and managers load
// concurrently; if either fails the whole form fails.
//
// @Summary      Project editor lookups
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  projectFormResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/forms/project [get]
func (h *CatalogHandler) ProjectForm(c echo.Context) error {
	form, err := h.service.ProjectForm(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectFormResponse(form))
}

// ListClients handles GET /v1/clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Client
// @Router       /v1/clients [get]
func (h *CatalogHandler) ListClients(c echo.Context) error {
	clients, err := h.service.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /v1/clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [get]
func (h *CatalogHandler) GetClient(c echo.Context) error {
	cl, err := h.service.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// CreateClient handles POST /v1/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clientRequest  true  "Client fields"
// @Success      201   {object}  domain.Client
// @Failure      422   {object}  errorResponse
// @Router       /v1/clients [post]
func (h *CatalogHandler) CreateClient(c echo.Context) error {
	var req clientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.service.CreateClient(c.Request().Context(), toClientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cl)
}

// UpdateClient handles PUT /v1/clients/:id.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Client ID"
// @Param        body  body      clientRequest  true  "Client fields"
// @Success      200   {object}  domain.Client
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/clients/{id} [put]
func (h *CatalogHandler) UpdateClient(c echo.Context) error {
	var req clientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.service.UpdateClient(c.Request().Context(), c.Param("id"), toClientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}
