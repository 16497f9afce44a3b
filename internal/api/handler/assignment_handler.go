package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/taskdesk/internal/api/metrics"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// AssignmentHandler handles HTTP requests for task assignments.
type AssignmentHandler struct {
	service ports.AssignmentService
}

func NewAssignmentHandler(service ports.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Assign handles POST /v1/tasks/:id/assignments. The assignment is stored
// before the assignee is notified; a failed notification is reported in
// warnings and does not fail the request.
//
// @Summary      Assign a task
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Task ID"
// @Param        body  body      assignRequest  true  "Assignee and date range"
// @Success      201   {object}  assignResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/{id}/assignments [post]
func (h *AssignmentHandler) Assign(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req assignRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.service.Assign(c.Request().Context(), toAssignInput(req, c.Param("id"), who.UserID))
	if err != nil {
		return err
	}

	metrics.AssignmentsCreatedTotal.Inc()
	for _, w := range result.Warnings {
		metrics.NotificationWarningsTotal.WithLabelValues(w.Code).Inc()
	}
	return c.JSON(http.StatusCreated, toAssignResponse(result))
}

// List handles GET /v1/assignments.
//
// @Summary      List all assignments
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.AssignmentView
// @Failure      403  {object}  errorResponse
// @Router       /v1/assignments [get]
func (h *AssignmentHandler) List(c echo.Context) error {
	views, err := h.service.ListAssignments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Remove handles DELETE /v1/assignments/:id.
//
// @Summary      Remove an assignment
// @Tags         assignments
// @Security     BearerAuth
// @Param        id   path  string  true  "Assignment ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/assignments/{id} [delete]
func (h *AssignmentHandler) Remove(c echo.Context) error {
	if err := h.service.RemoveAssignment(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Complete handles POST /v1/assignments/:id/complete. Only the assignee may
// close out an assignment.
//
// @Summary      Complete an assignment
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Assignment ID"
// @Param        body  body      completeRequest  true  "Hours and narration"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/assignments/{id}/complete [post]
func (h *AssignmentHandler) Complete(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req completeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err = h.service.CompleteAssignment(c.Request().Context(), ports.CompleteInput{
		AssignmentID: c.Param("id"),
		ActorID:      who.UserID,
		Hours:        req.Hours,
		Narration:    req.Narration,
	})
	if err != nil {
		return err
	}
	metrics.AssignmentHoursReported.Observe(req.Hours)
	return c.JSON(http.StatusOK, messageResponse{Message: "assignment completed"})
}

// Report handles GET /v1/reports/assignments.
//
// @Summary      Assignment hours report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query     string  false  "Project ID"
// @Param        user_id     query     string  false  "Assignee ID"
// @Success      200         {object}  reportResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/reports/assignments [get]
func (h *AssignmentHandler) Report(c echo.Context) error {
	report, err := h.service.Report(c.Request().Context(), ports.ReportInput{
		ProjectID:  c.QueryParam("project_id"),
		AssigneeID: c.QueryParam("user_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponse(report))
}
