package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/taskdesk/internal/api/metrics"
	"github.com/taskdesk/taskdesk/internal/core/filter"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// RequestHandler serves peer requests between users.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create handles POST /v1/requests.
//
// @Summary      Send a request to another user
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Request fields"
// @Success      201   {object}  domain.Request
// @Failure      422   {object}  errorResponse
// @Router       /v1/requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req createRequestRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	r, err := h.service.CreateRequest(c.Request().Context(), ports.CreateRequestInput{
		RequesterID: who.UserID,
		AssigneeID:  req.AssignedTo,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// Inbox handles GET /v1/requests/inbox.
//
// @Summary      Requests assigned to the current user
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query    string  false  "Request status"
// @Param        q       query    string  false  "Search over title and description"
// @Success      200     {array}  domain.RequestView
// @Router       /v1/requests/inbox [get]
func (h *RequestHandler) Inbox(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	views, err := h.service.Inbox(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, filter.Requests(views, requestFilter(c)))
}

// Outbox handles GET /v1/requests/outbox.
//
// @Summary      Requests sent by the current user
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query    string  false  "Request status"
// @Param        q       query    string  false  "Search over title and description"
// @Success      200     {array}  domain.RequestView
// @Router       /v1/requests/outbox [get]
func (h *RequestHandler) Outbox(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	views, err := h.service.Outbox(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, filter.Requests(views, requestFilter(c)))
}

// UpdateStatus handles PATCH /v1/requests/:id/status. Only the assignee may
// change the status.
//
// @Summary      Change a request's status
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Request ID"
// @Param        body  body      requestStatusRequest  true  "New status"
// @Success      200   {object}  domain.Request
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/requests/{id}/status [patch]
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req requestStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	r, err := h.service.UpdateStatus(c.Request().Context(), ports.UpdateRequestStatusInput{
		RequestID: c.Param("id"),
		ActorID:   who.UserID,
		Status:    req.Status,
		Narration: req.Narration,
	})
	if err != nil {
		return err
	}
	metrics.RequestStatusChangesTotal.WithLabelValues(string(r.Status)).Inc()
	return c.JSON(http.StatusOK, r)
}

func requestFilter(c echo.Context) filter.RequestFilter {
	return filter.RequestFilter{Status: c.QueryParam("status"), Search: c.QueryParam("q")}
}
