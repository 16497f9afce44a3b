package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/taskdesk/internal/api/metrics"
	"github.com/taskdesk/taskdesk/internal/core/filter"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// UserHandler serves the caller's own profile, the user directory and the
// admin user screens.
type UserHandler struct {
	users       ports.UserService
	assignments ports.AssignmentService
}

func NewUserHandler(users ports.UserService, assignments ports.AssignmentService) *UserHandler {
	return &UserHandler{users: users, assignments: assignments}
}

// Me handles GET /v1/me.
//
// @Summary      Current user profile
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	user, err := h.users.Me(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe handles PATCH /v1/me.
//
// @Summary      Update the current user's profile
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), who.UserID, ports.ProfileUpdate{
		FullName:  req.FullName,
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetPushToken handles PUT /v1/me/push-token. An empty token clears it.
//
// @Summary      Store the device push token
// @Tags         me
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  pushTokenRequest  true  "Push token"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Router       /v1/me/push-token [put]
func (h *UserHandler) SetPushToken(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req pushTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.users.SetPushToken(c.Request().Context(), who.UserID, req.Token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MyAssignments handles GET /v1/me/assignments.
//
// @Summary      Assignments of the current user
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Param        date    query     string  false  "all, today, last_5_days or upcoming"
// @Param        status  query     string  false  "Task status"
// @Param        q       query     string  false  "Search over task title and description"
// @Success      200     {array}   domain.AssignmentView
// @Failure      422     {object}  errorResponse
// @Router       /v1/me/assignments [get]
func (h *UserHandler) MyAssignments(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	due, err := dateRangeParam(c)
	if err != nil {
		return err
	}

	views, err := h.assignments.ListForAssignee(c.Request().Context(), who.UserID, filter.AssignmentFilter{
		Due:    due,
		Status: c.QueryParam("status"),
		Search: c.QueryParam("q"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Directory handles GET /v1/directory.
//
// @Summary      Other active users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.DirectoryEntry
// @Router       /v1/directory [get]
func (h *UserHandler) Directory(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	entries, err := h.users.Directory(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// List handles GET /v1/users.
//
// @Summary      All users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// ChangeRole handles PATCH /v1/users/:id/role.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "User ID"
// @Param        body  body      roleRequest  true  "MANAGER or USER"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/{id}/role [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.ChangeRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetActive handles PATCH /v1/users/:id/active. Deactivation ends every live
// session of the user.
//
// @Summary      Activate or deactivate a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "User ID"
// @Param        body  body      activeRequest  true  "Active flag"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/active [patch]
func (h *UserHandler) SetActive(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req activeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if c.Param("id") == who.UserID && !*req.Active {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "cannot deactivate yourself")
	}

	user, err := h.users.SetActive(c.Request().Context(), c.Param("id"), *req.Active)
	if err != nil {
		return err
	}
	if !*req.Active {
		metrics.SessionsRevokedTotal.WithLabelValues("deactivated").Inc()
	}
	return c.JSON(http.StatusOK, user)
}

func dateRangeParam(c echo.Context) (filter.DateRange, error) {
	r, ok := filter.ParseDateRange(c.QueryParam("date"))
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnprocessableEntity, "date must be one of: all, today, last_5_days, upcoming")
	}
	return r, nil
}
