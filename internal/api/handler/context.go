package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/taskdesk/internal/api/middleware"
	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// caller is the authenticated identity injected by the Auth middleware.
type caller struct {
	UserID string
	Role   domain.Role
	Token  string
}

// ctxCaller extracts the identity injected by the Auth middleware. A missing
// user id means the middleware did not run; that is reported as 401.
func ctxCaller(c echo.Context) (caller, error) {
	uid, _ := c.Get(middleware.CtxUserID).(string)
	if uid == "" {
		return caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ := c.Get(middleware.CtxRole).(string)
	token, _ := c.Get(middleware.CtxToken).(string)
	return caller{UserID: uid, Role: domain.Role(role), Token: token}, nil
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
