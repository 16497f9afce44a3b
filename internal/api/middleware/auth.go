package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// Context keys set by Auth.
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxSessionID = "session_id"
	CtxToken     = "token"
	CtxSession   = "session"
	CtxUser      = "user"
)

// Auth verifies the bearer token against the live-session registry and
// injects the caller's identity into the context. Errors from the auth
// service are passed to the HTTP error handler unchanged.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			session, user, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(CtxUserID, user.ID)
			c.Set(CtxRole, string(user.Role))
			c.Set(CtxSessionID, session.ID)
			c.Set(CtxToken, parts[1])
			c.Set(CtxSession, session)
			c.Set(CtxUser, user)

			return next(c)
		}
	}
}
