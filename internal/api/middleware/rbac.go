package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// RBAC admits callers whose role is one of roles. It reads the identity
// loaded by Auth, so it must be mounted after it; a request without one is
// rejected the same way as a request with the wrong role.
func RBAC(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !hasRole(callerRole(c), roles) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// callerRole prefers the full identity over the bare role claim.
func callerRole(c echo.Context) domain.Role {
	if u, ok := c.Get(CtxUser).(*domain.User); ok && u != nil {
		return u.Role
	}
	role, _ := c.Get(CtxRole).(string)
	return domain.Role(role)
}

func hasRole(role domain.Role, roles []domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
