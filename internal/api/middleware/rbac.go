package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// RBAC lets the request through only when the role set by Auth is one of
// allowedRoles. Denials surface as domain.ErrForbidden so the central error
// handler renders them.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return fmt.Errorf("role %q on %s: %w", role, c.Path(), domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
