package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// RequireRole lets the request through when the principal holds any of the
// given roles. It must run after Auth. A principal without any of them gets
// domain.ErrForbidden, which the central error handler renders as 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(PrincipalKey).(*domain.Principal)
			if !ok || principal == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			for _, r := range roles {
				if principal.HasRole(r) {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
