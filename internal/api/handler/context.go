package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/api/middleware"
	"github.com/storefront/catalog-api/internal/core/domain"
)

// ctxPrincipal returns the identity injected by the Auth middleware. A missing
// principal means the route was wired without the middleware; reject with 401.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(*domain.Principal)
	if !ok || p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}
