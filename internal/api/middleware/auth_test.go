package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokens() *service.TokenService {
	return service.NewTokenService(service.TokenConfig{
		Secret:   testSecret,
		Issuer:   "catalog-api",
		Audience: "catalog-clients",
		TTL:      time.Hour,
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tokens := newTokens()
	signed, _, err := tokens.Issue(&domain.User{ID: "u-1", Email: "alice@example.com", Roles: []string{domain.RoleAdmin}})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(tokens)
	handler := mw(func(c echo.Context) error {
		called = true
		p, ok := c.Get(PrincipalKey).(*domain.Principal)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.Name != "alice@example.com" || p.Subject != "u-1" {
			t.Fatalf("unexpected principal: %+v", p)
		}
		if !p.HasRole(domain.RoleAdmin) {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"unique_name": "mallory@example.com",
		"iss":         "catalog-api",
		"aud":         "catalog-clients",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	forged, err := foreign.SignedString([]byte("another-secret-another-secret-xx"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	cases := map[string]string{
		"missing header":    "",
		"wrong scheme":      "Token abc",
		"empty bearer":      "Bearer ",
		"garbage token":     "Bearer not-a-token",
		"foreign signature": "Bearer " + forged,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Auth(newTokens())(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
