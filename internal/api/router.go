package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/storefront/catalog-api/docs"
	"github.com/storefront/catalog-api/internal/api/handler"
	"github.com/storefront/catalog-api/internal/api/middleware"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// Deps carries everything the router needs to build its handlers.
type Deps struct {
	Accounts   ports.AccountService
	Products   ports.ProductService
	Tokens     ports.TokenValidator
	Checks     map[string]handler.Pinger
	Logger     zerolog.Logger
	// RateLimit is the account requests allowed per IP per minute; <= 0 disables it.
	RateLimit  int
	Production bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.Recover())

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", middleware.SecureHeaders(d.Production))

	// --- Account routes ---
	accountHandler := handler.NewAccountHandler(d.Accounts, d.Logger)
	account := api.Group("/account")
	if d.RateLimit > 0 {
		account.Use(middleware.RateLimit(d.RateLimit))
	}
	account.POST("/register", accountHandler.Register)
	account.POST("/sing-in", accountHandler.SignIn)
	account.POST("/sign-in", accountHandler.SignIn)

	// --- Product routes ---
	productHandler := handler.NewProductHandler(d.Products)
	auth := middleware.Auth(d.Tokens)
	products := api.Group("/products")
	products.GET("", productHandler.List, auth)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, auth)
	products.PUT("/:id", productHandler.Update, auth)
	products.DELETE("/:id", productHandler.Delete, auth, middleware.RequireRole(domain.RoleAdmin))

	return e
}
