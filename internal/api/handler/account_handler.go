package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// AccountHandler serves registration and sign-in. Failure bodies are generic;
// the real cause is only logged.
type AccountHandler struct {
	service ports.AccountService
	log     zerolog.Logger
}

func NewAccountHandler(service ports.AccountService, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{service: service, log: log}
}

// Register creates a new user account and returns a bearer token for it.
//
// @Summary      Register a new user
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/account/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.Register(c.Request().Context(), ports.CredentialsInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failure").Inc()
		if errors.Is(err, domain.ErrRegistrationFailed) {
			h.log.Info().Err(err).Msg("registration rejected")
			return c.JSON(http.StatusBadRequest, errorResponse{Error: domain.ErrRegistrationFailed.Error()})
		}
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, ExpiresAt: res.ExpiresAt})
}

// SignIn authenticates a user and returns a bearer token.
//
// @Summary      Sign in
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Email and password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/account/sing-in [post]
func (h *AccountHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.SignIn(c.Request().Context(), ports.CredentialsInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("sign_in", "failure").Inc()
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrInvalidCredentials.Error()})
		}
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("sign_in", "success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, ExpiresAt: res.ExpiresAt})
}
