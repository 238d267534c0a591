package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Account ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- Products ---

type productRequest struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"           validate:"required,max=200"`
	Price         decimal.Decimal `json:"price"          validate:"required,gt=0"          swaggertype:"number"`
	StockQuantity *int            `json:"stock_quantity" validate:"required,gte=0"`
	Description   string          `json:"description"    validate:"required,max=2000"`
	Version       int64           `json:"version,omitempty"`
}

type productResponse struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Price         json.Number `json:"price" swaggertype:"number"`
	StockQuantity int         `json:"stock_quantity"`
	Description   string      `json:"description"`
	Version       int64       `json:"version"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Price:         json.Number(p.Price.String()),
		StockQuantity: p.StockQuantity,
		Description:   p.Description,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
