package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// ProductInput holds the writable fields of a product.
type ProductInput struct {
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	Description   string
}

// CreateProductInput carries a new product and the caller that created it.
type CreateProductInput struct {
	ProductInput
	Actor string
}

// UpdateProductInput carries a full replacement. PathID comes from the URL and
// must equal ID from the body.
type UpdateProductInput struct {
	ProductInput
	PathID  int64
	ID      int64
	Version int64 // optional; zero means unconditional replace
	Actor   string
}

// ProductService defines use-case operations for products.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, in UpdateProductInput) error
	Delete(ctx context.Context, id int64, actor string) error
}
