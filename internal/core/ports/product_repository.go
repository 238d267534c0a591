package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	// List returns every product ordered by id.
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// Create assigns p.ID and p.Version.
	Create(ctx context.Context, p *domain.Product) error
	// Replace overwrites every mutable field of p.ID. When expectedVersion is
	// non-zero the write only applies if the stored version still matches.
	// Returns domain.ErrConcurrentUpdate when no row was written; on success
	// p.Version holds the new version.
	Replace(ctx context.Context, p *domain.Product, expectedVersion int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	// Delete removes the product or returns domain.ErrProductNotFound.
	Delete(ctx context.Context, id int64) error
}
