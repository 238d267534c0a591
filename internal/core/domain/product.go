package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places a price may carry.
const PriceScale = 2

// MaxPrice is the exclusive upper bound on a price. Together with PriceScale
// it keeps every price within fifteen significant digits so it is stored
// exactly on every backend.
var MaxPrice = decimal.New(1, 13)

// Product is a catalog record. Version is the optimistic-concurrency marker:
// it starts at 1 and every successful replace increments it.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Description   string          `json:"description"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate checks the invariants a product must hold before it is stored.
func (p *Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case strings.TrimSpace(p.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidProduct)
	case !p.Price.IsPositive():
		return fmt.Errorf("%w: price must be greater than 0", ErrInvalidProduct)
	case !p.Price.Equal(p.Price.Truncate(PriceScale)):
		return fmt.Errorf("%w: price must have at most %d decimal places", ErrInvalidProduct, PriceScale)
	case p.Price.GreaterThanOrEqual(MaxPrice):
		return fmt.Errorf("%w: price must be less than %s", ErrInvalidProduct, MaxPrice)
	case p.StockQuantity < 0:
		return fmt.Errorf("%w: stock_quantity must not be negative", ErrInvalidProduct)
	}
	return nil
}

// ProductEventType names a product lifecycle change.
type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent is published after a product mutation has been committed.
type ProductEvent struct {
	Type       ProductEventType `json:"type"`
	ProductID  int64            `json:"product_id"`
	Name       string           `json:"name,omitempty"`
	Version    int64            `json:"version,omitempty"`
	Actor      string           `json:"actor,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
