package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validProduct() Product {
	return Product{
		Name:          "Keyboard",
		Price:         decimal.RequireFromString("49.90"),
		StockQuantity: 3,
		Description:   "Mechanical keyboard",
	}
}

func TestProduct_Validate(t *testing.T) {
	p := validProduct()
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}

	cases := map[string]func(p *Product){
		"empty name":        func(p *Product) { p.Name = "  " },
		"empty description": func(p *Product) { p.Description = "" },
		"zero price":        func(p *Product) { p.Price = decimal.Zero },
		"negative price":    func(p *Product) { p.Price = decimal.NewFromInt(-1) },
		"negative stock":    func(p *Product) { p.StockQuantity = -1 },
		"sub-cent price":    func(p *Product) { p.Price = decimal.RequireFromString("0.004") },
		"price at maximum":  func(p *Product) { p.Price = MaxPrice },
		"oversized price":   func(p *Product) { p.Price = decimal.RequireFromString("12345678901234567890.123456789") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := validProduct()
			mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidProduct) {
				t.Fatalf("expected ErrInvalidProduct, got %v", err)
			}
		})
	}
}

func TestProduct_ValidatePriceBounds(t *testing.T) {
	for _, price := range []string{"0.01", "1.500", "19.99", "9999999999999.99"} {
		p := validProduct()
		p.Price = decimal.RequireFromString(price)
		if err := p.Validate(); err != nil {
			t.Fatalf("price %s: expected valid, got %v", price, err)
		}
	}
}
