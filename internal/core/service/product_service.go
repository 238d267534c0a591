package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	events ports.EventQueue
	logger zerolog.Logger
}

// NewProductService wires the product use cases. events may be nil, in which
// case no lifecycle events are emitted.
func NewProductService(repo ports.ProductRepository, events ports.EventQueue, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, events: events, logger: logger}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// Create validates and stores a new product; the store assigns its id.
func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	p := &domain.Product{
		Name:          in.Name,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Description:   in.Description,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info().Int64("product_id", p.ID).Str("actor", in.Actor).Msg("product created")
	s.emit(domain.ProductEvent{
		Type:      domain.ProductCreated,
		ProductID: p.ID,
		Name:      p.Name,
		Version:   p.Version,
		Actor:     in.Actor,
	})
	return p, nil
}

// Update replaces the product identified by in.PathID. A write that matches no
// row is re-checked: a vanished product is reported as not found, anything
// else is a genuine conflict and is returned as-is.
func (s *ProductService) Update(ctx context.Context, in ports.UpdateProductInput) error {
	if in.PathID != in.ID {
		return domain.ErrProductIDMismatch
	}

	p := &domain.Product{
		ID:            in.ID,
		Name:          in.Name,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Description:   in.Description,
	}
	if err := p.Validate(); err != nil {
		return err
	}

	err := s.repo.Replace(ctx, p, in.Version)
	if errors.Is(err, domain.ErrConcurrentUpdate) {
		exists, xerr := s.repo.Exists(ctx, in.ID)
		if xerr != nil {
			return fmt.Errorf("update product %d: %w", in.ID, xerr)
		}
		if !exists {
			return domain.ErrProductNotFound
		}
		s.logger.Error().Int64("product_id", in.ID).Int64("expected_version", in.Version).Msg("concurrent product update")
	}
	if err != nil {
		return fmt.Errorf("update product %d: %w", in.ID, err)
	}

	s.logger.Info().Int64("product_id", p.ID).Int64("version", p.Version).Str("actor", in.Actor).Msg("product updated")
	s.emit(domain.ProductEvent{
		Type:      domain.ProductUpdated,
		ProductID: p.ID,
		Name:      p.Name,
		Version:   p.Version,
		Actor:     in.Actor,
	})
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int64, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	s.logger.Info().Int64("product_id", id).Str("actor", actor).Msg("product deleted")
	s.emit(domain.ProductEvent{Type: domain.ProductDeleted, ProductID: id, Actor: actor})
	return nil
}

func (s *ProductService) emit(e domain.ProductEvent) {
	if s.events == nil {
		return
	}
	e.OccurredAt = time.Now().UTC()
	s.events.Enqueue(e)
}
