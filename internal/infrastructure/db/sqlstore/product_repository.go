package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/storefront/catalog-api/internal/core/domain"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, translate(err)
	}

	products := make([]domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var rec productRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, translate(err)
	}
	p := rec.toDomain()
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	rec := productRecord{
		Name:          p.Name,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Description:   p.Description,
		Version:       1,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert product: %w", translate(err))
	}

	// Read the row back so the caller sees the price as the column stored it.
	var stored productRecord
	if err := r.db.WithContext(ctx).First(&stored, rec.ID).Error; err != nil {
		return fmt.Errorf("reload product: %w", translate(err))
	}

	*p = stored.toDomain()
	return nil
}

// Replace runs the conditional update and the version read-back in one
// transaction so the returned version is the one this call wrote.
func (r *ProductRepository) Replace(ctx context.Context, p *domain.Product, expectedVersion int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&productRecord{}).Where("id = ?", p.ID)
		if expectedVersion != 0 {
			q = q.Where("version = ?", expectedVersion)
		}

		res := q.Updates(map[string]any{
			"name":           p.Name,
			"price":          p.Price,
			"stock_quantity": p.StockQuantity,
			"description":    p.Description,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now().UTC(),
		})
		if res.Error != nil {
			return fmt.Errorf("update product: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return domain.ErrConcurrentUpdate
		}

		var rec productRecord
		if err := tx.First(&rec, p.ID).Error; err != nil {
			return fmt.Errorf("reload product: %w", translate(err))
		}
		*p = rec.toDomain()
		return nil
	})
}

func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
