package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/catalog-api/internal/core/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := userRecord{
		ID:             user.ID,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		EmailConfirmed: user.EmailConfirmed,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	for _, role := range user.Roles {
		rec.Roles = append(rec.Roles, userRoleRecord{UserID: user.ID, Role: role})
	}

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", translate(err))
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", translate(err))
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) AddRole(ctx context.Context, userID, role string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return fmt.Errorf("find user: %w", translate(err))
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&userRoleRecord{UserID: userID, Role: role}).Error
	if err != nil {
		return fmt.Errorf("add role: %w", translate(err))
	}
	return nil
}
