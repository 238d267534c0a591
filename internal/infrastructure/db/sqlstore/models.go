package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/catalog-api/internal/core/domain"
)

type userRecord struct {
	ID             string           `gorm:"primaryKey;size:36"`
	Email          string           `gorm:"uniqueIndex;size:256;not null"`
	PasswordHash   string           `gorm:"not null"`
	EmailConfirmed bool             `gorm:"not null"`
	Roles          []userRoleRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRecord) TableName() string { return "users" }

type userRoleRecord struct {
	UserID string `gorm:"primaryKey;size:36"`
	Role   string `gorm:"primaryKey;size:64"`
}

func (userRoleRecord) TableName() string { return "user_roles" }

func (r *userRecord) toDomain() *domain.User {
	roles := make([]string, 0, len(r.Roles))
	for _, role := range r.Roles {
		roles = append(roles, role.Role)
	}
	return &domain.User{
		ID:             r.ID,
		Email:          r.Email,
		PasswordHash:   r.PasswordHash,
		EmailConfirmed: r.EmailConfirmed,
		Roles:          roles,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type productRecord struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Name          string          `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	StockQuantity int             `gorm:"not null"`
	Description   string          `gorm:"not null"`
	Version       int64           `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (productRecord) TableName() string { return "products" }

func (r *productRecord) toDomain() domain.Product {
	return domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Description:   r.Description,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
