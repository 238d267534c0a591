package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// UserRepository defines the persistence operations of the identity subsystem.
type UserRepository interface {
	// Create stores a new user. Returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns the user with its roles, or domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// AddRole assigns role to the user. Assigning a role twice is a no-op.
	AddRole(ctx context.Context, userID, role string) error
}
