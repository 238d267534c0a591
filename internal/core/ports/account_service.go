package ports

import (
	"context"
	"time"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// CredentialsInput carries the email/password pair for registration and sign-in.
type CredentialsInput struct {
	Email    string
	Password string
}

// AuthResult is returned after a successful registration or sign-in.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AccountService covers registration and sign-in.
type AccountService interface {
	Register(ctx context.Context, in CredentialsInput) (*AuthResult, error)
	SignIn(ctx context.Context, in CredentialsInput) (*AuthResult, error)
}

// TokenIssuer signs bearer tokens for a user.
type TokenIssuer interface {
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
}

// TokenValidator checks a bearer token and returns the identity it carries.
type TokenValidator interface {
	Validate(token string) (*domain.Principal, error)
}

// LockoutStore tracks consecutive sign-in failures per account.
type LockoutStore interface {
	IsLockedOut(ctx context.Context, key string) (bool, error)
	// RecordFailure counts a failed attempt and reports whether the account is now locked.
	RecordFailure(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
