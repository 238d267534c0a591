package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// AccountService implements registration and sign-in on top of a user store,
// a token issuer and an optional lockout store.
type AccountService struct {
	users      ports.UserRepository
	tokens     ports.TokenIssuer
	lockout    ports.LockoutStore
	policy     domain.PasswordPolicy
	bcryptCost int
	log        zerolog.Logger
}

// AccountOption customises an AccountService.
type AccountOption func(*AccountService)

// WithPasswordPolicy replaces domain.DefaultPasswordPolicy.
func WithPasswordPolicy(p domain.PasswordPolicy) AccountOption {
	return func(s *AccountService) { s.policy = p }
}

// WithBcryptCost sets the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) AccountOption {
	return func(s *AccountService) { s.bcryptCost = cost }
}

func NewAccountService(users ports.UserRepository, tokens ports.TokenIssuer, lockout ports.LockoutStore, log zerolog.Logger, opts ...AccountOption) *AccountService {
	s := &AccountService{
		users:      users,
		tokens:     tokens,
		lockout:    lockout,
		policy:     domain.DefaultPasswordPolicy,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a confirmed user and returns a token for it. Every
// rejection is reported as domain.ErrRegistrationFailed; the cause stays
// reachable through errors.Is for logging.
func (s *AccountService) Register(ctx context.Context, in ports.CredentialsInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, domain.ErrInvalidCredentials)
	}
	if err := s.policy.Check(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordHash:   string(hash),
		EmailConfirmed: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return s.issueToken(ctx, email)
}

// SignIn checks the credentials and returns a token. Unknown users, wrong
// passwords and locked-out accounts all yield domain.ErrInvalidCredentials.
func (s *AccountService) SignIn(ctx context.Context, in ports.CredentialsInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.lockout != nil {
		locked, err := s.lockout.IsLockedOut(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("lockout check failed, continuing")
		} else if locked {
			s.log.Warn().Str("email", email).Msg("sign-in rejected: account locked out")
			return nil, domain.ErrInvalidCredentials
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if s.lockout != nil {
		if err := s.lockout.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("lockout reset failed")
		}
	}

	return s.issueToken(ctx, email)
}

// EnsureAdmin creates the user when missing and grants it the admin role.
// Used to bootstrap the first administrator. The password must satisfy the
// same policy as registration.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) error {
	if err := s.policy.Check(password); err != nil {
		return fmt.Errorf("admin password: %w", err)
	}

	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		hash, herr := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if herr != nil {
			return fmt.Errorf("hash password: %w", herr)
		}
		now := time.Now().UTC()
		user, err = s.users.Create(ctx, &domain.User{
			ID:             uuid.NewString(),
			Email:          email,
			PasswordHash:   string(hash),
			EmailConfirmed: true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
	case err != nil:
		return fmt.Errorf("find admin: %w", err)
	}

	if user.HasRole(domain.RoleAdmin) {
		return nil
	}
	if err := s.users.AddRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return fmt.Errorf("grant admin role: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Msg("admin role granted")
	return nil
}

// issueToken reloads the user so the token carries its current roles. A user
// that vanished between the credential check and issuance fails closed.
func (s *AccountService) issueToken(ctx context.Context, email string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenIssuance, err)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AccountService) recordFailure(ctx context.Context, email string) {
	if s.lockout == nil {
		return
	}
	locked, err := s.lockout.RecordFailure(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("lockout record failed")
		return
	}
	if locked {
		s.log.Warn().Str("email", email).Msg("account locked out after repeated failures")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
