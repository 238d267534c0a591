package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User

	// lookups counts FindByEmail calls; vanishAfter drops the user once it is reached.
	lookups     int
	vanishAfter int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.lookups++
	if r.vanishAfter > 0 && r.lookups >= r.vanishAfter {
		delete(r.users, email)
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) AddRole(_ context.Context, userID, role string) error {
	for _, u := range r.users {
		if u.ID == userID {
			if !u.HasRole(role) {
				u.Roles = append(u.Roles, role)
			}
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubLockout struct {
	failures map[string]int
	max      int
}

func newStubLockout(max int) *stubLockout {
	return &stubLockout{failures: make(map[string]int), max: max}
}

func (l *stubLockout) IsLockedOut(_ context.Context, key string) (bool, error) {
	return l.failures[key] >= l.max, nil
}

func (l *stubLockout) RecordFailure(_ context.Context, key string) (bool, error) {
	l.failures[key]++
	return l.failures[key] >= l.max, nil
}

func (l *stubLockout) Reset(_ context.Context, key string) error {
	delete(l.failures, key)
	return nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAccountService(repo *stubUserRepo, lockout ports.LockoutStore) (*AccountService, *TokenService) {
	tokens := NewTokenService(TokenConfig{Secret: testSecret, Issuer: "catalog-api", Audience: "catalog-clients", TTL: 2 * time.Hour})
	return NewAccountService(repo, tokens, lockout, discardLogger, WithBcryptCost(bcrypt.MinCost)), tokens
}

func creds(email, password string) ports.CredentialsInput {
	return ports.CredentialsInput{Email: email, Password: password}
}

func TestAccountService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAccountService(repo, nil)

	res, err := svc.Register(context.Background(), creds("Alice@Example.com ", "Passw0rd!"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected token, got empty")
	}

	stored := repo.users["alice@example.com"]
	if stored == nil {
		t.Fatal("expected user stored under normalized email")
	}
	if !stored.EmailConfirmed {
		t.Error("registered users must have a confirmed email")
	}
	if stored.PasswordHash == "Passw0rd!" {
		t.Fatal("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Passw0rd!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	principal, err := tokens.Validate(res.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if principal.Name != "alice@example.com" || len(principal.Roles) != 0 {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAccountService(newStubUserRepo(), nil)

	if _, err := svc.Register(context.Background(), creds("bob@example.com", "Passw0rd!")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), creds("bob@example.com", "Other1!pass"))
	if !errors.Is(err, domain.ErrRegistrationFailed) || !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected registration failure caused by ErrUserExists, got %v", err)
	}
}

func TestAccountService_Register_WeakPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAccountService(repo, nil)

	_, err := svc.Register(context.Background(), creds("carol@example.com", "short"))
	if !errors.Is(err, domain.ErrRegistrationFailed) || !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected weak password failure, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatal("weak password must not create a user")
	}
}

func TestAccountService_SignIn_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAccountService(repo, nil)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "root@example.com", "Adm1n!pass"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	res, err := svc.SignIn(ctx, creds("root@example.com", "Adm1n!pass"))
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	principal, err := tokens.Validate(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if len(principal.Roles) != 1 || principal.Roles[0] != domain.RoleAdmin {
		t.Fatalf("expected exactly the admin role, got %v", principal.Roles)
	}
}

func TestAccountService_SignIn_GenericFailures(t *testing.T) {
	svc, _ := newTestAccountService(newStubUserRepo(), nil)
	ctx := context.Background()
	_, _ = svc.Register(ctx, creds("dave@example.com", "Passw0rd!"))

	if _, err := svc.SignIn(ctx, creds("dave@example.com", "wrong")); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, creds("ghost@example.com", "Passw0rd!")); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_SignIn_Lockout(t *testing.T) {
	lockout := newStubLockout(3)
	svc, _ := newTestAccountService(newStubUserRepo(), lockout)
	ctx := context.Background()
	_, _ = svc.Register(ctx, creds("erin@example.com", "Passw0rd!"))

	for i := 0; i < 3; i++ {
		_, _ = svc.SignIn(ctx, creds("erin@example.com", "bad"))
	}

	// Correct password is refused while locked out.
	if _, err := svc.SignIn(ctx, creds("erin@example.com", "Passw0rd!")); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected locked-out sign-in to fail, got %v", err)
	}
}

func TestAccountService_SignIn_SuccessResetsFailures(t *testing.T) {
	lockout := newStubLockout(3)
	svc, _ := newTestAccountService(newStubUserRepo(), lockout)
	ctx := context.Background()
	_, _ = svc.Register(ctx, creds("fay@example.com", "Passw0rd!"))

	_, _ = svc.SignIn(ctx, creds("fay@example.com", "bad"))
	if _, err := svc.SignIn(ctx, creds("fay@example.com", "Passw0rd!")); err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if lockout.failures["fay@example.com"] != 0 {
		t.Fatalf("expected failures reset, got %d", lockout.failures["fay@example.com"])
	}
}

func TestAccountService_TokenIssuance_FailsClosedWhenUserVanishes(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAccountService(repo, nil)
	ctx := context.Background()
	_, _ = svc.Register(ctx, creds("gone@example.com", "Passw0rd!"))

	// Call 1 checks the credentials, call 2 (issuance) finds nothing.
	repo.lookups = 0
	repo.vanishAfter = 2
	_, err := svc.SignIn(ctx, creds("gone@example.com", "Passw0rd!"))
	if !errors.Is(err, domain.ErrTokenIssuance) {
		t.Fatalf("expected ErrTokenIssuance, got %v", err)
	}
}

func TestAccountService_EnsureAdmin_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAccountService(repo, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.EnsureAdmin(ctx, "root@example.com", "Adm1n!pass"); err != nil {
			t.Fatalf("ensure admin (%d): %v", i, err)
		}
	}
	if roles := repo.users["root@example.com"].Roles; len(roles) != 1 {
		t.Fatalf("expected a single admin role, got %v", roles)
	}
}

func TestAccountService_EnsureAdmin_WeakPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAccountService(repo, nil)

	err := svc.EnsureAdmin(context.Background(), "root@example.com", "root")
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, ok := repo.users["root@example.com"]; ok {
		t.Fatalf("admin must not be created with a weak password")
	}
}
