package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// TokenConfig holds the signing settings for bearer tokens.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// TokenService issues and validates HS256 bearer tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// tokenClaims is the JWT payload: the user name, one role entry per assigned
// role and the registered claims (sub, iss, aud, exp, nbf, iat).
type tokenClaims struct {
	Name  string   `json:"unique_name"`
	Roles []string `json:"role"`
	jwt.RegisteredClaims
}

func NewTokenService(cfg TokenConfig) *TokenService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &TokenService{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue signs a token for user carrying exactly the user's roles.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, domain.ErrTokenIssuance
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	roles := make([]string, 0, len(user.Roles))
	roles = append(roles, user.Roles...)

	claims := tokenClaims{
		Name:  user.Email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %w", domain.ErrTokenIssuance, err)
	}
	return signed, expiresAt, nil
}

// Validate checks signature, algorithm, expiry, issuer and audience.
func (s *TokenService) Validate(token string) (*domain.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	return &domain.Principal{
		Subject: claims.Subject,
		Name:    claims.Name,
		Roles:   claims.Roles,
	}, nil
}
