package domain

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductIDMismatch = errors.New("product id mismatch")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrConcurrentUpdate  = errors.New("product was modified concurrently")
	ErrStoreUnavailable  = errors.New("product store unavailable")
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
	ErrRegistrationFailed = errors.New("failed to register user")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenIssuance      = errors.New("token issuance failed")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
)
