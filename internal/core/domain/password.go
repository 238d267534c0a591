package domain

import (
	"fmt"
	"unicode"
)

// PasswordPolicy mirrors the usual identity defaults: a minimum length plus one
// character from each enabled class.
type PasswordPolicy struct {
	MinLength        int
	RequireDigit     bool
	RequireLower     bool
	RequireUpper     bool
	RequireNonAlnum  bool
	MinUniqueSymbols int
}

// DefaultPasswordPolicy is applied at registration unless overridden.
var DefaultPasswordPolicy = PasswordPolicy{
	MinLength:        6,
	RequireDigit:     true,
	RequireLower:     true,
	RequireUpper:     true,
	RequireNonAlnum:  true,
	MinUniqueSymbols: 1,
}

// Check returns ErrWeakPassword wrapped with the first failing rule.
func (p PasswordPolicy) Check(password string) error {
	if len([]rune(password)) < p.MinLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, p.MinLength)
	}

	var digit, lower, upper, other bool
	unique := make(map[rune]struct{})
	for _, r := range password {
		unique[r] = struct{}{}
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			other = true
		}
	}

	switch {
	case p.RequireDigit && !digit:
		return fmt.Errorf("%w: requires a digit", ErrWeakPassword)
	case p.RequireLower && !lower:
		return fmt.Errorf("%w: requires a lowercase letter", ErrWeakPassword)
	case p.RequireUpper && !upper:
		return fmt.Errorf("%w: requires an uppercase letter", ErrWeakPassword)
	case p.RequireNonAlnum && !other:
		return fmt.Errorf("%w: requires a non-alphanumeric character", ErrWeakPassword)
	case len(unique) < p.MinUniqueSymbols:
		return fmt.Errorf("%w: requires %d unique characters", ErrWeakPassword, p.MinUniqueSymbols)
	}
	return nil
}
