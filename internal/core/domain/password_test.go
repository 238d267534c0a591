package domain

import (
	"errors"
	"testing"
)

func TestPasswordPolicy_Check(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Passw0rd!", true},
		{"too short", "Pa0!", false},
		{"no digit", "Password!", false},
		{"no lower", "PASSW0RD!", false},
		{"no upper", "passw0rd!", false},
		{"no symbol", "Passw0rd", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := DefaultPasswordPolicy.Check(tc.password)
			if tc.ok && err != nil {
				t.Fatalf("expected password to pass, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword, got %v", err)
			}
		})
	}
}
