package auth

import (
	"testing"

	"github.com/spec-kit/bookly-service/internal/domain"
)

func TestRoleChecker(t *testing.T) {
	cases := []struct {
		name    string
		allowed []domain.Role
		role    domain.Role
		want    bool
	}{
		{"member", []domain.Role{domain.RoleAdmin}, domain.RoleAdmin, true},
		{"non-member", []domain.Role{domain.RoleAdmin}, domain.RoleUser, false},
		{"multi allow-set", []domain.Role{domain.RoleUser, domain.RoleAdmin}, domain.RoleUser, true},
		{"empty allow-set permits all", nil, domain.RoleUser, true},
		{"empty role denied", []domain.Role{domain.RoleUser}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checker := NewRoleChecker(tc.allowed...)
			if got := checker.Check(tc.role); got != tc.want {
				t.Errorf("Check(%q) = %v, want %v", tc.role, got, tc.want)
			}
		})
	}
}
