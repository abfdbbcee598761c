package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/clipstash/internal/config"
)

func TestValidatePasswordEmptyPolicy(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept anything, got %v", err)
	}
}

func TestValidatePasswordMinLength(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8}

	err := validatePassword(policy, "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("want ErrWeakPassword got %v", err)
	}
	if !strings.Contains(err.Error(), "at least 8 characters") {
		t.Fatalf("reason should mention length, got %s", err.Error())
	}

	if err := validatePassword(policy, "longenough"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}
}

func TestValidatePasswordCharacterClasses(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	cases := []struct {
		name     string
		password string
		wantHint string
	}{
		{name: "no upper", password: "alllower1!", wantHint: "uppercase"},
		{name: "no lower", password: "ALLUPPER1!", wantHint: "lowercase"},
		{name: "no number", password: "NoNumber!!", wantHint: "number"},
		{name: "no special", password: "NoSpecial11", wantHint: "special"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password)
			if !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("want ErrWeakPassword got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantHint) {
				t.Fatalf("reason should mention %s, got %s", tc.wantHint, err.Error())
			}
		})
	}

	if err := validatePassword(policy, "Str0ng!Pass"); err != nil {
		t.Fatalf("compliant password rejected: %v", err)
	}
}
