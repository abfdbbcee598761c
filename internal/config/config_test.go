package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	// 默认不启用密码策略，注册/重置不受长度或字符类限制
	policy := cfg.Security.PasswordPolicy
	if policy.MinLength != 0 {
		t.Fatalf("default min_length want 0 got %d", policy.MinLength)
	}
	if policy.RequireUpper || policy.RequireLower || policy.RequireNumber || policy.RequireSpecial {
		t.Fatalf("default password policy should not require character classes: %+v", policy)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("default port want 8080 got %s", cfg.Server.Port)
	}
	if cfg.Email.Otp.Length != 4 {
		t.Fatalf("default otp length want 4 got %d", cfg.Email.Otp.Length)
	}
	if cfg.Video.TrashRetentionDays != 30 {
		t.Fatalf("default trash retention want 30 got %d", cfg.Video.TrashRetentionDays)
	}
}
