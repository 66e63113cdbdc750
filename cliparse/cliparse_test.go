// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "DATABASE_KEY", "WALLET_RPC_URL",
		"WALLET_POLL_INTERVAL", "CONFIRM_DELAY", "ADMIN_KEY_SALT",
	} {
		t.Setenv(k, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("WALLET_RPC_URL", "ws://localhost:8546")
	t.Setenv("CONFIRM_DELAY", "500ms")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected inferred postgres, got %q", cfg.DatabaseType)
	}
	if cfg.WalletRPCURL != "ws://localhost:8546" {
		t.Errorf("expected wallet rpc url from env, got %q", cfg.WalletRPCURL)
	}
	if cfg.ConfirmDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms confirm delay, got %v", cfg.ConfirmDelay)
	}
	if cfg.AdminKeySalt != "test-salt" {
		t.Errorf("expected admin salt from env, got %q", cfg.AdminKeySalt)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CONFIRM_DELAY", "5s")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-confirm-delay", "0s"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.ConfirmDelay != 0 {
		t.Errorf("CLI should override env: expected 0 confirm delay, got %v", cfg.ConfirmDelay)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected inferred sqlite, got %q", cfg.DatabaseType)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "" || cfg.DatabaseType != "" {
		t.Errorf("expected no backend by default, got %q (%q)", cfg.DatabaseURL, cfg.DatabaseType)
	}
	if cfg.ConfirmDelay != 2*time.Second {
		t.Errorf("expected default confirm delay 2s, got %v", cfg.ConfirmDelay)
	}
	if cfg.WalletPollInterval != 2*time.Second {
		t.Errorf("expected default wallet poll 2s, got %v", cfg.WalletPollInterval)
	}
}

func TestParseFlags_RESTRequiresKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "https://xyz.supabase.co")

	if _, err := ParseFlags([]string{}); err == nil {
		t.Fatal("expected error when DATABASE_KEY is missing for rest backend")
	}

	t.Setenv("DATABASE_KEY", "anon")
	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseType != "rest" || cfg.DatabaseKey != "anon" {
		t.Errorf("expected rest backend with key, got %q / %q", cfg.DatabaseType, cfg.DatabaseKey)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "abc"}},
		{"bad delay", map[string]string{"CONFIRM_DELAY": "soon"}},
		{"bad type", map[string]string{"DATABASE_TYPE": "mysql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags([]string{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}
