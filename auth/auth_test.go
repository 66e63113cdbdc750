// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		salt  string
	}{
		{"standard", ScopeCreatePoll, "secret-salt"},
		{"empty scope", "", "salt"},
		{"other scope", "polls:delete", "salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.scope, tt.salt)

			// Should be deterministic
			if again := GenerateAdminKey(tt.scope, tt.salt); key != again {
				t.Errorf("GenerateAdminKey() not deterministic: %s != %s", key, again)
			}
			if strings.ContainsAny(key, "+/=") {
				t.Errorf("GenerateAdminKey() not URL-safe: %s", key)
			}
			// SHA256 = 32 bytes, base64 without padding = 43 chars
			if len(key) != 43 {
				t.Errorf("GenerateAdminKey() length = %d, want 43", len(key))
			}
		})
	}

	if GenerateAdminKey(ScopeCreatePoll, "a") == GenerateAdminKey(ScopeCreatePoll, "b") {
		t.Error("Different salts produced the same key")
	}
}

func TestValidateAdminKey(t *testing.T) {
	salt := "test-salt"
	valid := GenerateAdminKey(ScopeCreatePoll, salt)

	tests := []struct {
		name    string
		scope   string
		key     string
		salt    string
		wantErr error
	}{
		{"valid key", ScopeCreatePoll, valid, salt, nil},
		{"wrong key", ScopeCreatePoll, "not-the-key", salt, ErrInvalidAdminKey},
		{"empty key", ScopeCreatePoll, "", salt, ErrInvalidAdminKey},
		{"wrong scope", "polls:delete", valid, salt, ErrInvalidAdminKey},
		{"wrong salt", ScopeCreatePoll, valid, "other-salt", ErrInvalidAdminKey},
		{"disabled", ScopeCreatePoll, valid, "", ErrAdminDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.scope, tt.key, tt.salt)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
