// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and validation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(auth.ScopeCreatePoll, salt)
	err := auth.ValidateAdminKey(auth.ScopeCreatePoll, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same scope and salt always produce the same key, so nothing is stored.
The server logs the poll creation key at startup when ADMIN_KEY_SALT is set.

Clients send the key in the X-Admin-Key header. With no salt configured,
ValidateAdminKey returns ErrAdminDisabled for every key.

# Security

  - hmac.Equal is used for constant-time comparison
  - keys are scoped, so a key for one operation is rejected by another
*/
package auth
