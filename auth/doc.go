// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin password checks and session tokens.

# Admin Password

The admin password starts as a configured plaintext value (ADMIN_PASSWORD)
and is replaced by a bcrypt hash in admin_settings the first time it is
changed:

	hash, err := auth.HashPassword(newPassword) // ErrPasswordTooShort under 6 chars
	err = auth.VerifyPassword(attempt, storedHash, cfg.AdminPassword)

A stored hash always wins over the configured value. ErrNoPassword means
neither is set.

# Sessions

A successful login returns an HS256 JWT carried as a bearer token:

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	token, expiresAt, err := sessions.Issue(time.Now())
	claims, err := sessions.Validate(token)

Expired tokens fail with ErrExpiredToken, anything else with ErrInvalidToken.

# ID Generation

Random hex IDs, used for photo object keys:

	id, err := auth.GenerateID(6)  // 12 hex characters

# IP Hashing

For privacy-preserving request logs:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
