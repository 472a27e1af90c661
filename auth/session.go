// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionIssuer   = "gala-registration"
	sessionAudience = "admin"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// SessionClaims are carried by admin bearer tokens
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and validates HS256 admin session tokens
type Sessions struct {
	signingKey []byte
	ttl        time.Duration
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{signingKey: []byte(secret), ttl: ttl}
}

// Issue signs a new admin token valid from now for the configured TTL
func (s *Sessions) Issue(now time.Time) (token string, expiresAt time.Time, err error) {
	expiresAt = now.Add(s.ttl)
	claims := SessionClaims{
		Role: sessionAudience,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
			Audience:  []string{sessionAudience},
			ID:        uuid.NewString(),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate parses a token and checks signature, issuer, audience and expiry
func (s *Sessions) Validate(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.Role != sessionAudience {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
