// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessions_IssueAndValidate(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)
	now := time.Now()

	token, expiresAt, err := sessions.Issue(now)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("Issue() expiresAt = %v, want %v", expiresAt, now.Add(time.Hour))
	}

	claims, err := sessions.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("Validate() role = %q, want admin", claims.Role)
	}
	if claims.ID == "" {
		t.Error("Validate() expected a token ID")
	}

	// Each token is unique
	token2, _, _ := sessions.Issue(now)
	if token == token2 {
		t.Error("Issue() produced duplicate tokens")
	}
}

func TestSessions_Rejects(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)
	valid, _, err := sessions.Issue(time.Now())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expired, _, err := NewSessions("test-secret", time.Minute).Issue(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherKey, _, err := NewSessions("other-secret", time.Hour).Issue(time.Now())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{Role: "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expired", expired, ErrExpiredToken},
		{"wrong key", otherKey, ErrInvalidToken},
		{"unsigned", noneAlg, ErrInvalidToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"empty", "", ErrInvalidToken},
		{"tampered", valid + "x", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sessions.Validate(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
