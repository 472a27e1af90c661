// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/gala-registration/auth"
)

// RequireAdmin rejects requests without a valid admin bearer token
func RequireAdmin(sessions *auth.Sessions, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			ErrorResponse(w, http.StatusUnauthorized, "Admin login required")
			return
		}

		if _, err := sessions.Validate(strings.TrimSpace(token)); err != nil {
			slog.Warn("admin token rejected", "path", r.URL.Path, "error", err)
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
			if errors.Is(err, auth.ErrExpiredToken) {
				ErrorResponse(w, http.StatusUnauthorized, "Session expired, please log in again")
				return
			}
			ErrorResponse(w, http.StatusUnauthorized, "Invalid admin session")
			return
		}

		next(w, r)
	}
}
