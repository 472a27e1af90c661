// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Metrics

Record request counts and durations under a fixed route label:

	middleware.WithMetrics(m, "/api/register", handler)

# Admin Sessions

RequireAdmin accepts only requests carrying a valid bearer token issued by
auth.Sessions. Missing, invalid and expired tokens get 401 with a
WWW-Authenticate challenge.

# Rate Limiting

RateLimiter keeps one token bucket per client IP:

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	mux.HandleFunc("POST /api/register", limiter.Limit(handler))

Refused requests get 429 with Retry-After. Call StartCleanup to forget idle
clients.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.RegistrationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

The result is client-controlled and only used, hashed, in logs. Rate
limiting keys on RateLimiter.ClientKey instead, which reads
X-Forwarded-For only when the peer is in TrustedProxies.
*/
package middleware
