// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// frozenLimiter returns a limiter whose clock only moves when the test says so
func frozenLimiter(rps float64, burst int) (*RateLimiter, *time.Time) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rps, burst)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, now := frozenLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d within burst", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")

	// Other clients have their own budget
	assert.True(t, rl.Allow("10.0.0.2"))

	*now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "one token refilled after a second")
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_ZeroRateDisables(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.Equal(t, 0, rl.Len())
}

func TestRateLimiter_Limit(t *testing.T) {
	rl, _ := frozenLimiter(1, 1)
	limited := 0
	rl.OnLimited = func(r *http.Request) { limited++ }

	calls := 0
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/register", nil)
		req.RemoteAddr = "192.168.1.20:5555"
		w := httptest.NewRecorder()
		handler(w, req)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusCreated, first.Code)

	second := send()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "Too many requests")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, limited)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, now := frozenLimiter(5, 5)

	rl.Allow("old")
	*now = now.Add(10 * time.Minute)
	rl.Allow("fresh")
	assert.Equal(t, 2, rl.Len())

	rl.Cleanup(5 * time.Minute)
	assert.Equal(t, 1, rl.Len())

	// The surviving client keeps its state
	rl.Cleanup(5 * time.Minute)
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_StartCleanupStops(t *testing.T) {
	rl := NewRateLimiter(5, 5)
	stop := make(chan struct{})
	rl.StartCleanup(time.Millisecond, time.Hour, stop)
	rl.Allow("10.0.0.1")
	close(stop)

	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	rl, _ := frozenLimiter(1, 1)
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	limited := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest("POST", "/api/check-kit", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		w := httptest.NewRecorder()
		handler(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 49, limited)
	assert.Equal(t, 1, rl.Len(), "rotating headers must not add clients")
}

func TestRateLimiter_ClientKey(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.TrustedProxies = []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("::1/128"),
	}

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		expected   string
	}{
		{"untrusted peer ignores header", "203.0.113.9:1234", "198.51.100.1", "203.0.113.9"},
		{"trusted proxy uses client hop", "10.0.0.2:1234", "198.51.100.1", "198.51.100.1"},
		{"spoofed leftmost hop is skipped", "10.0.0.2:1234", "1.2.3.4, 198.51.100.1", "198.51.100.1"},
		{"chained trusted proxies", "10.0.0.2:1234", "198.51.100.1, 10.0.0.7", "198.51.100.1"},
		{"trusted proxy without header", "10.0.0.2:1234", "", "10.0.0.2"},
		{"garbage hop falls back to peer", "10.0.0.2:1234", "not-an-ip", "10.0.0.2"},
		{"all hops trusted", "10.0.0.2:1234", "10.0.0.5", "10.0.0.2"},
		{"ipv6 loopback proxy", "[::1]:1234", "198.51.100.1", "198.51.100.1"},
		{"no port", "203.0.113.9", "198.51.100.1", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/register", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.expected, rl.ClientKey(req))
		})
	}
}
