// cliparse/cliparse_test.go
package cliparse

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("SESSION_SECRET", "test-secret")
	os.Setenv("SESSION_TTL", "30m")
	os.Setenv("MAX_PHOTO_BYTES", "1024")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.MaxPhotoBytes != 1024 {
		t.Errorf("expected 1024 max photo bytes, got %d", cfg.MaxPhotoBytes)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-session-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-session-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite default, got %q", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("expected 12h session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.MaxPhotoBytes != 5<<20 {
		t.Errorf("expected 5 MiB photo limit, got %d", cfg.MaxPhotoBytes)
	}
	if cfg.RateLimit != 5 || cfg.RateBurst != 10 {
		t.Errorf("expected rate 5/10, got %v/%d", cfg.RateLimit, cfg.RateBurst)
	}
	if cfg.PhotoBucketURL == "" {
		t.Error("expected a default photo bucket URL")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database URL", nil, []string{"-session-secret", "s"}},
		{"missing session secret", nil, []string{"-d", "file:test.db"}},
		{"bad database type", nil, []string{"-d", "x", "-session-secret", "s", "-t", "mysql"}},
		{"bad PORT", map[string]string{"PORT": "abc"}, []string{"-d", "x", "-session-secret", "s"}},
		{"bad SESSION_TTL", map[string]string{"SESSION_TTL": "soon"}, []string{"-d", "x", "-session-secret", "s"}},
		{"bad RATE_LIMIT", map[string]string{"RATE_LIMIT": "fast"}, []string{"-d", "x", "-session-secret", "s"}},
		{"negative photo size", nil, []string{"-d", "x", "-session-secret", "s", "-max-photo-bytes", "-1"}},
		{"zero SESSION_TTL", map[string]string{"SESSION_TTL": "0s"}, []string{"-d", "x", "-session-secret", "s"}},
		{"zero RATE_BURST with rate", map[string]string{"RATE_BURST": "0"}, []string{"-d", "x", "-session-secret", "s"}},
		{"bad TRUSTED_PROXIES", map[string]string{"TRUSTED_PROXIES": "10.0.0.0/99"}, []string{"-d", "x", "-session-secret", "s"}},
		{"bad trusted proxy flag", nil, []string{"-d", "x", "-session-secret", "s", "-trusted-proxies", "proxy.local"}},
		{"unknown flag", nil, []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			defer os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	if err := os.WriteFile(local, []byte("SESSION_SECRET=from-local\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(shared, []byte("SESSION_SECRET=from-shared\nDATABASE_URL=file:env.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	os.Setenv("PORT", "7000")

	if err := LoadEnvFiles(local, filepath.Join(dir, "missing.env"), shared); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	// First file wins, real env is never overridden
	if cfg.SessionSecret != "from-local" {
		t.Errorf("expected secret from .env.local, got %q", cfg.SessionSecret)
	}
	if cfg.DatabaseURL != "file:env.db" {
		t.Errorf("expected database URL from .env, got %q", cfg.DatabaseURL)
	}
	if cfg.Port != 7000 {
		t.Errorf("expected port 7000 from env, got %d", cfg.Port)
	}
}

func TestParseFlags_RateLimitDisabled(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()
	os.Setenv("RATE_LIMIT", "0")
	os.Setenv("RATE_BURST", "0")

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-session-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RateLimit != 0 || cfg.RateBurst != 0 {
		t.Errorf("expected rate limiting disabled, got %v/%d", cfg.RateLimit, cfg.RateBurst)
	}
}

func TestParseFlags_TrustedProxies(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()
	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.7,,::1")

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-session-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	expected := []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.7/32"),
		netip.MustParsePrefix("::1/128"),
	}
	if len(cfg.TrustedProxies) != len(expected) {
		t.Fatalf("expected %d trusted proxies, got %v", len(expected), cfg.TrustedProxies)
	}
	for i := range expected {
		if cfg.TrustedProxies[i] != expected[i] {
			t.Errorf("proxy %d: expected %s, got %s", i, expected[i], cfg.TrustedProxies[i])
		}
	}
}

func TestParseTrustedProxies_Empty(t *testing.T) {
	proxies, err := ParseTrustedProxies("")
	if err != nil {
		t.Fatal(err)
	}
	if len(proxies) != 0 {
		t.Errorf("expected no trusted proxies, got %v", proxies)
	}
}
