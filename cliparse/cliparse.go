package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// AdminPassword is only used until a password is stored in admin_settings
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration

	PhotoBucketURL string
	PublicBaseURL  string
	MaxPhotoBytes  int64

	RateLimit float64
	RateBurst int

	// TrustedProxies may set X-Forwarded-For for rate limiting
	TrustedProxies []netip.Prefix
}

// LoadEnvFiles loads KEY=VALUE files into the environment.
// Missing files are skipped and variables already set are never overridden.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("gala-registration", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", "", "Public base URL used in photo links")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Initial admin password (prefer env)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Admin session signing secret (prefer env)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Admin session lifetime")

	// Photos
	fs.StringVar(&cfg.PhotoBucketURL, "photos", "", "Photo bucket URL (file:///path or mem://)")
	fs.Int64Var(&cfg.MaxPhotoBytes, "max-photo-bytes", 0, "Largest accepted photo upload")

	// Public endpoint rate limiting
	fs.Float64Var(&cfg.RateLimit, "rate", 0, "Requests per second per client on public write endpoints")
	fs.IntVar(&cfg.RateBurst, "burst", 0, "Burst size for the public rate limit")
	trustedProxies := fs.String("trusted-proxies", "", "Comma-separated proxy IPs or CIDRs allowed to set X-Forwarded-For")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	}

	// Secrets
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.SessionTTL == 0 {
		if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = ttl
		} else {
			cfg.SessionTTL = 12 * time.Hour
		}
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if cfg.PhotoBucketURL == "" {
		cfg.PhotoBucketURL = os.Getenv("PHOTO_BUCKET_URL")
		if cfg.PhotoBucketURL == "" {
			cfg.PhotoBucketURL = "file:///var/lib/gala/photos"
		}
	}

	if cfg.MaxPhotoBytes == 0 {
		if sizeStr := os.Getenv("MAX_PHOTO_BYTES"); sizeStr != "" {
			size, err := strconv.ParseInt(sizeStr, 10, 64)
			if err != nil {
				return Config{}, errors.New("invalid MAX_PHOTO_BYTES env variable")
			}
			cfg.MaxPhotoBytes = size
		} else {
			cfg.MaxPhotoBytes = 5 << 20
		}
	}
	if cfg.MaxPhotoBytes <= 0 {
		return Config{}, errors.New("max photo size must be positive")
	}

	if cfg.RateLimit == 0 {
		if rateStr := os.Getenv("RATE_LIMIT"); rateStr != "" {
			rate, err := strconv.ParseFloat(rateStr, 64)
			if err != nil {
				return Config{}, errors.New("invalid RATE_LIMIT env variable")
			}
			cfg.RateLimit = rate
		} else {
			cfg.RateLimit = 5
		}
	}
	if cfg.RateBurst == 0 {
		if burstStr := os.Getenv("RATE_BURST"); burstStr != "" {
			burst, err := strconv.Atoi(burstStr)
			if err != nil {
				return Config{}, errors.New("invalid RATE_BURST env variable")
			}
			cfg.RateBurst = burst
		} else {
			cfg.RateBurst = 10
		}
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return Config{}, errors.New("rate limit and burst must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		return Config{}, errors.New("rate burst must be at least 1 while rate limiting is enabled")
	}

	if *trustedProxies == "" {
		*trustedProxies = os.Getenv("TRUSTED_PROXIES")
	}
	proxies, err := ParseTrustedProxies(*trustedProxies)
	if err != nil {
		return Config{}, err
	}
	cfg.TrustedProxies = proxies

	return cfg, nil
}

// ParseTrustedProxies reads a comma-separated list of IPs and CIDRs.
// A bare IP is a single-address prefix.
func ParseTrustedProxies(list string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
