// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnvFiles reads optional dotenv files, then ParseFlags returns a Config:

	if err := cliparse.LoadEnvFiles(".env.local", ".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p                 Server port
	-d                 Database URL
	-t                 Database type (sqlite or postgres)
	--base-url         Public base URL for photo links
	--admin-password   Bootstrap admin password
	--session-secret   Admin session signing secret
	--session-ttl      Admin session lifetime
	--photos           Photo bucket URL
	--max-photo-bytes  Largest accepted photo
	--rate, --burst    Per-client limit on public write endpoints
	--trusted-proxies  Proxy IPs/CIDRs whose X-Forwarded-For is believed

# Environment Variables

Flags fall back to environment variables:

	PORT, DATABASE_URL, DATABASE_TYPE, PUBLIC_BASE_URL,
	ADMIN_PASSWORD, SESSION_SECRET, SESSION_TTL,
	PHOTO_BUCKET_URL, MAX_PHOTO_BYTES, RATE_LIMIT, RATE_BURST,
	TRUSTED_PROXIES

CLI flags take precedence over environment variables.

# Defaults and Validation

  - DATABASE_URL and SESSION_SECRET must be provided
  - DATABASE_TYPE defaults to sqlite
  - SESSION_TTL defaults to 12h
  - photos default to file:///var/lib/gala/photos, at most 5 MiB each
  - 5 requests per second with a burst of 10; a rate of 0 disables
    limiting, otherwise the burst must be at least 1
  - SESSION_TTL must be positive

An empty ADMIN_PASSWORD is accepted; login then only works once a
password hash has been stored.
*/
package cliparse
