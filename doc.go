// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the gala registration API server.

The server takes member registrations for an alumni gala, hands out kit
numbers first come first served, and gives organisers an admin console
API with search, CSV export, and statistics of registered kit numbers
grouped by entry (intake year).

# Starting the Server

Only a session secret is strictly required; SQLite is the default store:

	SESSION_SECRET=... ADMIN_PASSWORD=... go run . -d gala.db

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." --session-secret ...

Variables in .env.local and .env are loaded first; real environment
variables always win.

# Configuration

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SESSION_SECRET (--session-secret): admin token signing key (required)
  - ADMIN_PASSWORD (--admin-password): bootstrap admin password
  - PHOTO_BUCKET_URL (--photos): file:///path or mem://
  - PUBLIC_BASE_URL (--base-url): prefix for photo links
  - PORT (-p): Server port (default: 3318)

# Architecture

  - handlers: registration, admin, stats and photo handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, admin sessions, rate limiting
  - stats: kit number classification and aggregation
  - photos: blob-backed photo storage
  - models: Request/response types
  - auth: password hashing and session tokens
  - db: Connection, schema and settings
  - metrics: Prometheus collectors
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
