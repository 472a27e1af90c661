// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the gala registration API.

# Handler Types

Each handler is a struct with its dependencies injected by constructor:

  - RegistrationHandler: registration status, kit checks, registering
  - AdminHandler: login, password change, registration management, export
  - StatsHandler: entry and digit-length statistics
  - PhotoHandler: photo upload and serving

Handlers that read registrations share one Snapshot:

	snapshot := handlers.NewSnapshot(db, handlers.SnapshotTTL)
	registrationHandler := handlers.NewRegistrationHandler(db, cfg, m, snapshot)

# Registration Flow

	GET  /api/registration-status → RegistrationStatus
	POST /api/check-kit           → CheckKit
	POST /api/photos              → PhotoHandler.Upload (optional)
	POST /api/register            → Register

Kit numbers are unique. The database constraint decides races, so two
members submitting the same number at once get one 201 and one 400.
Registering is refused with 403 while the registration_open setting
is "false".

# Snapshot

Listing, export and statistics read from a Snapshot: the full
registrations table cached for a short TTL. Every write purges it.

# Admin

Admin routes require a bearer token from Login. The stored bcrypt hash
in admin_settings takes precedence over the configured password.
*/
package handlers
