// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the gala registration API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, store, metrics.New(), limiter)

Every API route is wrapped in request logging and Prometheus metrics,
labelled by its path pattern.

# Endpoints

Operational:

	GET /health  - Liveness check
	GET /metrics - Prometheus exposition

Public (register, check-kit, photo uploads and admin login are rate
limited per client):

	GET  /api/registration-status - Whether registration is open
	POST /api/check-kit           - Kit number availability
	POST /api/register            - Submit a registration
	POST /api/photos              - Upload a profile photo
	GET  /photos/{key}            - Serve an uploaded photo

Admin (Authorization: Bearer <token> from POST /api/admin):

	POST   /api/admin                        - Log in
	POST   /api/admin/change-password        - Replace the admin password
	GET    /api/admin/registrations          - Search and paginate
	GET    /api/admin/registrations/export   - CSV download
	GET    /api/admin/registrations/{id}     - One registration
	PUT    /api/admin/registrations/{id}     - Edit a registration
	DELETE /api/admin/registrations/{id}     - Remove a registration
	GET    /api/admin/registration-status    - Read the open flag
	POST   /api/admin/registration-status    - Open or close registration
	GET    /api/admin/stats/entries          - Counts per entry number
	GET    /api/admin/stats/digits           - Counts per kit number length

Admin responses are marked no-store.

# Shared State

The registration, admin and stats handlers share one Snapshot of the
registrations table, so writes through any of them invalidate the cached
list and statistics.
*/
package router
