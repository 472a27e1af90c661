// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/gala-registration/auth"
	"github.com/danielhkuo/gala-registration/cliparse"
	"github.com/danielhkuo/gala-registration/handlers"
	"github.com/danielhkuo/gala-registration/metrics"
	"github.com/danielhkuo/gala-registration/middleware"
	"github.com/danielhkuo/gala-registration/photos"
)

func NewRouter(db *sqlx.DB, cfg cliparse.Config, store *photos.Store, m *metrics.Metrics, limiter *middleware.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	snapshot := handlers.NewSnapshot(db, handlers.SnapshotTTL)

	limiter.OnLimited = func(r *http.Request) {
		if r.URL.Path == "/api/register" {
			m.IncrementRejected(metrics.ReasonRateLimited)
		}
	}

	// Initialize handlers
	registrationHandler := handlers.NewRegistrationHandler(db, cfg, m, snapshot)
	adminHandler := handlers.NewAdminHandler(db, cfg, sessions, m, snapshot, store)
	statsHandler := handlers.NewStatsHandler(m, snapshot)
	photoHandler := handlers.NewPhotoHandler(store, m)

	// handle logs and measures every route; the metric label is the path pattern
	handle := func(pattern string, h http.HandlerFunc) {
		_, route, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(m, route, h)))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.NoStore(middleware.RequireAdmin(sessions, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Public registration
	handle("GET /api/registration-status", middleware.NoStore(registrationHandler.RegistrationStatus))
	handle("POST /api/check-kit", limiter.Limit(registrationHandler.CheckKit))
	handle("POST /api/register", limiter.Limit(registrationHandler.Register))

	// Photos
	handle("POST /api/photos", limiter.Limit(photoHandler.Upload))
	handle("GET "+photos.RoutePrefix+"{key}", photoHandler.Serve)

	// Admin session
	handle("POST /api/admin", middleware.NoStore(limiter.Limit(adminHandler.Login)))
	handle("POST /api/admin/change-password", admin(adminHandler.ChangePassword))

	// Admin registrations
	handle("GET /api/admin/registrations", admin(adminHandler.ListRegistrations))
	handle("GET /api/admin/registrations/export", admin(adminHandler.ExportRegistrations))
	handle("GET /api/admin/registrations/{id}", admin(adminHandler.GetRegistration))
	handle("PUT /api/admin/registrations/{id}", admin(adminHandler.UpdateRegistration))
	handle("DELETE /api/admin/registrations/{id}", admin(adminHandler.DeleteRegistration))

	// Admin settings and statistics
	handle("GET /api/admin/registration-status", admin(adminHandler.GetRegistrationStatus))
	handle("POST /api/admin/registration-status", admin(adminHandler.SetRegistrationStatus))
	handle("GET /api/admin/stats/entries", admin(statsHandler.GetEntryStats))
	handle("GET /api/admin/stats/digits", admin(statsHandler.GetDigitStats))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("gala-registration API v1"))
	})

	return mux
}
