// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/gala-registration/auth"
	"github.com/danielhkuo/gala-registration/cliparse"
	"github.com/danielhkuo/gala-registration/db"
	"github.com/danielhkuo/gala-registration/metrics"
	"github.com/danielhkuo/gala-registration/middleware"
	"github.com/danielhkuo/gala-registration/models"
	"github.com/danielhkuo/gala-registration/photos"
)

type AdminHandler struct {
	db       *sqlx.DB
	cfg      cliparse.Config
	sessions *auth.Sessions
	metrics  *metrics.Metrics
	snapshot *Snapshot
	photos   *photos.Store
}

func NewAdminHandler(db *sqlx.DB, cfg cliparse.Config, sessions *auth.Sessions, m *metrics.Metrics, snapshot *Snapshot, store *photos.Store) *AdminHandler {
	return &AdminHandler{
		db:       db,
		cfg:      cfg,
		sessions: sessions,
		metrics:  m,
		snapshot: snapshot,
		photos:   store,
	}
}

// Login handles POST /api/admin
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password is required")
		return
	}

	if err := h.verifyPassword(r, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPassword):
			slog.Warn("admin login failed", "client", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret))
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
		case errors.Is(err, auth.ErrNoPassword):
			slog.Error("admin login attempted with no password configured")
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Admin password not configured")
		default:
			slog.Error("failed to verify admin password", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify password")
		}
		return
	}

	token, expiresAt, err := h.sessions.Issue(time.Now())
	if err != nil {
		slog.Error("failed to issue admin session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("admin logged in", "expires_at", expiresAt)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// ChangePassword handles POST /api/admin/change-password
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"Password must be at least "+strconv.Itoa(auth.MinPasswordLength)+" characters long")
		return
	}

	if err := h.verifyPassword(r, req.CurrentPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPassword):
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, auth.ErrNoPassword):
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Admin password not configured")
		default:
			slog.Error("failed to verify admin password", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify password")
		}
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password must be at most 72 bytes long")
		return
	}
	if err != nil {
		slog.Error("failed to hash admin password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	if err := db.PutSetting(r.Context(), h.db, db.SettingAdminPassword, hashed, time.Now().UTC()); err != nil {
		slog.Error("failed to store admin password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	slog.Info("admin password changed")

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}

// GetRegistrationStatus handles GET /api/admin/registration-status
func (h *AdminHandler) GetRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	isOpen, err := db.RegistrationOpen(r.Context(), h.db)
	if err != nil {
		slog.Error("failed to read registration status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch registration status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RegistrationStatusResponse{IsOpen: isOpen})
}

// SetRegistrationStatus handles POST /api/admin/registration-status
func (h *AdminHandler) SetRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	var req models.SetRegistrationStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil || req.IsOpen == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "isOpen must be a boolean value")
		return
	}

	isOpen := *req.IsOpen
	if err := db.PutSetting(r.Context(), h.db, db.SettingRegistrationOpen, strconv.FormatBool(isOpen), time.Now().UTC()); err != nil {
		slog.Error("failed to update registration status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update registration status")
		return
	}

	message := "Registration is now closed"
	if isOpen {
		message = "Registration is now open"
	}
	slog.Info("registration status changed", "is_open", isOpen)

	middleware.JSONResponse(w, http.StatusOK, models.SetRegistrationStatusResponse{
		Success: true,
		IsOpen:  isOpen,
		Message: message,
	})
}

// verifyPassword checks a password against the stored hash, falling back to
// the configured bootstrap password
func (h *AdminHandler) verifyPassword(r *http.Request, password string) error {
	stored, _, err := db.GetSetting(r.Context(), h.db, db.SettingAdminPassword)
	if err != nil {
		return err
	}
	return auth.VerifyPassword(password, stored, h.cfg.AdminPassword)
}
