// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/gala-registration/auth"
	"github.com/danielhkuo/gala-registration/cliparse"
	"github.com/danielhkuo/gala-registration/db"
	"github.com/danielhkuo/gala-registration/metrics"
	"github.com/danielhkuo/gala-registration/middleware"
	"github.com/danielhkuo/gala-registration/models"
)

var kitNumberPattern = regexp.MustCompile(`^\d+$`)

const (
	msgKitDigitsOnly      = "Kit number must contain only numbers (0-9)"
	msgRegistrationClosed = "Registration is currently closed. The registration period has ended."
)

type RegistrationHandler struct {
	db       *sqlx.DB
	cfg      cliparse.Config
	metrics  *metrics.Metrics
	snapshot *Snapshot
}

func NewRegistrationHandler(db *sqlx.DB, cfg cliparse.Config, m *metrics.Metrics, snapshot *Snapshot) *RegistrationHandler {
	return &RegistrationHandler{db: db, cfg: cfg, metrics: m, snapshot: snapshot}
}

// RegistrationStatus handles GET /api/registration-status
func (h *RegistrationHandler) RegistrationStatus(w http.ResponseWriter, r *http.Request) {
	isOpen, err := db.RegistrationOpen(r.Context(), h.db)
	if err != nil {
		slog.Error("failed to read registration status", "error", err)
		// Report open on failure, same as a missing setting
		middleware.JSONResponse(w, http.StatusInternalServerError, models.RegistrationStatusResponse{
			IsOpen: true,
			Error:  "Failed to fetch registration status",
		})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RegistrationStatusResponse{IsOpen: isOpen})
}

// CheckKit handles POST /api/check-kit
func (h *RegistrationHandler) CheckKit(w http.ResponseWriter, r *http.Request) {
	var req models.CheckKitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	kitNumber := strings.TrimSpace(string(req.KitNumber))
	if kitNumber == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Kit number is required")
		return
	}
	if !kitNumberPattern.MatchString(kitNumber) {
		middleware.JSONResponse(w, http.StatusBadRequest, models.CheckKitResponse{
			Available: false,
			Error:     msgKitDigitsOnly,
		})
		return
	}

	var count int
	err := h.db.GetContext(r.Context(), &count, h.db.Rebind(`
		SELECT COUNT(*) FROM registrations WHERE kit_number = ?
	`), kitNumber)
	if err != nil {
		slog.Error("failed to check kit number", "error", err)
		middleware.JSONResponse(w, http.StatusInternalServerError, models.CheckKitResponse{
			Available: false,
			Error:     "Internal server error",
		})
		return
	}

	if count > 0 {
		middleware.JSONResponse(w, http.StatusOK, models.CheckKitResponse{
			Available: false,
			Message:   "This kit number is already registered",
		})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CheckKitResponse{
		Available: true,
		Message:   "Kit number is available",
	})
}

// Register handles POST /api/register
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	isOpen, err := db.RegistrationOpen(r.Context(), h.db)
	if err != nil {
		slog.Error("failed to check registration status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to check registration status")
		return
	}
	if !isOpen {
		h.metrics.IncrementRejected(metrics.ReasonClosed)
		middleware.ErrorResponse(w, http.StatusForbidden, msgRegistrationClosed)
		return
	}

	var req models.RegistrationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		h.metrics.IncrementRejected(metrics.ReasonInvalid)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req, problem := normalizeRegistration(req)
	if problem != "" {
		h.metrics.IncrementRejected(metrics.ReasonInvalid)
		middleware.ErrorResponse(w, http.StatusBadRequest, problem)
		return
	}

	id := uuid.NewString()
	_, err = h.db.ExecContext(r.Context(), h.db.Rebind(`
		INSERT INTO registrations (
			id, full_name, kit_number, email, whatsapp_number, car_number_plate,
			house, profession, postal_address, attend_gala, morale, excited_for_gala,
			photo_url, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, req.FullName, req.KitNumber, req.Email, req.WhatsAppNumber, req.CarNumberPlate,
		req.House, req.Profession, req.PostalAddress, req.AttendGala, req.Morale, req.ExcitedForGala,
		req.PhotoURL, time.Now().UTC())

	if err != nil {
		if db.IsUniqueViolation(err) {
			h.metrics.IncrementRejected(metrics.ReasonDuplicate)
			middleware.ErrorResponse(w, http.StatusBadRequest, duplicateKitMessage(req.KitNumber))
			return
		}
		slog.Error("failed to insert registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	h.snapshot.Purge()
	h.metrics.RegistrationsCreated.Inc()

	slog.Info("registration created",
		"registration_id", id,
		"kit_number", req.KitNumber,
		"client", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Success: true,
		Message: "Registration successful! We look forward to seeing you at the Gala.",
		ID:      id,
	})
}

// normalizeRegistration trims every field, applies defaults and returns a
// message describing the first problem found, or "" when the form is valid
func normalizeRegistration(req models.RegistrationRequest) (models.RegistrationRequest, string) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.KitNumber = strings.TrimSpace(req.KitNumber)
	req.Email = strings.TrimSpace(req.Email)
	req.WhatsAppNumber = strings.TrimSpace(req.WhatsAppNumber)
	req.CarNumberPlate = strings.TrimSpace(req.CarNumberPlate)
	req.House = strings.TrimSpace(req.House)
	req.Profession = strings.TrimSpace(req.Profession)
	req.PostalAddress = strings.TrimSpace(req.PostalAddress)
	req.AttendGala = strings.TrimSpace(req.AttendGala)
	req.Morale = strings.TrimSpace(req.Morale)
	req.ExcitedForGala = strings.TrimSpace(req.ExcitedForGala)
	req.PhotoURL = strings.TrimSpace(req.PhotoURL)

	required := []struct {
		field string
		value string
	}{
		{"full_name", req.FullName},
		{"kit_number", req.KitNumber},
		{"email", req.Email},
		{"whatsapp_number", req.WhatsAppNumber},
		{"house", req.House},
		{"profession", req.Profession},
		{"attend_gala", req.AttendGala},
		{"morale", req.Morale},
		{"excited_for_gala", req.ExcitedForGala},
	}
	for _, f := range required {
		if f.value == "" {
			return req, f.field + " is required"
		}
	}

	if !kitNumberPattern.MatchString(req.KitNumber) {
		return req, msgKitDigitsOnly
	}

	if req.CarNumberPlate == "" {
		req.CarNumberPlate = models.DefaultCarNumberPlate
	}

	return req, ""
}

func duplicateKitMessage(kitNumber string) string {
	return fmt.Sprintf("Kit number %s has already been registered! Each kit number can only be registered once.", kitNumber)
}
