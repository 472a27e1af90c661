// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/gala-registration/db"
	"github.com/danielhkuo/gala-registration/middleware"
	"github.com/danielhkuo/gala-registration/models"
	"github.com/danielhkuo/gala-registration/photos"
)

// Admin list paging
const (
	DefaultPerPage = 20
	MaxPerPage     = 200
)

// csvHeader is the first row of the registrations export
var csvHeader = []string{
	"Full Name",
	"Kit Number",
	"Email",
	"WhatsApp Number",
	"Car Number Plate",
	"House",
	"Profession",
	"Postal Address",
	"Attending Gala",
	"Morale",
	"Excited for Gala",
	"Photo URL",
	"Registered On",
}

// utf8BOM lets spreadsheet tools detect the export encoding
const utf8BOM = "\ufeff"

// ListRegistrations handles GET /api/admin/registrations
func (h *AdminHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, ok := positiveParam(query.Get("page"), 1)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	perPage, ok := positiveParam(query.Get("per_page"), DefaultPerPage)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "per_page must be a positive integer")
		return
	}
	perPage = min(perPage, MaxPerPage)

	all, loadedAt, err := h.snapshot.Registrations(r.Context())
	if err != nil {
		slog.Error("failed to load registrations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch registrations")
		return
	}

	attending := 0
	for _, reg := range all {
		if reg.AttendGala == models.AttendingYes {
			attending++
		}
	}

	filtered := filterRegistrations(all, query.Get("q"))

	totalPages := (len(filtered) + perPage - 1) / perPage
	// Pages past the end are empty
	start := len(filtered)
	if page <= totalPages {
		start = (page - 1) * perPage
	}
	end := min(start+perPage, len(filtered))

	now := time.Now()
	data := make([]models.RegistrationView, 0, end-start)
	for _, reg := range filtered[start:end] {
		data = append(data, models.RegistrationView{
			Registration:  reg,
			RegisteredAgo: humanize.RelTime(reg.CreatedAt, now, "ago", "from now"),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.RegistrationListResponse{
		Data:       data,
		Count:      len(filtered),
		Total:      len(all),
		Attending:  attending,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Timestamp:  loadedAt,
	})
}

// GetRegistration handles GET /api/admin/registrations/{id}
func (h *AdminHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	reg, err := h.loadRegistration(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Registration not found")
		return
	}
	if err != nil {
		slog.Error("failed to query registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, reg)
}

// UpdateRegistration handles PUT /api/admin/registrations/{id}
func (h *AdminHandler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.RegistrationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req, problem := normalizeRegistration(req)
	if problem != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, problem)
		return
	}

	existing, err := h.loadRegistration(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Registration not found")
		return
	}
	if err != nil {
		slog.Error("failed to query registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// An edit without a photo keeps the current one
	if req.PhotoURL == "" {
		req.PhotoURL = existing.PhotoURL
	}

	result, err := h.db.ExecContext(r.Context(), h.db.Rebind(`
		UPDATE registrations
		SET full_name = ?, kit_number = ?, email = ?, whatsapp_number = ?, car_number_plate = ?,
		    house = ?, profession = ?, postal_address = ?, attend_gala = ?, morale = ?,
		    excited_for_gala = ?, photo_url = ?
		WHERE id = ?
	`), req.FullName, req.KitNumber, req.Email, req.WhatsAppNumber, req.CarNumberPlate,
		req.House, req.Profession, req.PostalAddress, req.AttendGala, req.Morale,
		req.ExcitedForGala, req.PhotoURL, id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusBadRequest, duplicateKitMessage(req.KitNumber))
			return
		}
		slog.Error("failed to update registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update registration")
		return
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Registration not found")
		return
	}

	h.snapshot.Purge()
	if req.PhotoURL != existing.PhotoURL {
		h.removePhoto(r.Context(), existing.PhotoURL)
	}

	updated := models.Registration{
		ID:             id,
		FullName:       req.FullName,
		KitNumber:      req.KitNumber,
		Email:          req.Email,
		WhatsAppNumber: req.WhatsAppNumber,
		CarNumberPlate: req.CarNumberPlate,
		House:          req.House,
		Profession:     req.Profession,
		PostalAddress:  req.PostalAddress,
		AttendGala:     req.AttendGala,
		Morale:         req.Morale,
		ExcitedForGala: req.ExcitedForGala,
		PhotoURL:       req.PhotoURL,
		CreatedAt:      existing.CreatedAt,
	}

	slog.Info("registration updated", "registration_id", id, "kit_number", updated.KitNumber)

	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeleteRegistration handles DELETE /api/admin/registrations/{id}
func (h *AdminHandler) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.loadRegistration(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Registration not found")
		return
	}
	if err != nil {
		slog.Error("failed to query registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	result, err := h.db.ExecContext(r.Context(), h.db.Rebind(`
		DELETE FROM registrations WHERE id = ?
	`), id)
	if err != nil {
		slog.Error("failed to delete registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete registration")
		return
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Registration not found")
		return
	}

	h.snapshot.Purge()
	h.metrics.RegistrationsDeleted.Inc()
	h.removePhoto(r.Context(), existing.PhotoURL)

	slog.Info("registration deleted", "registration_id", id, "kit_number", existing.KitNumber)

	middleware.JSONResponse(w, http.StatusOK, models.DeleteRegistrationResponse{
		Success: true,
		Deleted: existing,
	})
}

// ExportRegistrations handles GET /api/admin/registrations/export
func (h *AdminHandler) ExportRegistrations(w http.ResponseWriter, r *http.Request) {
	all, loadedAt, err := h.snapshot.Registrations(r.Context())
	if err != nil {
		slog.Error("failed to load registrations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch registrations")
		return
	}

	filename := "registrations-" + loadedAt.Format(time.DateOnly) + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(utf8BOM)); err != nil {
		slog.Error("failed to write export", "error", err)
		return
	}

	cw := csv.NewWriter(w)
	cw.Write(csvHeader)
	for _, reg := range all {
		cw.Write([]string{
			reg.FullName,
			reg.KitNumber,
			reg.Email,
			reg.WhatsAppNumber,
			reg.CarNumberPlate,
			reg.House,
			reg.Profession,
			reg.PostalAddress,
			reg.AttendGala,
			reg.Morale,
			reg.ExcitedForGala,
			reg.PhotoURL,
			reg.CreatedAt.UTC().Format(time.DateTime),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to write export", "error", err)
		return
	}

	slog.Info("registrations exported", "rows", len(all))
}

func (h *AdminHandler) loadRegistration(ctx context.Context, id string) (models.Registration, error) {
	var reg models.Registration
	err := h.db.GetContext(ctx, &reg, h.db.Rebind(`
		SELECT id, full_name, kit_number, email, whatsapp_number, car_number_plate,
		       house, profession, postal_address, attend_gala, morale, excited_for_gala,
		       photo_url, created_at
		FROM registrations
		WHERE id = ?
	`), id)
	return reg, err
}

// removePhoto deletes a photo we host; failures are only logged
func (h *AdminHandler) removePhoto(ctx context.Context, photoURL string) {
	if h.photos == nil || photoURL == "" {
		return
	}
	key, ok := h.photos.KeyFromURL(photoURL)
	if !ok {
		return
	}
	if err := h.photos.Delete(ctx, key); err != nil && !errors.Is(err, photos.ErrNotFound) {
		slog.Warn("failed to delete photo", "key", key, "error", err)
	}
}

// filterRegistrations keeps registrations whose name, kit number, WhatsApp
// number or car plate contains q, ignoring case
func filterRegistrations(regs []models.Registration, q string) []models.Registration {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return regs
	}

	var out []models.Registration
	for _, reg := range regs {
		if strings.Contains(strings.ToLower(reg.FullName), q) ||
			strings.Contains(strings.ToLower(reg.KitNumber), q) ||
			strings.Contains(strings.ToLower(reg.WhatsAppNumber), q) ||
			strings.Contains(strings.ToLower(reg.CarNumberPlate), q) {
			out = append(out, reg)
		}
	}
	return out
}

// positiveParam parses an optional positive integer query parameter
func positiveParam(raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
