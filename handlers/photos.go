// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/gala-registration/metrics"
	"github.com/danielhkuo/gala-registration/middleware"
	"github.com/danielhkuo/gala-registration/models"
	"github.com/danielhkuo/gala-registration/photos"
)

// multipartOverhead is allowed on top of the photo size for form framing
const multipartOverhead = 64 << 10

// Photo upload results used as the upload metric label
const (
	uploadStored   = "stored"
	uploadTooLarge = "too_large"
	uploadNotImage = "not_image"
	uploadInvalid  = "invalid"
	uploadError    = "error"
)

type PhotoHandler struct {
	store   *photos.Store
	metrics *metrics.Metrics
}

func NewPhotoHandler(store *photos.Store, m *metrics.Metrics) *PhotoHandler {
	return &PhotoHandler{store: store, metrics: m}
}

// Upload handles POST /api/photos (multipart field "photo", optional "kit_number")
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.store.MaxBytes()+multipartOverhead)

	file, _, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectTooLarge(w)
			return
		}
		h.metrics.PhotoUploads.WithLabelValues(uploadInvalid).Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	photo, err := h.store.Upload(r.Context(), file, r.FormValue("kit_number"))
	switch {
	case errors.Is(err, photos.ErrTooLarge):
		h.rejectTooLarge(w)
		return
	case errors.Is(err, photos.ErrNotImage):
		h.metrics.PhotoUploads.WithLabelValues(uploadNotImage).Inc()
		middleware.ErrorResponse(w, http.StatusUnsupportedMediaType, "Only image files can be uploaded")
		return
	case errors.Is(err, photos.ErrEmpty):
		h.metrics.PhotoUploads.WithLabelValues(uploadInvalid).Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, "Photo is empty")
		return
	case err != nil:
		h.metrics.PhotoUploads.WithLabelValues(uploadError).Inc()
		slog.Error("failed to store photo", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to upload photo")
		return
	}

	h.metrics.PhotoUploads.WithLabelValues(uploadStored).Inc()
	slog.Info("photo uploaded", "key", photo.Key, "content_type", photo.ContentType, "size", humanize.IBytes(uint64(photo.Size)))

	middleware.JSONResponse(w, http.StatusCreated, models.PhotoUploadResponse{
		PhotoURL: photo.URL,
		Key:      photo.Key,
	})
}

// Serve handles GET /photos/{key}
func (h *PhotoHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	rd, err := h.store.NewReader(r.Context(), key)
	if errors.Is(err, photos.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Photo not found")
		return
	}
	if err != nil {
		slog.Error("failed to open photo", "key", key, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load photo")
		return
	}
	defer rd.Close()

	w.Header().Set("Content-Type", rd.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, key, rd.ModTime(), rd)
}

func (h *PhotoHandler) rejectTooLarge(w http.ResponseWriter) {
	h.metrics.PhotoUploads.WithLabelValues(uploadTooLarge).Inc()
	middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
		"Photo must be "+humanize.IBytes(uint64(h.store.MaxBytes()))+" or smaller")
}
