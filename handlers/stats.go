// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/gala-registration/metrics"
	"github.com/danielhkuo/gala-registration/middleware"
	"github.com/danielhkuo/gala-registration/stats"
)

// Report names used as the stats metric label
const (
	reportEntries = "entries"
	reportDigits  = "digits"
)

type StatsHandler struct {
	metrics  *metrics.Metrics
	snapshot *Snapshot
}

func NewStatsHandler(m *metrics.Metrics, snapshot *Snapshot) *StatsHandler {
	return &StatsHandler{metrics: m, snapshot: snapshot}
}

// GetEntryStats handles GET /api/admin/stats/entries
func (h *StatsHandler) GetEntryStats(w http.ResponseWriter, r *http.Request) {
	regs, _, err := h.snapshot.Registrations(r.Context())
	if err != nil {
		slog.Error("failed to load registrations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	start := time.Now()
	report := stats.NewEntryReport(stats.Aggregate(regs))
	h.metrics.ObserveStats(reportEntries, start)

	middleware.JSONResponse(w, http.StatusOK, report)
}

// GetDigitStats handles GET /api/admin/stats/digits
func (h *StatsHandler) GetDigitStats(w http.ResponseWriter, r *http.Request) {
	regs, _, err := h.snapshot.Registrations(r.Context())
	if err != nil {
		slog.Error("failed to load registrations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	start := time.Now()
	report := stats.NewDigitReport(stats.DigitCounts(regs))
	h.metrics.ObserveStats(reportDigits, start)

	middleware.JSONResponse(w, http.StatusOK, report)
}
