package controllers

import (
	"net/http"
	"strconv"

	"github.com/karyatex/konveksi-backend/api/responses"
	"github.com/karyatex/konveksi-backend/internal/dashboard"
	"github.com/karyatex/konveksi-backend/pkg/logger"
)

// DashboardSummary aggregates per-domain counts over an optional window.
func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := parseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window := dashboard.Range{}
		if from != nil {
			window.From = *from
		}
		if to != nil {
			window.To = *to
		}

		summary, err := svc.Summarize(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// DashboardEstimateReminders lists forecasts whose estimates are still unsent.
func DashboardEstimateReminders(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				limit = parsed
			}
		}
		list, err := svc.UpcomingEstimates(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// DashboardDepositReminders lists deposits past their reminder cutoff.
func DashboardDepositReminders(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.DueDepositReminders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
