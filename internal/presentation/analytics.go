package presentation

import (
	"net/http"

	"github.com/RaikyD/store-admin/internal/application"
	"github.com/RaikyD/store-admin/internal/presentation/helpers"
	"github.com/go-chi/chi/v5"
)

type AnalyticsHandler struct {
	svc *application.AnalyticsService
}

func NewAnalyticsHandler(svc *application.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) Register(r chi.Router) {
	r.Get("/analytics", h.Report)
	r.Get("/analytics/monthly", h.Monthly)
	r.Get("/dashboard", h.Dashboard)
}

func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	days, ok := helpers.QueryInt(r, "range", application.DefaultRangeDays)
	if !ok {
		helpers.HttpError(w, http.StatusBadRequest, "range must be a positive number of days")
		return
	}

	rep, err := h.svc.Report(r.Context(), days)
	if err != nil {
		writeError(w, err, "failed to build analytics")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, rep)
}

func (h *AnalyticsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	months, ok := helpers.QueryInt(r, "months", 12)
	if !ok {
		helpers.HttpError(w, http.StatusBadRequest, "months must be a positive number")
		return
	}

	points, err := h.svc.Monthly(r.Context(), months)
	if err != nil {
		writeError(w, err, "failed to build monthly revenue")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"monthlyRevenue": points})
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeError(w, err, "failed to load dashboard")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, d)
}
