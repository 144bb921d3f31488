package handlers

import (
	"net/http"
	"strconv"
)

// ListAlerts runs the expiry scan. The horizon defaults to 30 days; a
// horizon query parameter overrides it.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	horizonDays := 0
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "horizon must be a positive integer")
			return
		}
		horizonDays = parsed
	}
	alerts, err := h.alerts.Scan(r.Context(), horizonDays)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to scan for alerts")
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}
