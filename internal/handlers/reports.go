package handlers

import (
	"net/http"
)

// Receivables lists missions that still owe money, largest balance first.
func (h *Handler) Receivables(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.Receivables(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list receivables")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// SelfCheck reports missions whose stored paid amount disagrees with the
// sum of their payment rows. A non-empty result means a write path skipped
// the re-derivation step.
func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.SelfCheck(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to run self check")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"drift_count": len(rows),
		"drift":       rows,
	})
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r)
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list audit logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
