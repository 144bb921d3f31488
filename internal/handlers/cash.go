package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"fleetcab/internal/middleware"
	"fleetcab/internal/services"
)

func (h *Handler) ListCashEntries(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r)
	entries, err := h.cash.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list cash entries")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

type manualEntryRequest struct {
	Direction   string     `json:"direction"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency"`
	Description string     `json:"description"`
	EntryAt     *time.Time `json:"entry_at"`
}

func (h *Handler) RecordManualEntry(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req manualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	entryAt := time.Time{}
	if req.EntryAt != nil {
		entryAt = *req.EntryAt
	}
	entryID, err := h.booking.RecordManualEntry(r.Context(), services.ManualEntryRequest{
		ActorID:     actorID,
		Direction:   req.Direction,
		Amount:      amountMinor,
		Currency:    req.Currency,
		Description: req.Description,
		EntryAt:     entryAt,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": entryID})
}

func (h *Handler) CashBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.reports.Balances(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to compute balances")
		return
	}
	respondJSON(w, http.StatusOK, balances)
}

func (h *Handler) CashFlux(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeParam(r, "from")
	if err != nil || from == nil {
		respondError(w, http.StatusBadRequest, "from is required (RFC 3339)")
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil || to == nil {
		respondError(w, http.StatusBadRequest, "to is required (RFC 3339)")
		return
	}
	flux, err := h.reports.Flux(r.Context(), r.URL.Query().Get("currency"), *from, *to)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flux)
}
