package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"fleetcab/internal/middleware"
	"fleetcab/internal/services"
)

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r)
	expenses, err := h.expenses.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list expenses")
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

type expenseRequest struct {
	VehicleID     *string    `json:"vehicle_id"`
	DriverID      *string    `json:"driver_id"`
	MaintenanceID *string    `json:"maintenance_id"`
	Category      string     `json:"category"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	Description   string     `json:"description"`
	SpentAt       *time.Time `json:"spent_at"`
}

func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	spentAt := time.Time{}
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}
	expenseID, err := h.booking.RecordExpense(r.Context(), services.ExpenseRequest{
		ActorID:       actorID,
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		MaintenanceID: req.MaintenanceID,
		Category:      req.Category,
		Amount:        amountMinor,
		Currency:      req.Currency,
		Description:   req.Description,
		SpentAt:       spentAt,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": expenseID})
}
