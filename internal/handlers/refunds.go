package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"fleetcab/internal/middleware"
	"fleetcab/internal/models"
	"fleetcab/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	refunds, err := h.refunds.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list refunds")
		return
	}
	respondJSON(w, http.StatusOK, refunds)
}

func (h *Handler) GetRefund(w http.ResponseWriter, r *http.Request) {
	refund, err := h.refunds.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "refund not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load refund")
		return
	}
	respondJSON(w, http.StatusOK, refund)
}

type createRefundRequest struct {
	MissionID  *string `json:"mission_id"`
	ClientName string  `json:"client_name"`
	Amount     string  `json:"amount"`
	Currency   string  `json:"currency"`
	Reason     string  `json:"reason"`
	Notes      string  `json:"notes"`
}

func (h *Handler) CreateRefund(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	refund, err := h.refundSvc.Create(r.Context(), services.RefundRequest{
		ActorID:    actorID,
		MissionID:  req.MissionID,
		ClientName: req.ClientName,
		Amount:     amountMinor,
		Currency:   req.Currency,
		Reason:     req.Reason,
		Notes:      req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, refund)
}

type transitionRefundRequest struct {
	Status string `json:"status"`
}

func (h *Handler) TransitionRefund(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req transitionRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	refund, err := h.refundSvc.Transition(r.Context(), actorID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, refund)
}

// DeleteRefund only removes requests still sitting in Pending; anything
// already in review keeps its trail.
func (h *Handler) DeleteRefund(w http.ResponseWriter, r *http.Request) {
	refundID := chi.URLParam(r, "id")
	refund, err := h.refunds.GetByID(r.Context(), refundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "refund not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load refund")
		return
	}
	if refund.Status != models.RefundPending {
		respondError(w, http.StatusConflict, "only pending refunds can be deleted")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.refunds.Delete(r.Context(), tx, refundID)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete refund")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
