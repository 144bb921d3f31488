package handlers

import (
	"encoding/json"
	"net/http"

	"fleetcab/internal/money"
	"fleetcab/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) ListTariffs(w http.ResponseWriter, r *http.Request) {
	tariffs, err := h.tariffs.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list tariffs")
		return
	}
	respondJSON(w, http.StatusOK, tariffs)
}

// QuoteRate looks up the tariff for a (category, service type) pair. A
// missing tariff answers found=false rather than 404: booking proceeds
// with a manual price.
func (h *Handler) QuoteRate(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	serviceType := r.URL.Query().Get("service_type")
	if category == "" || serviceType == "" {
		respondError(w, http.StatusBadRequest, "category and service_type are required")
		return
	}
	tariff, found, err := h.booking.QuoteRate(r.Context(), category, serviceType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to look up tariff")
		return
	}
	if !found {
		respondJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"found":      true,
		"base_price": tariff.BasePrice,
		"currency":   tariff.Currency,
	})
}

type tariffRequest struct {
	VehicleCategory string `json:"vehicle_category"`
	ServiceType     string `json:"service_type"`
	BasePrice       string `json:"base_price"`
	Currency        string `json:"currency"`
}

func (h *Handler) CreateTariff(w http.ResponseWriter, r *http.Request) {
	var req tariffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.VehicleCategory == "" || req.ServiceType == "" {
		respondError(w, http.StatusBadRequest, "vehicle_category and service_type are required")
		return
	}
	priceMinor, err := parseAmountMinor(req.BasePrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid base_price")
		return
	}
	currency, err := money.Validate(req.Currency)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tariffID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.tariffs.Create(r.Context(), tx, store.TariffInput{
			ID:              tariffID,
			VehicleCategory: req.VehicleCategory,
			ServiceType:     req.ServiceType,
			BasePrice:       priceMinor,
			Currency:        currency,
		})
	})
	if err != nil {
		respondError(w, http.StatusConflict, "tariff already exists for this category and service type")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": tariffID})
}

func (h *Handler) UpdateTariff(w http.ResponseWriter, r *http.Request) {
	var req tariffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	priceMinor, err := parseAmountMinor(req.BasePrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid base_price")
		return
	}
	currency, err := money.Validate(req.Currency)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.tariffs.Update(r.Context(), tx, store.TariffInput{
			ID:              chi.URLParam(r, "id"),
			VehicleCategory: req.VehicleCategory,
			ServiceType:     req.ServiceType,
			BasePrice:       priceMinor,
			Currency:        currency,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update tariff")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) DeleteTariff(w http.ResponseWriter, r *http.Request) {
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.tariffs.Delete(r.Context(), tx, chi.URLParam(r, "id"))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete tariff")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
