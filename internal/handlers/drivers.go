package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fleetcab/internal/models"
	"fleetcab/internal/store"
	"fleetcab/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type driverRequest struct {
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	ContractType  string    `json:"contract_type"`
	LicenseExpiry time.Time `json:"license_expiry"`
	Status        string    `json:"status"`
	HiredAt       time.Time `json:"hired_at"`
}

func validDriverStatus(status string) bool {
	switch status {
	case models.DriverAvailable, models.DriverOnMission, models.DriverResting, models.DriverSickLeave:
		return true
	}
	return false
}

func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.drivers.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list drivers")
		return
	}
	respondJSON(w, http.StatusOK, drivers)
}

func (h *Handler) GetDriver(w http.ResponseWriter, r *http.Request) {
	driver, err := h.drivers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "driver not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load driver")
		return
	}
	respondJSON(w, http.StatusOK, driver)
}

func (h *Handler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req driverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		respondError(w, http.StatusBadRequest, "first and last name are required")
		return
	}
	if req.Email != "" {
		if err := validator.ValidateEmail(req.Email); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Status == "" {
		req.Status = models.DriverAvailable
	}
	if !validDriverStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid driver status")
		return
	}
	driverID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.drivers.Create(r.Context(), tx, store.DriverInput{
			ID:            driverID,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Phone:         req.Phone,
			Email:         req.Email,
			ContractType:  req.ContractType,
			LicenseExpiry: req.LicenseExpiry,
			Status:        req.Status,
			HiredAt:       req.HiredAt,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create driver")
		return
	}
	driver, err := h.drivers.GetByID(r.Context(), driverID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load driver")
		return
	}
	respondJSON(w, http.StatusCreated, driver)
}

func (h *Handler) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "id")
	var req driverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !validDriverStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid driver status")
		return
	}
	if _, err := h.drivers.GetByID(r.Context(), driverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "driver not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load driver")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.drivers.Update(r.Context(), tx, store.DriverInput{
			ID:            driverID,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Phone:         req.Phone,
			Email:         req.Email,
			ContractType:  req.ContractType,
			LicenseExpiry: req.LicenseExpiry,
			Status:        req.Status,
			HiredAt:       req.HiredAt,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update driver")
		return
	}
	driver, err := h.drivers.GetByID(r.Context(), driverID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load driver")
		return
	}
	respondJSON(w, http.StatusOK, driver)
}

func (h *Handler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "id")
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.drivers.Delete(r.Context(), tx, driverID)
	})
	if err != nil {
		respondError(w, http.StatusConflict, "driver is referenced by missions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListAvailableDrivers(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeParam(r, "start")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start")
		return
	}
	end, err := parseTimeParam(r, "end")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid end")
		return
	}
	var excludeMissionID *string
	if raw := r.URL.Query().Get("exclude_mission_id"); raw != "" {
		excludeMissionID = &raw
	}
	drivers, err := h.drivers.ListAvailable(r.Context(), start, end, excludeMissionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list drivers")
		return
	}
	respondJSON(w, http.StatusOK, drivers)
}
