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

type vehicleRequest struct {
	Plate            string     `json:"plate"`
	Brand            string     `json:"brand"`
	Model            string     `json:"model"`
	Category         string     `json:"category"`
	Mileage          int64      `json:"mileage"`
	Status           string     `json:"status"`
	NextRevisionDate *time.Time `json:"next_revision_date"`
}

func validVehicleStatus(status string) bool {
	switch status {
	case models.VehicleFree, models.VehicleAssigned, models.VehicleMaintenance, models.VehicleOutOfService:
		return true
	}
	return false
}

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list vehicles")
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.vehicles.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load vehicle")
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidatePlate(req.Plate); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		req.Status = models.VehicleFree
	}
	if !validVehicleStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid vehicle status")
		return
	}
	vehicleID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.vehicles.Create(r.Context(), tx, store.VehicleInput{
			ID:               vehicleID,
			Plate:            req.Plate,
			Brand:            req.Brand,
			Model:            req.Model,
			Category:         req.Category,
			Mileage:          req.Mileage,
			Status:           req.Status,
			NextRevisionDate: req.NextRevisionDate,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create vehicle")
		return
	}
	vehicle, err := h.vehicles.GetByID(r.Context(), vehicleID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load vehicle")
		return
	}
	respondJSON(w, http.StatusCreated, vehicle)
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "id")
	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidatePlate(req.Plate); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validVehicleStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid vehicle status")
		return
	}
	if _, err := h.vehicles.GetByID(r.Context(), vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load vehicle")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.vehicles.Update(r.Context(), tx, store.VehicleInput{
			ID:               vehicleID,
			Plate:            req.Plate,
			Brand:            req.Brand,
			Model:            req.Model,
			Category:         req.Category,
			Mileage:          req.Mileage,
			Status:           req.Status,
			NextRevisionDate: req.NextRevisionDate,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update vehicle")
		return
	}
	vehicle, err := h.vehicles.GetByID(r.Context(), vehicleID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load vehicle")
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "id")
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.vehicles.Delete(r.Context(), tx, vehicleID)
	})
	if err != nil {
		respondError(w, http.StatusConflict, "vehicle is referenced by missions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListAvailableVehicles filters on the half-open window [start, end).
// Without both bounds the occupancy filter is bypassed; exclude_mission_id
// keeps a mission's own slot from hiding its assigned vehicle while
// editing.
func (h *Handler) ListAvailableVehicles(w http.ResponseWriter, r *http.Request) {
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
	vehicles, err := h.vehicles.ListAvailable(r.Context(), start, end, excludeMissionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list vehicles")
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}
