package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fleetcab/internal/middleware"
	"fleetcab/internal/services"
	"fleetcab/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) ListMissions(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r)
	missions, err := h.missions.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list missions")
		return
	}
	respondJSON(w, http.StatusOK, missions)
}

func (h *Handler) GetMission(w http.ResponseWriter, r *http.Request) {
	mission, err := h.missions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "mission not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load mission")
		return
	}
	respondJSON(w, http.StatusOK, mission)
}

type createMissionRequest struct {
	VehicleID      string    `json:"vehicle_id"`
	DriverID       string    `json:"driver_id"`
	ClientName     string    `json:"client_name"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	ServiceType    string    `json:"service_type"`
	Currency       string    `json:"currency"`
	TotalAmount    string    `json:"total_amount"`
	InitialPayment string    `json:"initial_payment"`
	PaymentMethod  string    `json:"payment_method"`
	PaymentNotes   string    `json:"payment_notes"`
}

func (h *Handler) CreateMission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	totalMinor, err := parseOptionalAmountMinor(req.TotalAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid total_amount")
		return
	}
	initialMinor, err := parseOptionalAmountMinor(req.InitialPayment)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid initial_payment")
		return
	}
	mission, err := h.booking.CreateMissionWithPayment(r.Context(), services.BookingRequest{
		ActorID:        actorID,
		VehicleID:      req.VehicleID,
		DriverID:       req.DriverID,
		ClientName:     req.ClientName,
		Origin:         req.Origin,
		Destination:    req.Destination,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		ServiceType:    req.ServiceType,
		Currency:       req.Currency,
		TotalAmount:    totalMinor,
		InitialPayment: initialMinor,
		PaymentMethod:  req.PaymentMethod,
		PaymentNotes:   req.PaymentNotes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mission)
}

type updateMissionRequest struct {
	VehicleID      string    `json:"vehicle_id"`
	DriverID       string    `json:"driver_id"`
	ClientName     string    `json:"client_name"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	ServiceType    string    `json:"service_type"`
	Currency       string    `json:"currency"`
	TotalAmount    string    `json:"total_amount"`
}

// UpdateMission edits the non-financial mission fields plus the agreed
// total. The paid amount is never writable from the outside; balance due
// is recomputed from total and the payment rows.
func (h *Handler) UpdateMission(w http.ResponseWriter, r *http.Request) {
	missionID := chi.URLParam(r, "id")
	var req updateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	totalMinor, err := parseOptionalAmountMinor(req.TotalAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid total_amount")
		return
	}
	if !req.ScheduledEnd.After(req.ScheduledStart) {
		respondError(w, http.StatusBadRequest, "scheduled end must be after scheduled start")
		return
	}
	if _, err := h.missions.GetByID(r.Context(), missionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "mission not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load mission")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.missions.Update(r.Context(), tx, store.MissionInput{
			ID:             missionID,
			VehicleID:      req.VehicleID,
			DriverID:       req.DriverID,
			ClientName:     req.ClientName,
			Origin:         req.Origin,
			Destination:    req.Destination,
			ScheduledStart: req.ScheduledStart,
			ScheduledEnd:   req.ScheduledEnd,
			ServiceType:    req.ServiceType,
			Currency:       req.Currency,
			TotalAmount:    totalMinor,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update mission")
		return
	}
	mission, err := h.missions.GetByID(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load mission")
		return
	}
	respondJSON(w, http.StatusOK, mission)
}

func (h *Handler) DeleteMission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.booking.DeleteMission(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) StartMission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	missionID := chi.URLParam(r, "id")
	if err := h.booking.StartMission(r.Context(), actorID, missionID); err != nil {
		respondServiceError(w, err)
		return
	}
	mission, err := h.missions.GetByID(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load mission")
		return
	}
	respondJSON(w, http.StatusOK, mission)
}

type completeMissionRequest struct {
	ExpenseAmount string `json:"expense_amount"`
	Currency      string `json:"currency"`
	Reason        string `json:"reason"`
	CompanyBorne  *bool  `json:"company_borne"`
}

func (h *Handler) CompleteMission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	missionID := chi.URLParam(r, "id")
	var req completeMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	expenseMinor, err := parseOptionalAmountMinor(req.ExpenseAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense_amount")
		return
	}
	companyBorne := req.CompanyBorne
	if companyBorne == nil {
		mission, err := h.missions.GetByID(r.Context(), missionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respondError(w, http.StatusNotFound, "mission not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "unable to load mission")
			return
		}
		derived := services.DefaultCompanyBorne(mission.ServiceType)
		companyBorne = &derived
	}
	if err := h.booking.CompleteMission(r.Context(), services.CompletionRequest{
		ActorID:       actorID,
		MissionID:     missionID,
		ExpenseAmount: expenseMinor,
		Currency:      req.Currency,
		Reason:        req.Reason,
		CompanyBorne:  *companyBorne,
	}); err != nil {
		respondServiceError(w, err)
		return
	}
	mission, err := h.missions.GetByID(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load mission")
		return
	}
	respondJSON(w, http.StatusOK, mission)
}

func (h *Handler) CancelMission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	missionID := chi.URLParam(r, "id")
	if err := h.booking.CancelMission(r.Context(), actorID, missionID); err != nil {
		respondServiceError(w, err)
		return
	}
	mission, err := h.missions.GetByID(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load mission")
		return
	}
	respondJSON(w, http.StatusOK, mission)
}

func (h *Handler) ListMissionPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListByMission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list payments")
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

type recordPaymentRequest struct {
	Amount string `json:"amount"`
	Method string `json:"method"`
	Notes  string `json:"notes"`
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	mission, err := h.booking.RecordPayment(r.Context(), services.PaymentRequest{
		ActorID:   actorID,
		MissionID: chi.URLParam(r, "id"),
		Amount:    amountMinor,
		Method:    req.Method,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mission)
}
