package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleetcab/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error kinds onto HTTP statuses. A
// transaction error means nothing was committed; the client may retry the
// whole call.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var stateErr *services.StateError
	var txErr *services.TransactionError
	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Msg)
	case errors.As(err, &notFoundErr):
		respondError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &stateErr):
		respondError(w, http.StatusConflict, stateErr.Msg)
	case errors.As(err, &txErr):
		respondError(w, http.StatusInternalServerError, "operation failed and was rolled back, safe to retry")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
