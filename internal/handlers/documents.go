package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fleetcab/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type documentRequest struct {
	Name       string     `json:"name"`
	DocType    string     `json:"doc_type"`
	FileURL    string     `json:"file_url"`
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	ExpiresAt  *time.Time `json:"expires_at"`
	Notes      string     `json:"notes"`
}

func validDocumentEntityType(entityType string) bool {
	switch entityType {
	case "vehicle", "driver", "mission":
		return true
	}
	return false
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entity_type")
	entityID := r.URL.Query().Get("entity_id")
	documents, err := h.documents.List(r.Context(), entityType, entityID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list documents")
		return
	}
	respondJSON(w, http.StatusOK, documents)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	document, err := h.documents.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load document")
		return
	}
	respondJSON(w, http.StatusOK, document)
}

func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validDocumentEntityType(req.EntityType) {
		respondError(w, http.StatusBadRequest, "entity_type must be vehicle, driver or mission")
		return
	}
	if req.EntityID == "" {
		respondError(w, http.StatusBadRequest, "entity_id is required")
		return
	}
	documentID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.documents.Create(r.Context(), tx, store.DocumentInput{
			ID:         documentID,
			Name:       req.Name,
			DocType:    req.DocType,
			FileURL:    req.FileURL,
			EntityType: req.EntityType,
			EntityID:   req.EntityID,
			ExpiresAt:  req.ExpiresAt,
			Notes:      req.Notes,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create document")
		return
	}
	document, err := h.documents.GetByID(r.Context(), documentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load document")
		return
	}
	respondJSON(w, http.StatusCreated, document)
}

func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")
	if _, err := h.documents.GetByID(r.Context(), documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load document")
		return
	}
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validDocumentEntityType(req.EntityType) {
		respondError(w, http.StatusBadRequest, "entity_type must be vehicle, driver or mission")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.documents.Update(r.Context(), tx, store.DocumentInput{
			ID:         documentID,
			Name:       req.Name,
			DocType:    req.DocType,
			FileURL:    req.FileURL,
			EntityType: req.EntityType,
			EntityID:   req.EntityID,
			ExpiresAt:  req.ExpiresAt,
			Notes:      req.Notes,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update document")
		return
	}
	document, err := h.documents.GetByID(r.Context(), documentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load document")
		return
	}
	respondJSON(w, http.StatusOK, document)
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.documents.Delete(r.Context(), tx, chi.URLParam(r, "id"))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete document")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
