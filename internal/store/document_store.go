package store

import (
	"context"
	"time"

	"fleetcab/internal/models"
)

type DocumentStore struct {
	db DB
}

func NewDocumentStore(db DB) *DocumentStore {
	return &DocumentStore{db: db}
}

type DocumentInput struct {
	ID         string
	Name       string
	DocType    string
	FileURL    string
	EntityType string
	EntityID   string
	ExpiresAt  *time.Time
	Notes      string
}

const documentColumns = `id, name, doc_type, file_url, entity_type, entity_id, expires_at, notes, created_at, updated_at`

func (s *DocumentStore) Create(ctx context.Context, tx Execer, input DocumentInput) error {
	query := `
		INSERT INTO documents (id, name, doc_type, file_url, entity_type, entity_id, expires_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Name, input.DocType, input.FileURL,
		input.EntityType, input.EntityID, input.ExpiresAt, input.Notes,
	)
	return err
}

func (s *DocumentStore) GetByID(ctx context.Context, documentID string) (models.Document, error) {
	var row models.Document
	err := s.db.GetContext(ctx, &row, `
		SELECT `+documentColumns+` FROM documents WHERE id = $1
	`, documentID)
	return row, err
}

func (s *DocumentStore) List(ctx context.Context, entityType, entityID string) ([]models.Document, error) {
	var rows []models.Document
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE ($1 = '' OR entity_type = $1)
		  AND ($2 = '' OR entity_id = $2)
		ORDER BY created_at DESC
	`, entityType, entityID)
	return rows, err
}

func (s *DocumentStore) Update(ctx context.Context, tx Execer, input DocumentInput) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE documents
		SET name = $1, doc_type = $2, file_url = $3, entity_type = $4,
		    entity_id = $5, expires_at = $6, notes = $7, updated_at = NOW()
		WHERE id = $8
	`, input.Name, input.DocType, input.FileURL, input.EntityType,
		input.EntityID, input.ExpiresAt, input.Notes, input.ID)
	return err
}

func (s *DocumentStore) Delete(ctx context.Context, tx Execer, documentID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	return err
}

// ListExpiring returns documents whose expiry falls strictly before the
// given instant, soonest first. Documents with no expiry never match.
func (s *DocumentStore) ListExpiring(ctx context.Context, before time.Time) ([]models.Document, error) {
	var rows []models.Document
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE expires_at IS NOT NULL AND expires_at < $1
		ORDER BY expires_at ASC
	`, before)
	return rows, err
}
