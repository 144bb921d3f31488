package store

import (
	"context"
	"time"

	"fleetcab/internal/models"
)

type RefundStore struct {
	db DB
}

func NewRefundStore(db DB) *RefundStore {
	return &RefundStore{db: db}
}

type RefundInput struct {
	ID          string
	MissionID   *string
	ClientName  string
	Amount      int64
	Currency    string
	Reason      string
	Status      string
	RequestedAt time.Time
	Notes       string
}

const refundColumns = `id, mission_id, client_name, amount, currency, reason, status,
	       requested_at, processed_at, notes, created_at, updated_at`

func (s *RefundStore) Create(ctx context.Context, tx Execer, input RefundInput) error {
	query := `
		INSERT INTO refunds (id, mission_id, client_name, amount, currency, reason, status, requested_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.MissionID, input.ClientName, input.Amount, input.Currency,
		input.Reason, input.Status, input.RequestedAt, input.Notes,
	)
	return err
}

func (s *RefundStore) GetByID(ctx context.Context, refundID string) (models.Refund, error) {
	var row models.Refund
	err := s.db.GetContext(ctx, &row, `
		SELECT `+refundColumns+`
		FROM refunds
		WHERE id = $1
	`, refundID)
	return row, err
}

func (s *RefundStore) List(ctx context.Context, status string) ([]models.Refund, error) {
	var rows []models.Refund
	if status != "" {
		err := s.db.SelectContext(ctx, &rows, `
			SELECT `+refundColumns+`
			FROM refunds
			WHERE status = $1
			ORDER BY requested_at DESC
		`, status)
		return rows, err
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+refundColumns+`
		FROM refunds
		ORDER BY requested_at DESC
	`)
	return rows, err
}

// SetStatus stamps processed_at when the refund reaches a terminal state.
func (s *RefundStore) SetStatus(ctx context.Context, tx Execer, refundID, status string, processedAt *time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE refunds
		SET status = $1, processed_at = $2, updated_at = NOW()
		WHERE id = $3
	`, status, processedAt, refundID)
	return err
}

func (s *RefundStore) Delete(ctx context.Context, tx Execer, refundID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM refunds WHERE id = $1`, refundID)
	return err
}
