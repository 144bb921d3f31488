package store

import (
	"context"
	"time"

	"fleetcab/internal/models"
)

type PaymentStore struct {
	db DB
}

func NewPaymentStore(db DB) *PaymentStore {
	return &PaymentStore{db: db}
}

type PaymentInput struct {
	ID        string
	MissionID string
	Amount    int64
	Currency  string
	Method    string
	PaidAt    time.Time
	Notes     string
}

// Insert appends a payment row. Payments are never updated or deleted;
// corrections go through a compensating manual cash entry.
func (s *PaymentStore) Insert(ctx context.Context, tx Execer, input PaymentInput) error {
	query := `
		INSERT INTO payments (id, mission_id, amount, currency, method, paid_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.MissionID, input.Amount, input.Currency,
		input.Method, input.PaidAt, input.Notes,
	)
	return err
}

func (s *PaymentStore) ListByMission(ctx context.Context, missionID string) ([]models.Payment, error) {
	var rows []models.Payment
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, mission_id, amount, currency, method, paid_at, notes, created_at
		FROM payments
		WHERE mission_id = $1
		ORDER BY paid_at DESC
	`, missionID)
	return rows, err
}

func (s *PaymentStore) List(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	var rows []models.Payment
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, mission_id, amount, currency, method, paid_at, notes, created_at
		FROM payments
		ORDER BY paid_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

func (s *PaymentStore) SumByMission(ctx context.Context, missionID string) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE mission_id = $1
	`, missionID)
	return sum, err
}
