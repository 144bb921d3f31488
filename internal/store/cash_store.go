package store

import (
	"context"
	"time"

	"fleetcab/internal/models"

	"github.com/lib/pq"
)

// CashStore owns the append-only cash register. There is no update or
// delete: the balance is always derived by summing rows, never by
// maintaining a counter that could drift after a partial failure.
type CashStore struct {
	db DB
}

func NewCashStore(db DB) *CashStore {
	return &CashStore{db: db}
}

type CashEntryInput struct {
	ID          string
	Direction   string
	Amount      int64
	Currency    string
	SourceType  string
	SourceID    *string
	Description string
	EntryAt     time.Time
}

func (s *CashStore) Insert(ctx context.Context, tx Execer, input CashEntryInput) error {
	query := `
		INSERT INTO cash_entries (id, direction, amount, currency, source_type, source_id, description, entry_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Direction, input.Amount, input.Currency,
		input.SourceType, input.SourceID, input.Description, input.EntryAt,
	)
	return err
}

func (s *CashStore) List(ctx context.Context, limit, offset int) ([]models.CashEntry, error) {
	var rows []models.CashEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, direction, amount, currency, source_type, source_id, description, entry_at, created_at
		FROM cash_entries
		ORDER BY entry_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

// SumByCurrencies returns the signed sum (Inflow positive, Outflow
// negative) over every entry whose currency label is in the given set. The
// caller passes the canonical code plus its aliases so alias-tagged rows
// fold into the same bucket.
func (s *CashStore) SumByCurrencies(ctx context.Context, currencies []string) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(CASE WHEN direction = $1 THEN amount ELSE -amount END), 0)
		FROM cash_entries
		WHERE currency = ANY($2)
	`, models.CashInflow, pq.Array(currencies))
	return sum, err
}

type FluxRow struct {
	Inflow  int64 `db:"inflow"`
	Outflow int64 `db:"outflow"`
}

// Flux returns separate inflow and outflow totals restricted to the
// half-open interval [from, to).
func (s *CashStore) Flux(ctx context.Context, currencies []string, from, to time.Time) (FluxRow, error) {
	var row FluxRow
	err := s.db.GetContext(ctx, &row, `
		SELECT COALESCE(SUM(CASE WHEN direction = $1 THEN amount ELSE 0 END), 0) AS inflow,
		       COALESCE(SUM(CASE WHEN direction = $2 THEN amount ELSE 0 END), 0) AS outflow
		FROM cash_entries
		WHERE currency = ANY($3)
		  AND entry_at >= $4
		  AND entry_at < $5
	`, models.CashInflow, models.CashOutflow, pq.Array(currencies), from, to)
	return row, err
}
