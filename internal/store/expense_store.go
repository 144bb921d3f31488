package store

import (
	"context"
	"time"

	"fleetcab/internal/models"
)

type ExpenseStore struct {
	db DB
}

func NewExpenseStore(db DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

type ExpenseInput struct {
	ID            string
	VehicleID     *string
	DriverID      *string
	MaintenanceID *string
	Category      string
	Amount        int64
	Currency      string
	Description   string
	SpentAt       time.Time
}

func (s *ExpenseStore) Insert(ctx context.Context, tx Execer, input ExpenseInput) error {
	query := `
		INSERT INTO expenses (id, vehicle_id, driver_id, maintenance_id, category, amount, currency, description, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.VehicleID, input.DriverID, input.MaintenanceID,
		input.Category, input.Amount, input.Currency, input.Description, input.SpentAt,
	)
	return err
}

func (s *ExpenseStore) List(ctx context.Context, limit, offset int) ([]models.Expense, error) {
	var rows []models.Expense
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, vehicle_id, driver_id, maintenance_id, category, amount, currency, description, spent_at, created_at
		FROM expenses
		ORDER BY spent_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}
