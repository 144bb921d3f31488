package store

import (
	"context"

	"fleetcab/internal/models"
)

type TariffStore struct {
	db DB
}

func NewTariffStore(db DB) *TariffStore {
	return &TariffStore{db: db}
}

type TariffInput struct {
	ID              string
	VehicleCategory string
	ServiceType     string
	BasePrice       int64
	Currency        string
}

// Find matches on exact string equality of category and service type.
// Case-sensitive, no fuzzy matching.
func (s *TariffStore) Find(ctx context.Context, vehicleCategory, serviceType string) (models.Tariff, error) {
	var row models.Tariff
	err := s.db.GetContext(ctx, &row, `
		SELECT id, vehicle_category, service_type, base_price, currency, created_at, updated_at
		FROM tariffs
		WHERE vehicle_category = $1 AND service_type = $2
	`, vehicleCategory, serviceType)
	return row, err
}

func (s *TariffStore) List(ctx context.Context) ([]models.Tariff, error) {
	var rows []models.Tariff
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, vehicle_category, service_type, base_price, currency, created_at, updated_at
		FROM tariffs
		ORDER BY vehicle_category, service_type
	`)
	return rows, err
}

func (s *TariffStore) Create(ctx context.Context, tx Execer, input TariffInput) error {
	query := `
		INSERT INTO tariffs (id, vehicle_category, service_type, base_price, currency)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.VehicleCategory, input.ServiceType, input.BasePrice, input.Currency,
	)
	return err
}

func (s *TariffStore) Update(ctx context.Context, tx Execer, input TariffInput) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE tariffs
		SET vehicle_category = $1, service_type = $2, base_price = $3, currency = $4, updated_at = NOW()
		WHERE id = $5
	`, input.VehicleCategory, input.ServiceType, input.BasePrice, input.Currency, input.ID)
	return err
}

func (s *TariffStore) Delete(ctx context.Context, tx Execer, tariffID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM tariffs WHERE id = $1`, tariffID)
	return err
}
