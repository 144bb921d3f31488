package store

import (
	"context"
	"time"

	"fleetcab/internal/models"
)

type DriverStore struct {
	db DB
}

func NewDriverStore(db DB) *DriverStore {
	return &DriverStore{db: db}
}

type DriverInput struct {
	ID            string
	FirstName     string
	LastName      string
	Phone         string
	Email         string
	ContractType  string
	LicenseExpiry time.Time
	Status        string
	HiredAt       time.Time
}

const driverColumns = `id, first_name, last_name, phone, email, contract_type, license_expiry, status, hired_at, created_at, updated_at`

func (s *DriverStore) Create(ctx context.Context, tx Execer, input DriverInput) error {
	query := `
		INSERT INTO drivers (id, first_name, last_name, phone, email, contract_type, license_expiry, status, hired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.FirstName, input.LastName, input.Phone, input.Email,
		input.ContractType, input.LicenseExpiry, input.Status, input.HiredAt,
	)
	return err
}

func (s *DriverStore) GetByID(ctx context.Context, driverID string) (models.Driver, error) {
	var row models.Driver
	err := s.db.GetContext(ctx, &row, `
		SELECT `+driverColumns+`
		FROM drivers
		WHERE id = $1
	`, driverID)
	return row, err
}

func (s *DriverStore) List(ctx context.Context) ([]models.Driver, error) {
	var rows []models.Driver
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+driverColumns+`
		FROM drivers
		ORDER BY last_name, first_name
	`)
	return rows, err
}

func (s *DriverStore) Update(ctx context.Context, tx Execer, input DriverInput) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE drivers
		SET first_name = $1, last_name = $2, phone = $3, email = $4,
		    contract_type = $5, license_expiry = $6, status = $7, hired_at = $8,
		    updated_at = NOW()
		WHERE id = $9
	`, input.FirstName, input.LastName, input.Phone, input.Email,
		input.ContractType, input.LicenseExpiry, input.Status, input.HiredAt, input.ID)
	return err
}

func (s *DriverStore) SetStatus(ctx context.Context, tx Execer, driverID, status string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE drivers
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, driverID)
	return err
}

func (s *DriverStore) Delete(ctx context.Context, tx Execer, driverID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM drivers WHERE id = $1`, driverID)
	return err
}

// ListAvailable mirrors VehicleStore.ListAvailable: half-open overlap
// against other missions, optional bypass when the range is absent.
func (s *DriverStore) ListAvailable(ctx context.Context, start, end *time.Time, excludeMissionID *string) ([]models.Driver, error) {
	var rows []models.Driver
	if start == nil || end == nil {
		err := s.db.SelectContext(ctx, &rows, `
			SELECT `+driverColumns+`
			FROM drivers
			WHERE status NOT IN ($1, $2)
			ORDER BY last_name, first_name
		`, models.DriverResting, models.DriverSickLeave)
		return rows, err
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+driverColumns+`
		FROM drivers d
		WHERE d.status NOT IN ($1, $2)
		  AND NOT EXISTS (
			SELECT 1
			FROM missions m
			WHERE m.driver_id = d.id
			  AND m.status IN ($3, $4)
			  AND m.scheduled_start < $6
			  AND m.scheduled_end > $5
			  AND ($7::text IS NULL OR m.id <> $7)
		  )
		ORDER BY d.last_name, d.first_name
	`, models.DriverResting, models.DriverSickLeave,
		models.MissionPlanned, models.MissionInProgress, *start, *end, excludeMissionID)
	return rows, err
}

// ListLicensesExpiring returns drivers whose license expires strictly
// before the cutoff.
func (s *DriverStore) ListLicensesExpiring(ctx context.Context, before time.Time) ([]models.Driver, error) {
	var rows []models.Driver
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+driverColumns+`
		FROM drivers
		WHERE license_expiry < $1
		ORDER BY license_expiry
	`, before)
	return rows, err
}
