package store

import (
	"context"
	"time"

	"fleetcab/internal/models"
)

type VehicleStore struct {
	db DB
}

func NewVehicleStore(db DB) *VehicleStore {
	return &VehicleStore{db: db}
}

type VehicleInput struct {
	ID               string
	Plate            string
	Brand            string
	Model            string
	Category         string
	Mileage          int64
	Status           string
	NextRevisionDate *time.Time
}

const vehicleColumns = `id, plate, brand, model, category, mileage, status, next_revision_date, created_at, updated_at`

func (s *VehicleStore) Create(ctx context.Context, tx Execer, input VehicleInput) error {
	query := `
		INSERT INTO vehicles (id, plate, brand, model, category, mileage, status, next_revision_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Plate, input.Brand, input.Model, input.Category,
		input.Mileage, input.Status, input.NextRevisionDate,
	)
	return err
}

func (s *VehicleStore) GetByID(ctx context.Context, vehicleID string) (models.Vehicle, error) {
	var row models.Vehicle
	err := s.db.GetContext(ctx, &row, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE id = $1
	`, vehicleID)
	return row, err
}

func (s *VehicleStore) List(ctx context.Context) ([]models.Vehicle, error) {
	var rows []models.Vehicle
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		ORDER BY plate
	`)
	return rows, err
}

func (s *VehicleStore) Update(ctx context.Context, tx Execer, input VehicleInput) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE vehicles
		SET plate = $1, brand = $2, model = $3, category = $4, mileage = $5,
		    status = $6, next_revision_date = $7, updated_at = NOW()
		WHERE id = $8
	`, input.Plate, input.Brand, input.Model, input.Category, input.Mileage,
		input.Status, input.NextRevisionDate, input.ID)
	return err
}

func (s *VehicleStore) SetStatus(ctx context.Context, tx Execer, vehicleID, status string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE vehicles
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, vehicleID)
	return err
}

// Delete fails with a pq foreign-key error while missions reference the
// vehicle; the handler surfaces that as a conflict instead of cascading.
func (s *VehicleStore) Delete(ctx context.Context, tx Execer, vehicleID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, vehicleID)
	return err
}

// ListAvailable returns vehicles with no mission overlapping the half-open
// range [start, end). Overlap is scheduled_start < end AND scheduled_end >
// start, so back-to-back bookings never collide. A nil start or end
// bypasses the range filter entirely (edit mode relies on this), and
// excludeMissionID keeps a mission's own occupancy from hiding its
// currently assigned vehicle.
func (s *VehicleStore) ListAvailable(ctx context.Context, start, end *time.Time, excludeMissionID *string) ([]models.Vehicle, error) {
	var rows []models.Vehicle
	if start == nil || end == nil {
		err := s.db.SelectContext(ctx, &rows, `
			SELECT `+vehicleColumns+`
			FROM vehicles
			WHERE status <> $1
			ORDER BY plate
		`, models.VehicleOutOfService)
		return rows, err
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+vehicleColumns+`
		FROM vehicles v
		WHERE v.status <> $1
		  AND NOT EXISTS (
			SELECT 1
			FROM missions m
			WHERE m.vehicle_id = v.id
			  AND m.status IN ($2, $3)
			  AND m.scheduled_start < $5
			  AND m.scheduled_end > $4
			  AND ($6::text IS NULL OR m.id <> $6)
		  )
		ORDER BY v.plate
	`, models.VehicleOutOfService, models.MissionPlanned, models.MissionInProgress, *start, *end, excludeMissionID)
	return rows, err
}

// ListRevisionsDue returns vehicles whose next revision date is strictly
// before the cutoff. Rows without a revision date are skipped.
func (s *VehicleStore) ListRevisionsDue(ctx context.Context, before time.Time) ([]models.Vehicle, error) {
	var rows []models.Vehicle
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE next_revision_date IS NOT NULL
		  AND next_revision_date < $1
		ORDER BY next_revision_date
	`, before)
	return rows, err
}
