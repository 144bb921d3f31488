package store

import (
	"context"
	"time"

	"fleetcab/internal/models"
)

type MissionStore struct {
	db DB
}

func NewMissionStore(db DB) *MissionStore {
	return &MissionStore{db: db}
}

type MissionInput struct {
	ID             string
	VehicleID      string
	DriverID       string
	ClientName     string
	Origin         string
	Destination    string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Status         string
	ServiceType    string
	Currency       string
	TotalAmount    int64
	PaidAmount     int64
	BalanceDue     int64
}

const missionColumns = `id, vehicle_id, driver_id, client_name, origin, destination,
	       scheduled_start, scheduled_end, actual_start, actual_end,
	       status, service_type, currency, total_amount, paid_amount, balance_due,
	       created_at, updated_at`

func (s *MissionStore) Create(ctx context.Context, tx Execer, input MissionInput) error {
	query := `
		INSERT INTO missions (id, vehicle_id, driver_id, client_name, origin, destination,
		                      scheduled_start, scheduled_end, status, service_type,
		                      currency, total_amount, paid_amount, balance_due)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.VehicleID, input.DriverID, input.ClientName, input.Origin,
		input.Destination, input.ScheduledStart, input.ScheduledEnd, input.Status,
		input.ServiceType, input.Currency, input.TotalAmount, input.PaidAmount,
		input.BalanceDue,
	)
	return err
}

func (s *MissionStore) GetByID(ctx context.Context, missionID string) (models.Mission, error) {
	var row models.Mission
	err := s.db.GetContext(ctx, &row, `
		SELECT `+missionColumns+`
		FROM missions
		WHERE id = $1
	`, missionID)
	return row, err
}

// GetForUpdate locks the mission row for the duration of the enclosing
// transaction so two concurrent payments serialize on it.
func (s *MissionStore) GetForUpdate(ctx context.Context, tx Getter, missionID string) (models.Mission, error) {
	var row models.Mission
	err := tx.GetContext(ctx, &row, `
		SELECT `+missionColumns+`
		FROM missions
		WHERE id = $1
		FOR UPDATE
	`, missionID)
	return row, err
}

func (s *MissionStore) List(ctx context.Context, status string, limit, offset int) ([]models.Mission, error) {
	var rows []models.Mission
	if status != "" {
		err := s.db.SelectContext(ctx, &rows, `
			SELECT `+missionColumns+`
			FROM missions
			WHERE status = $1
			ORDER BY scheduled_start DESC
			LIMIT $2 OFFSET $3
		`, status, limit, offset)
		return rows, err
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+missionColumns+`
		FROM missions
		ORDER BY scheduled_start DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

func (s *MissionStore) Update(ctx context.Context, tx Execer, input MissionInput) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE missions
		SET vehicle_id = $1, driver_id = $2, client_name = $3, origin = $4,
		    destination = $5, scheduled_start = $6, scheduled_end = $7,
		    service_type = $8, currency = $9, total_amount = $10,
		    balance_due = $10 - paid_amount,
		    updated_at = NOW()
		WHERE id = $11
	`, input.VehicleID, input.DriverID, input.ClientName, input.Origin,
		input.Destination, input.ScheduledStart, input.ScheduledEnd,
		input.ServiceType, input.Currency, input.TotalAmount, input.ID)
	return err
}

func (s *MissionStore) SetStatus(ctx context.Context, tx Execer, missionID, status string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE missions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, missionID)
	return err
}

func (s *MissionStore) MarkStarted(ctx context.Context, tx Execer, missionID string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE missions
		SET status = $1, actual_start = $2, updated_at = NOW()
		WHERE id = $3
	`, models.MissionInProgress, at, missionID)
	return err
}

func (s *MissionStore) MarkCompleted(ctx context.Context, tx Execer, missionID string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE missions
		SET status = $1, actual_end = $2, updated_at = NOW()
		WHERE id = $3
	`, models.MissionCompleted, at, missionID)
	return err
}

// RederivePaid recomputes the cached paid/balance projection from the
// payment rows. Called inside the same transaction that inserts a payment,
// so a stale client-side value can never be written back.
func (s *MissionStore) RederivePaid(ctx context.Context, tx Execer, missionID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE missions
		SET paid_amount = COALESCE((SELECT SUM(amount) FROM payments WHERE mission_id = $1), 0),
		    balance_due = total_amount - COALESCE((SELECT SUM(amount) FROM payments WHERE mission_id = $1), 0),
		    updated_at = NOW()
		WHERE id = $1
	`, missionID)
	return err
}

func (s *MissionStore) HasPayments(ctx context.Context, missionID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM payments WHERE mission_id = $1)
	`, missionID)
	return exists, err
}

func (s *MissionStore) Delete(ctx context.Context, tx Execer, missionID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM missions WHERE id = $1`, missionID)
	return err
}

// ListReceivables returns non-cancelled missions that still carry an unpaid
// balance, oldest first.
func (s *MissionStore) ListReceivables(ctx context.Context) ([]models.Mission, error) {
	var rows []models.Mission
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+missionColumns+`
		FROM missions
		WHERE balance_due > 0
		  AND status <> $1
		ORDER BY scheduled_start
	`, models.MissionCancelled)
	return rows, err
}

// BalanceDrift reports missions whose cached paid_amount no longer equals
// the sum of their payment rows. A non-empty result is a bug signal.
type BalanceDrift struct {
	MissionID  string `db:"mission_id"`
	Cached     int64  `db:"cached"`
	Calculated int64  `db:"calculated"`
}

func (s *MissionStore) ListBalanceDrift(ctx context.Context) ([]BalanceDrift, error) {
	var rows []BalanceDrift
	err := s.db.SelectContext(ctx, &rows, `
		SELECT m.id AS mission_id,
		       m.paid_amount AS cached,
		       COALESCE(SUM(p.amount), 0) AS calculated
		FROM missions m
		LEFT JOIN payments p ON p.mission_id = m.id
		GROUP BY m.id, m.paid_amount
		HAVING m.paid_amount <> COALESCE(SUM(p.amount), 0)
		ORDER BY m.id
	`)
	return rows, err
}
