package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fleetcab/internal/models"
)

const (
	AlertSeverityWarning = "warning"
	AlertSeverityDanger  = "danger"

	DefaultAlertHorizonDays = 30
)

type Alert struct {
	ID          string    `json:"id"`
	EntityType  string    `json:"entity_type"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
}

type AlertDocumentStore interface {
	ListExpiring(ctx context.Context, before time.Time) ([]models.Document, error)
}

type AlertVehicleStore interface {
	ListRevisionsDue(ctx context.Context, before time.Time) ([]models.Vehicle, error)
}

type AlertDriverStore interface {
	ListLicensesExpiring(ctx context.Context, before time.Time) ([]models.Driver, error)
}

// AlertService sweeps documents, vehicle revisions and driver licences for
// dates falling before now+horizon. Read-only; the result is derived fresh
// on every call.
type AlertService struct {
	documentStore AlertDocumentStore
	vehicleStore  AlertVehicleStore
	driverStore   AlertDriverStore
	now           func() time.Time
}

func NewAlertService(documentStore AlertDocumentStore, vehicleStore AlertVehicleStore, driverStore AlertDriverStore) *AlertService {
	return &AlertService{
		documentStore: documentStore,
		vehicleStore:  vehicleStore,
		driverStore:   driverStore,
		now:           time.Now,
	}
}

// Scan emits one alert per expiring item, ascending by due date. An item
// expiring exactly at now+horizon is excluded; one already past due is
// danger, everything else warning.
func (s *AlertService) Scan(ctx context.Context, horizonDays int) ([]Alert, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultAlertHorizonDays
	}
	now := s.now()
	cutoff := now.AddDate(0, 0, horizonDays)

	alerts := []Alert{}

	documents, err := s.documentStore.ListExpiring(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	for _, doc := range documents {
		alerts = append(alerts, Alert{
			ID:          "doc-" + doc.ID,
			EntityType:  "document",
			Severity:    severityFor(now, *doc.ExpiresAt),
			Title:       "Document expiring: " + doc.Name,
			Description: fmt.Sprintf("%s expires on %s", doc.Name, doc.ExpiresAt.Format("2006-01-02")),
			DueDate:     *doc.ExpiresAt,
		})
	}

	vehicles, err := s.vehicleStore.ListRevisionsDue(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	for _, vehicle := range vehicles {
		alerts = append(alerts, Alert{
			ID:          "veh-" + vehicle.ID,
			EntityType:  "vehicle",
			Severity:    severityFor(now, *vehicle.NextRevisionDate),
			Title:       "Revision due: " + vehicle.Plate,
			Description: fmt.Sprintf("%s %s (%s) is due for revision on %s", vehicle.Brand, vehicle.Model, vehicle.Plate, vehicle.NextRevisionDate.Format("2006-01-02")),
			DueDate:     *vehicle.NextRevisionDate,
		})
	}

	drivers, err := s.driverStore.ListLicensesExpiring(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	for _, driver := range drivers {
		alerts = append(alerts, Alert{
			ID:          "lic-" + driver.ID,
			EntityType:  "driver",
			Severity:    severityFor(now, driver.LicenseExpiry),
			Title:       "Licence expiring: " + driver.FirstName + " " + driver.LastName,
			Description: fmt.Sprintf("Licence of %s %s expires on %s", driver.FirstName, driver.LastName, driver.LicenseExpiry.Format("2006-01-02")),
			DueDate:     driver.LicenseExpiry,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].DueDate.Before(alerts[j].DueDate)
	})
	return alerts, nil
}

func severityFor(now, due time.Time) string {
	if due.Before(now) {
		return AlertSeverityDanger
	}
	return AlertSeverityWarning
}
