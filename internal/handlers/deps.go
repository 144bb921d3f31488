package handlers

import (
	"context"
	"time"

	"fleetcab/internal/models"
	"fleetcab/internal/services"
	"fleetcab/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type VehicleStore interface {
	Create(ctx context.Context, tx store.Execer, input store.VehicleInput) error
	GetByID(ctx context.Context, vehicleID string) (models.Vehicle, error)
	List(ctx context.Context) ([]models.Vehicle, error)
	Update(ctx context.Context, tx store.Execer, input store.VehicleInput) error
	Delete(ctx context.Context, tx store.Execer, vehicleID string) error
	ListAvailable(ctx context.Context, start, end *time.Time, excludeMissionID *string) ([]models.Vehicle, error)
}

type DriverStore interface {
	Create(ctx context.Context, tx store.Execer, input store.DriverInput) error
	GetByID(ctx context.Context, driverID string) (models.Driver, error)
	List(ctx context.Context) ([]models.Driver, error)
	Update(ctx context.Context, tx store.Execer, input store.DriverInput) error
	Delete(ctx context.Context, tx store.Execer, driverID string) error
	ListAvailable(ctx context.Context, start, end *time.Time, excludeMissionID *string) ([]models.Driver, error)
}

type MissionStore interface {
	GetByID(ctx context.Context, missionID string) (models.Mission, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Mission, error)
	Update(ctx context.Context, tx store.Execer, input store.MissionInput) error
}

type PaymentStore interface {
	List(ctx context.Context, limit, offset int) ([]models.Payment, error)
	ListByMission(ctx context.Context, missionID string) ([]models.Payment, error)
}

type ExpenseStore interface {
	List(ctx context.Context, limit, offset int) ([]models.Expense, error)
}

type CashStore interface {
	List(ctx context.Context, limit, offset int) ([]models.CashEntry, error)
}

type RefundStore interface {
	GetByID(ctx context.Context, refundID string) (models.Refund, error)
	List(ctx context.Context, status string) ([]models.Refund, error)
	Delete(ctx context.Context, tx store.Execer, refundID string) error
}

type TariffStore interface {
	List(ctx context.Context) ([]models.Tariff, error)
	Create(ctx context.Context, tx store.Execer, input store.TariffInput) error
	Update(ctx context.Context, tx store.Execer, input store.TariffInput) error
	Delete(ctx context.Context, tx store.Execer, tariffID string) error
}

type DocumentStore interface {
	Create(ctx context.Context, tx store.Execer, input store.DocumentInput) error
	GetByID(ctx context.Context, documentID string) (models.Document, error)
	List(ctx context.Context, entityType, entityID string) ([]models.Document, error)
	Update(ctx context.Context, tx store.Execer, input store.DocumentInput) error
	Delete(ctx context.Context, tx store.Execer, documentID string) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]models.AuditLog, error)
}

type BookingService interface {
	QuoteRate(ctx context.Context, vehicleCategory, serviceType string) (models.Tariff, bool, error)
	CreateMissionWithPayment(ctx context.Context, req services.BookingRequest) (models.Mission, error)
	RecordPayment(ctx context.Context, req services.PaymentRequest) (models.Mission, error)
	StartMission(ctx context.Context, actorID, missionID string) error
	CompleteMission(ctx context.Context, req services.CompletionRequest) error
	CancelMission(ctx context.Context, actorID, missionID string) error
	DeleteMission(ctx context.Context, actorID, missionID string) error
	RecordExpense(ctx context.Context, req services.ExpenseRequest) (string, error)
	RecordManualEntry(ctx context.Context, req services.ManualEntryRequest) (string, error)
}

type ReportService interface {
	Balances(ctx context.Context) ([]services.Balance, error)
	Flux(ctx context.Context, currency string, from, to time.Time) (services.Flux, error)
	Receivables(ctx context.Context) ([]models.Mission, error)
	SelfCheck(ctx context.Context) ([]store.BalanceDrift, error)
}

type AlertService interface {
	Scan(ctx context.Context, horizonDays int) ([]services.Alert, error)
}

type RefundService interface {
	Create(ctx context.Context, req services.RefundRequest) (models.Refund, error)
	Transition(ctx context.Context, actorID, refundID, target string) (models.Refund, error)
}
