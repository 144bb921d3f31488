package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"fleetcab/internal/db"
	"fleetcab/internal/models"
	"fleetcab/internal/money"
	"fleetcab/internal/store"
	"fleetcab/internal/validator"
	"fleetcab/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MissionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.MissionInput) error
	GetByID(ctx context.Context, missionID string) (models.Mission, error)
	GetForUpdate(ctx context.Context, tx store.Getter, missionID string) (models.Mission, error)
	MarkStarted(ctx context.Context, tx store.Execer, missionID string, at time.Time) error
	MarkCompleted(ctx context.Context, tx store.Execer, missionID string, at time.Time) error
	SetStatus(ctx context.Context, tx store.Execer, missionID, status string) error
	RederivePaid(ctx context.Context, tx store.Execer, missionID string) error
	HasPayments(ctx context.Context, missionID string) (bool, error)
	Delete(ctx context.Context, tx store.Execer, missionID string) error
}

type VehicleStore interface {
	GetByID(ctx context.Context, vehicleID string) (models.Vehicle, error)
	SetStatus(ctx context.Context, tx store.Execer, vehicleID, status string) error
}

type DriverStore interface {
	GetByID(ctx context.Context, driverID string) (models.Driver, error)
	SetStatus(ctx context.Context, tx store.Execer, driverID, status string) error
}

type PaymentStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.PaymentInput) error
}

type ExpenseStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.ExpenseInput) error
}

type CashStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.CashEntryInput) error
	SumByCurrencies(ctx context.Context, currencies []string) (int64, error)
}

type TariffStore interface {
	Find(ctx context.Context, vehicleCategory, serviceType string) (models.Tariff, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type CashHub interface {
	BroadcastCash(update websocket.CashUpdate)
}

// BookingService owns every write that touches the cash register. All
// multi-row writes run inside a single serializable transaction so a
// mission never exists without the ledger entry for money it declared
// collected, and vice versa.
type BookingService struct {
	txRunner     db.TxRunner
	missionStore MissionStore
	vehicleStore VehicleStore
	driverStore  DriverStore
	paymentStore PaymentStore
	expenseStore ExpenseStore
	cashStore    CashStore
	tariffStore  TariffStore
	auditStore   AuditStore
	hub          CashHub
	now          func() time.Time
}

func NewBookingService(txRunner db.TxRunner, missionStore MissionStore, vehicleStore VehicleStore, driverStore DriverStore, paymentStore PaymentStore, expenseStore ExpenseStore, cashStore CashStore, tariffStore TariffStore, auditStore AuditStore, hub CashHub) *BookingService {
	return &BookingService{
		txRunner:     txRunner,
		missionStore: missionStore,
		vehicleStore: vehicleStore,
		driverStore:  driverStore,
		paymentStore: paymentStore,
		expenseStore: expenseStore,
		cashStore:    cashStore,
		tariffStore:  tariffStore,
		auditStore:   auditStore,
		hub:          hub,
		now:          time.Now,
	}
}

// QuoteRate resolves the tariff for a (vehicle category, service type)
// pair by exact string match. A missing tariff is not a failure; booking
// proceeds with a manual price.
func (s *BookingService) QuoteRate(ctx context.Context, vehicleCategory, serviceType string) (models.Tariff, bool, error) {
	tariff, err := s.tariffStore.Find(ctx, vehicleCategory, serviceType)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tariff{}, false, nil
	}
	if err != nil {
		return models.Tariff{}, false, err
	}
	return tariff, true, nil
}

// DefaultCompanyBorne returns the completion dialog's default for whether
// the company carries the closing expense. Full-day services default to
// client-borne; everything else to company-borne. The caller can always
// override.
func DefaultCompanyBorne(serviceType string) bool {
	if strings.Contains(serviceType, "Journée") {
		return false
	}
	if strings.Contains(strings.ToLower(serviceType), "journalière") {
		return false
	}
	return true
}

type BookingRequest struct {
	ActorID        string
	VehicleID      string
	DriverID       string
	ClientName     string
	Origin         string
	Destination    string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ServiceType    string
	Currency       string
	TotalAmount    int64
	InitialPayment int64
	PaymentMethod  string
	PaymentNotes   string
}

// CreateMissionWithPayment books a mission and, when an initial payment
// was collected, records the payment and its Inflow cash entry in the same
// transaction.
func (s *BookingService) CreateMissionWithPayment(ctx context.Context, req BookingRequest) (models.Mission, error) {
	currency, err := money.Validate(req.Currency)
	if err != nil {
		return models.Mission{}, validationErrorf("currency: %v", err)
	}
	if req.ClientName == "" {
		return models.Mission{}, validationErrorf("client name is required")
	}
	if req.TotalAmount < 0 {
		return models.Mission{}, validationErrorf("total amount must not be negative")
	}
	if req.InitialPayment < 0 {
		return models.Mission{}, validationErrorf("initial payment must not be negative")
	}
	if !req.ScheduledEnd.After(req.ScheduledStart) {
		return models.Mission{}, validationErrorf("scheduled end must be after scheduled start")
	}
	if req.InitialPayment > 0 {
		if err := validator.ValidatePaymentMethod(req.PaymentMethod); err != nil {
			return models.Mission{}, validationErrorf("payment method: %v", err)
		}
	}
	if _, err := s.vehicleStore.GetByID(ctx, req.VehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Mission{}, validationErrorf("vehicle %s does not exist", req.VehicleID)
		}
		return models.Mission{}, err
	}
	if _, err := s.driverStore.GetByID(ctx, req.DriverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Mission{}, validationErrorf("driver %s does not exist", req.DriverID)
		}
		return models.Mission{}, err
	}

	missionID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.missionStore.Create(ctx, tx, store.MissionInput{
			ID:             missionID,
			VehicleID:      req.VehicleID,
			DriverID:       req.DriverID,
			ClientName:     req.ClientName,
			Origin:         req.Origin,
			Destination:    req.Destination,
			ScheduledStart: req.ScheduledStart,
			ScheduledEnd:   req.ScheduledEnd,
			Status:         models.MissionPlanned,
			ServiceType:    req.ServiceType,
			Currency:       currency,
			TotalAmount:    req.TotalAmount,
			PaidAmount:     0,
			BalanceDue:     req.TotalAmount,
		}); err != nil {
			return err
		}
		if req.InitialPayment > 0 {
			paymentID := uuid.NewString()
			paidAt := s.now()
			if err := s.paymentStore.Insert(ctx, tx, store.PaymentInput{
				ID:        paymentID,
				MissionID: missionID,
				Amount:    req.InitialPayment,
				Currency:  currency,
				Method:    req.PaymentMethod,
				PaidAt:    paidAt,
				Notes:     req.PaymentNotes,
			}); err != nil {
				return err
			}
			if err := s.cashStore.Insert(ctx, tx, store.CashEntryInput{
				ID:          uuid.NewString(),
				Direction:   models.CashInflow,
				Amount:      req.InitialPayment,
				Currency:    currency,
				SourceType:  models.SourcePayment,
				SourceID:    &paymentID,
				Description: "Initial payment for mission " + missionID,
				EntryAt:     paidAt,
			}); err != nil {
				return err
			}
			if err := s.missionStore.RederivePaid(ctx, tx, missionID); err != nil {
				return err
			}
		}
		data, _ := json.Marshal(map[string]any{
			"total_amount":    req.TotalAmount,
			"initial_payment": req.InitialPayment,
			"currency":        currency,
		})
		return s.auditStore.Log(ctx, tx, req.ActorID, "mission.book", "mission", missionID, string(data))
	})
	if err != nil {
		return models.Mission{}, wrapTxErr(err)
	}
	if req.InitialPayment > 0 {
		s.broadcastBalance(ctx, currency)
	}
	return s.missionStore.GetByID(ctx, missionID)
}

type PaymentRequest struct {
	ActorID   string
	MissionID string
	Amount    int64
	Method    string
	Notes     string
}

// RecordPayment appends a payment to a mission, writes the matching
// Inflow entry, and re-derives the cached paid/balance projection from the
// payment rows. Overpayment is allowed; the balance simply goes negative.
func (s *BookingService) RecordPayment(ctx context.Context, req PaymentRequest) (models.Mission, error) {
	if req.Amount <= 0 {
		return models.Mission{}, validationErrorf("payment amount must be positive")
	}
	if err := validator.ValidatePaymentMethod(req.Method); err != nil {
		return models.Mission{}, validationErrorf("payment method: %v", err)
	}
	var currency string
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		mission, err := s.missionStore.GetForUpdate(ctx, tx, req.MissionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Resource: "mission", ID: req.MissionID}
			}
			return err
		}
		if mission.Status == models.MissionCancelled {
			return &StateError{Msg: "mission is cancelled"}
		}
		currency = mission.Currency
		paymentID := uuid.NewString()
		paidAt := s.now()
		if err := s.paymentStore.Insert(ctx, tx, store.PaymentInput{
			ID:        paymentID,
			MissionID: mission.ID,
			Amount:    req.Amount,
			Currency:  mission.Currency,
			Method:    req.Method,
			PaidAt:    paidAt,
			Notes:     req.Notes,
		}); err != nil {
			return err
		}
		if err := s.cashStore.Insert(ctx, tx, store.CashEntryInput{
			ID:          uuid.NewString(),
			Direction:   models.CashInflow,
			Amount:      req.Amount,
			Currency:    mission.Currency,
			SourceType:  models.SourcePayment,
			SourceID:    &paymentID,
			Description: "Payment for mission " + mission.ID,
			EntryAt:     paidAt,
		}); err != nil {
			return err
		}
		if err := s.missionStore.RederivePaid(ctx, tx, mission.ID); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{
			"payment_id": paymentID,
			"amount":     req.Amount,
			"currency":   mission.Currency,
		})
		return s.auditStore.Log(ctx, tx, req.ActorID, "mission.payment", "mission", mission.ID, string(data))
	})
	if err != nil {
		return models.Mission{}, wrapTxErr(err)
	}
	s.broadcastBalance(ctx, currency)
	return s.missionStore.GetByID(ctx, req.MissionID)
}

// StartMission moves a planned mission into progress and marks its vehicle
// and driver as busy.
func (s *BookingService) StartMission(ctx context.Context, actorID, missionID string) error {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		mission, err := s.missionStore.GetForUpdate(ctx, tx, missionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Resource: "mission", ID: missionID}
			}
			return err
		}
		if mission.Status != models.MissionPlanned {
			return &StateError{Msg: "mission is not planned"}
		}
		if err := s.missionStore.MarkStarted(ctx, tx, missionID, s.now()); err != nil {
			return err
		}
		if err := s.vehicleStore.SetStatus(ctx, tx, mission.VehicleID, models.VehicleAssigned); err != nil {
			return err
		}
		if err := s.driverStore.SetStatus(ctx, tx, mission.DriverID, models.DriverOnMission); err != nil {
			return err
		}
		return s.auditStore.Log(ctx, tx, actorID, "mission.start", "mission", missionID, "{}")
	})
	return wrapTxErr(err)
}

type CompletionRequest struct {
	ActorID       string
	MissionID     string
	ExpenseAmount int64
	Currency      string
	Reason        string
	CompanyBorne  bool
}

// CompleteMission closes an in-progress mission. When the company carries
// the closing expense, an Expense row and its Outflow entry are written in
// the same transaction; a client-borne expense leaves the ledger untouched.
func (s *BookingService) CompleteMission(ctx context.Context, req CompletionRequest) error {
	if req.CompanyBorne && req.ExpenseAmount < 0 {
		return validationErrorf("expense amount must not be negative")
	}
	var currency string
	var wroteExpense bool
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		mission, err := s.missionStore.GetForUpdate(ctx, tx, req.MissionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Resource: "mission", ID: req.MissionID}
			}
			return err
		}
		if mission.Status != models.MissionInProgress {
			return &StateError{Msg: "mission is not in progress"}
		}
		completedAt := s.now()
		if err := s.missionStore.MarkCompleted(ctx, tx, mission.ID, completedAt); err != nil {
			return err
		}
		if err := s.vehicleStore.SetStatus(ctx, tx, mission.VehicleID, models.VehicleFree); err != nil {
			return err
		}
		if err := s.driverStore.SetStatus(ctx, tx, mission.DriverID, models.DriverAvailable); err != nil {
			return err
		}
		if req.CompanyBorne && req.ExpenseAmount > 0 {
			expenseCurrency := mission.Currency
			if req.Currency != "" {
				expenseCurrency, err = money.Validate(req.Currency)
				if err != nil {
					return validationErrorf("currency: %v", err)
				}
			}
			currency = expenseCurrency
			expenseID := uuid.NewString()
			if err := s.expenseStore.Insert(ctx, tx, store.ExpenseInput{
				ID:          expenseID,
				VehicleID:   &mission.VehicleID,
				DriverID:    &mission.DriverID,
				Category:    "mission",
				Amount:      req.ExpenseAmount,
				Currency:    expenseCurrency,
				Description: req.Reason,
				SpentAt:     completedAt,
			}); err != nil {
				return err
			}
			if err := s.cashStore.Insert(ctx, tx, store.CashEntryInput{
				ID:          uuid.NewString(),
				Direction:   models.CashOutflow,
				Amount:      req.ExpenseAmount,
				Currency:    expenseCurrency,
				SourceType:  models.SourceExpense,
				SourceID:    &expenseID,
				Description: "Mission closing expense: " + req.Reason,
				EntryAt:     completedAt,
			}); err != nil {
				return err
			}
			wroteExpense = true
		}
		data, _ := json.Marshal(map[string]any{
			"company_borne":  req.CompanyBorne,
			"expense_amount": req.ExpenseAmount,
		})
		return s.auditStore.Log(ctx, tx, req.ActorID, "mission.complete", "mission", mission.ID, string(data))
	})
	if err != nil {
		return wrapTxErr(err)
	}
	if wroteExpense {
		s.broadcastBalance(ctx, currency)
	}
	return nil
}

// CancelMission aborts a planned or in-progress mission with no financial
// side effect.
func (s *BookingService) CancelMission(ctx context.Context, actorID, missionID string) error {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		mission, err := s.missionStore.GetForUpdate(ctx, tx, missionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Resource: "mission", ID: missionID}
			}
			return err
		}
		if mission.Status != models.MissionPlanned && mission.Status != models.MissionInProgress {
			return &StateError{Msg: "mission cannot be cancelled"}
		}
		if err := s.missionStore.SetStatus(ctx, tx, missionID, models.MissionCancelled); err != nil {
			return err
		}
		if mission.Status == models.MissionInProgress {
			if err := s.vehicleStore.SetStatus(ctx, tx, mission.VehicleID, models.VehicleFree); err != nil {
				return err
			}
			if err := s.driverStore.SetStatus(ctx, tx, mission.DriverID, models.DriverAvailable); err != nil {
				return err
			}
		}
		return s.auditStore.Log(ctx, tx, actorID, "mission.cancel", "mission", missionID, "{}")
	})
	return wrapTxErr(err)
}

// DeleteMission rejects deletion of any mission that has payments; missions
// with money against them are cancelled instead, never silently removed.
func (s *BookingService) DeleteMission(ctx context.Context, actorID, missionID string) error {
	if _, err := s.missionStore.GetByID(ctx, missionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Resource: "mission", ID: missionID}
		}
		return err
	}
	hasPayments, err := s.missionStore.HasPayments(ctx, missionID)
	if err != nil {
		return err
	}
	if hasPayments {
		return &StateError{Msg: "mission has payments and cannot be deleted"}
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.missionStore.Delete(ctx, tx, missionID); err != nil {
			return err
		}
		return s.auditStore.Log(ctx, tx, actorID, "mission.delete", "mission", missionID, "{}")
	})
	return wrapTxErr(err)
}

type ExpenseRequest struct {
	ActorID       string
	VehicleID     *string
	DriverID      *string
	MaintenanceID *string
	Category      string
	Amount        int64
	Currency      string
	Description   string
	SpentAt       time.Time
}

// RecordExpense writes a standalone expense and its Outflow cash entry
// atomically.
func (s *BookingService) RecordExpense(ctx context.Context, req ExpenseRequest) (string, error) {
	if req.Amount <= 0 {
		return "", validationErrorf("expense amount must be positive")
	}
	currency, err := money.Validate(req.Currency)
	if err != nil {
		return "", validationErrorf("currency: %v", err)
	}
	spentAt := req.SpentAt
	if spentAt.IsZero() {
		spentAt = s.now()
	}
	expenseID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.expenseStore.Insert(ctx, tx, store.ExpenseInput{
			ID:            expenseID,
			VehicleID:     req.VehicleID,
			DriverID:      req.DriverID,
			MaintenanceID: req.MaintenanceID,
			Category:      req.Category,
			Amount:        req.Amount,
			Currency:      currency,
			Description:   req.Description,
			SpentAt:       spentAt,
		}); err != nil {
			return err
		}
		if err := s.cashStore.Insert(ctx, tx, store.CashEntryInput{
			ID:          uuid.NewString(),
			Direction:   models.CashOutflow,
			Amount:      req.Amount,
			Currency:    currency,
			SourceType:  models.SourceExpense,
			SourceID:    &expenseID,
			Description: req.Description,
			EntryAt:     spentAt,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{
			"amount":   req.Amount,
			"currency": currency,
			"category": req.Category,
		})
		return s.auditStore.Log(ctx, tx, req.ActorID, "expense.record", "expense", expenseID, string(data))
	})
	if err != nil {
		return "", wrapTxErr(err)
	}
	s.broadcastBalance(ctx, currency)
	return expenseID, nil
}

type ManualEntryRequest struct {
	ActorID     string
	Direction   string
	Amount      int64
	Currency    string
	Description string
	EntryAt     time.Time
}

// RecordManualEntry appends a manual cash register movement, used for
// corrections and income or spending outside the mission flow.
func (s *BookingService) RecordManualEntry(ctx context.Context, req ManualEntryRequest) (string, error) {
	if req.Direction != models.CashInflow && req.Direction != models.CashOutflow {
		return "", validationErrorf("direction must be %s or %s", models.CashInflow, models.CashOutflow)
	}
	if req.Amount <= 0 {
		return "", validationErrorf("amount must be positive")
	}
	currency, err := money.Validate(req.Currency)
	if err != nil {
		return "", validationErrorf("currency: %v", err)
	}
	entryAt := req.EntryAt
	if entryAt.IsZero() {
		entryAt = s.now()
	}
	entryID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.cashStore.Insert(ctx, tx, store.CashEntryInput{
			ID:          entryID,
			Direction:   req.Direction,
			Amount:      req.Amount,
			Currency:    currency,
			SourceType:  models.SourceManual,
			Description: req.Description,
			EntryAt:     entryAt,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{
			"direction": req.Direction,
			"amount":    req.Amount,
			"currency":  currency,
		})
		return s.auditStore.Log(ctx, tx, req.ActorID, "cash.manual", "cash_entry", entryID, string(data))
	})
	if err != nil {
		return "", wrapTxErr(err)
	}
	s.broadcastBalance(ctx, currency)
	return entryID, nil
}

// broadcastBalance recomputes the currency bucket by full re-scan and
// pushes it to connected clients. Best effort: a failed read only skips
// the push, the committed write stands.
func (s *BookingService) broadcastBalance(ctx context.Context, currency string) {
	balance, err := s.cashStore.SumByCurrencies(ctx, money.Labels(currency))
	if err != nil {
		return
	}
	s.hub.BroadcastCash(websocket.CashUpdate{
		Currency: currency,
		Balance:  balance,
	})
}
