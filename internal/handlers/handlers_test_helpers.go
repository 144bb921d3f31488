package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetcab/internal/auth"
	"fleetcab/internal/config"
	"fleetcab/internal/middleware"
	"fleetcab/internal/models"
	"fleetcab/internal/services"
	"fleetcab/internal/store"
	"fleetcab/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubVehicleStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.VehicleInput) error
	getByIDFn       func(ctx context.Context, vehicleID string) (models.Vehicle, error)
	listFn          func(ctx context.Context) ([]models.Vehicle, error)
	updateFn        func(ctx context.Context, tx store.Execer, input store.VehicleInput) error
	deleteFn        func(ctx context.Context, tx store.Execer, vehicleID string) error
	listAvailableFn func(ctx context.Context, start, end *time.Time, excludeMissionID *string) ([]models.Vehicle, error)
}

func (s stubVehicleStore) Create(ctx context.Context, tx store.Execer, input store.VehicleInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubVehicleStore) GetByID(ctx context.Context, vehicleID string) (models.Vehicle, error) {
	if s.getByIDFn == nil {
		return models.Vehicle{}, nil
	}
	return s.getByIDFn(ctx, vehicleID)
}

func (s stubVehicleStore) List(ctx context.Context) ([]models.Vehicle, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubVehicleStore) Update(ctx context.Context, tx store.Execer, input store.VehicleInput) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubVehicleStore) Delete(ctx context.Context, tx store.Execer, vehicleID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, vehicleID)
}

func (s stubVehicleStore) ListAvailable(ctx context.Context, start, end *time.Time, excludeMissionID *string) ([]models.Vehicle, error) {
	if s.listAvailableFn == nil {
		return nil, nil
	}
	return s.listAvailableFn(ctx, start, end, excludeMissionID)
}

type stubDriverStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.DriverInput) error
	getByIDFn       func(ctx context.Context, driverID string) (models.Driver, error)
	listFn          func(ctx context.Context) ([]models.Driver, error)
	updateFn        func(ctx context.Context, tx store.Execer, input store.DriverInput) error
	deleteFn        func(ctx context.Context, tx store.Execer, driverID string) error
	listAvailableFn func(ctx context.Context, start, end *time.Time, excludeMissionID *string) ([]models.Driver, error)
}

func (s stubDriverStore) Create(ctx context.Context, tx store.Execer, input store.DriverInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubDriverStore) GetByID(ctx context.Context, driverID string) (models.Driver, error) {
	if s.getByIDFn == nil {
		return models.Driver{}, nil
	}
	return s.getByIDFn(ctx, driverID)
}

func (s stubDriverStore) List(ctx context.Context) ([]models.Driver, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubDriverStore) Update(ctx context.Context, tx store.Execer, input store.DriverInput) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubDriverStore) Delete(ctx context.Context, tx store.Execer, driverID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, driverID)
}

func (s stubDriverStore) ListAvailable(ctx context.Context, start, end *time.Time, excludeMissionID *string) ([]models.Driver, error) {
	if s.listAvailableFn == nil {
		return nil, nil
	}
	return s.listAvailableFn(ctx, start, end, excludeMissionID)
}

type stubMissionStore struct {
	getByIDFn func(ctx context.Context, missionID string) (models.Mission, error)
	listFn    func(ctx context.Context, status string, limit, offset int) ([]models.Mission, error)
	updateFn  func(ctx context.Context, tx store.Execer, input store.MissionInput) error
}

func (s stubMissionStore) GetByID(ctx context.Context, missionID string) (models.Mission, error) {
	if s.getByIDFn == nil {
		return models.Mission{}, nil
	}
	return s.getByIDFn(ctx, missionID)
}

func (s stubMissionStore) List(ctx context.Context, status string, limit, offset int) ([]models.Mission, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, status, limit, offset)
}

func (s stubMissionStore) Update(ctx context.Context, tx store.Execer, input store.MissionInput) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, input)
}

type stubPaymentStore struct {
	listFn          func(ctx context.Context, limit, offset int) ([]models.Payment, error)
	listByMissionFn func(ctx context.Context, missionID string) ([]models.Payment, error)
}

func (s stubPaymentStore) List(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

func (s stubPaymentStore) ListByMission(ctx context.Context, missionID string) ([]models.Payment, error) {
	if s.listByMissionFn == nil {
		return nil, nil
	}
	return s.listByMissionFn(ctx, missionID)
}

type stubExpenseStore struct {
	listFn func(ctx context.Context, limit, offset int) ([]models.Expense, error)
}

func (s stubExpenseStore) List(ctx context.Context, limit, offset int) ([]models.Expense, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubCashStore struct {
	listFn func(ctx context.Context, limit, offset int) ([]models.CashEntry, error)
}

func (s stubCashStore) List(ctx context.Context, limit, offset int) ([]models.CashEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubRefundStore struct {
	getByIDFn func(ctx context.Context, refundID string) (models.Refund, error)
	listFn    func(ctx context.Context, status string) ([]models.Refund, error)
	deleteFn  func(ctx context.Context, tx store.Execer, refundID string) error
}

func (s stubRefundStore) GetByID(ctx context.Context, refundID string) (models.Refund, error) {
	if s.getByIDFn == nil {
		return models.Refund{}, nil
	}
	return s.getByIDFn(ctx, refundID)
}

func (s stubRefundStore) List(ctx context.Context, status string) ([]models.Refund, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, status)
}

func (s stubRefundStore) Delete(ctx context.Context, tx store.Execer, refundID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, refundID)
}

type stubTariffStore struct {
	listFn   func(ctx context.Context) ([]models.Tariff, error)
	createFn func(ctx context.Context, tx store.Execer, input store.TariffInput) error
	updateFn func(ctx context.Context, tx store.Execer, input store.TariffInput) error
	deleteFn func(ctx context.Context, tx store.Execer, tariffID string) error
}

func (s stubTariffStore) List(ctx context.Context) ([]models.Tariff, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubTariffStore) Create(ctx context.Context, tx store.Execer, input store.TariffInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubTariffStore) Update(ctx context.Context, tx store.Execer, input store.TariffInput) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubTariffStore) Delete(ctx context.Context, tx store.Execer, tariffID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, tariffID)
}

type stubDocumentStore struct {
	createFn  func(ctx context.Context, tx store.Execer, input store.DocumentInput) error
	getByIDFn func(ctx context.Context, documentID string) (models.Document, error)
	listFn    func(ctx context.Context, entityType, entityID string) ([]models.Document, error)
	updateFn  func(ctx context.Context, tx store.Execer, input store.DocumentInput) error
	deleteFn  func(ctx context.Context, tx store.Execer, documentID string) error
}

func (s stubDocumentStore) Create(ctx context.Context, tx store.Execer, input store.DocumentInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubDocumentStore) GetByID(ctx context.Context, documentID string) (models.Document, error) {
	if s.getByIDFn == nil {
		return models.Document{}, nil
	}
	return s.getByIDFn(ctx, documentID)
}

func (s stubDocumentStore) List(ctx context.Context, entityType, entityID string) ([]models.Document, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, entityType, entityID)
}

func (s stubDocumentStore) Update(ctx context.Context, tx store.Execer, input store.DocumentInput) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubDocumentStore) Delete(ctx context.Context, tx store.Execer, documentID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, documentID)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]models.AuditLog, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubBookingService struct {
	quoteRateFn         func(ctx context.Context, vehicleCategory, serviceType string) (models.Tariff, bool, error)
	createMissionFn     func(ctx context.Context, req services.BookingRequest) (models.Mission, error)
	recordPaymentFn     func(ctx context.Context, req services.PaymentRequest) (models.Mission, error)
	startMissionFn      func(ctx context.Context, actorID, missionID string) error
	completeMissionFn   func(ctx context.Context, req services.CompletionRequest) error
	cancelMissionFn     func(ctx context.Context, actorID, missionID string) error
	deleteMissionFn     func(ctx context.Context, actorID, missionID string) error
	recordExpenseFn     func(ctx context.Context, req services.ExpenseRequest) (string, error)
	recordManualEntryFn func(ctx context.Context, req services.ManualEntryRequest) (string, error)
}

func (s stubBookingService) QuoteRate(ctx context.Context, vehicleCategory, serviceType string) (models.Tariff, bool, error) {
	if s.quoteRateFn == nil {
		return models.Tariff{}, false, nil
	}
	return s.quoteRateFn(ctx, vehicleCategory, serviceType)
}

func (s stubBookingService) CreateMissionWithPayment(ctx context.Context, req services.BookingRequest) (models.Mission, error) {
	if s.createMissionFn == nil {
		return models.Mission{}, nil
	}
	return s.createMissionFn(ctx, req)
}

func (s stubBookingService) RecordPayment(ctx context.Context, req services.PaymentRequest) (models.Mission, error) {
	if s.recordPaymentFn == nil {
		return models.Mission{}, nil
	}
	return s.recordPaymentFn(ctx, req)
}

func (s stubBookingService) StartMission(ctx context.Context, actorID, missionID string) error {
	if s.startMissionFn == nil {
		return nil
	}
	return s.startMissionFn(ctx, actorID, missionID)
}

func (s stubBookingService) CompleteMission(ctx context.Context, req services.CompletionRequest) error {
	if s.completeMissionFn == nil {
		return nil
	}
	return s.completeMissionFn(ctx, req)
}

func (s stubBookingService) CancelMission(ctx context.Context, actorID, missionID string) error {
	if s.cancelMissionFn == nil {
		return nil
	}
	return s.cancelMissionFn(ctx, actorID, missionID)
}

func (s stubBookingService) DeleteMission(ctx context.Context, actorID, missionID string) error {
	if s.deleteMissionFn == nil {
		return nil
	}
	return s.deleteMissionFn(ctx, actorID, missionID)
}

func (s stubBookingService) RecordExpense(ctx context.Context, req services.ExpenseRequest) (string, error) {
	if s.recordExpenseFn == nil {
		return "", nil
	}
	return s.recordExpenseFn(ctx, req)
}

func (s stubBookingService) RecordManualEntry(ctx context.Context, req services.ManualEntryRequest) (string, error) {
	if s.recordManualEntryFn == nil {
		return "", nil
	}
	return s.recordManualEntryFn(ctx, req)
}

type stubReportService struct {
	balancesFn    func(ctx context.Context) ([]services.Balance, error)
	fluxFn        func(ctx context.Context, currency string, from, to time.Time) (services.Flux, error)
	receivablesFn func(ctx context.Context) ([]models.Mission, error)
	selfCheckFn   func(ctx context.Context) ([]store.BalanceDrift, error)
}

func (s stubReportService) Balances(ctx context.Context) ([]services.Balance, error) {
	if s.balancesFn == nil {
		return nil, nil
	}
	return s.balancesFn(ctx)
}

func (s stubReportService) Flux(ctx context.Context, currency string, from, to time.Time) (services.Flux, error) {
	if s.fluxFn == nil {
		return services.Flux{}, nil
	}
	return s.fluxFn(ctx, currency, from, to)
}

func (s stubReportService) Receivables(ctx context.Context) ([]models.Mission, error) {
	if s.receivablesFn == nil {
		return nil, nil
	}
	return s.receivablesFn(ctx)
}

func (s stubReportService) SelfCheck(ctx context.Context) ([]store.BalanceDrift, error) {
	if s.selfCheckFn == nil {
		return nil, nil
	}
	return s.selfCheckFn(ctx)
}

type stubAlertService struct {
	scanFn func(ctx context.Context, horizonDays int) ([]services.Alert, error)
}

func (s stubAlertService) Scan(ctx context.Context, horizonDays int) ([]services.Alert, error) {
	if s.scanFn == nil {
		return nil, nil
	}
	return s.scanFn(ctx, horizonDays)
}

type stubRefundService struct {
	createFn     func(ctx context.Context, req services.RefundRequest) (models.Refund, error)
	transitionFn func(ctx context.Context, actorID, refundID, target string) (models.Refund, error)
}

func (s stubRefundService) Create(ctx context.Context, req services.RefundRequest) (models.Refund, error) {
	if s.createFn == nil {
		return models.Refund{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubRefundService) Transition(ctx context.Context, actorID, refundID, target string) (models.Refund, error) {
	if s.transitionFn == nil {
		return models.Refund{}, nil
	}
	return s.transitionFn(ctx, actorID, refundID, target)
}

type handlerDeps struct {
	txRunner  fakeTxRunner
	users     stubUserStore
	vehicles  stubVehicleStore
	drivers   stubDriverStore
	missions  stubMissionStore
	payments  stubPaymentStore
	expenses  stubExpenseStore
	cash      stubCashStore
	refunds   stubRefundStore
	tariffs   stubTariffStore
	documents stubDocumentStore
	audit     stubAuditStore
	booking   stubBookingService
	reports   stubReportService
	alerts    stubAlertService
	refundSvc stubRefundService
}

func newTestHandler(deps handlerDeps) *Handler {
	cfg := config.Config{
		AppEnv:           "test",
		Port:             "0",
		JWTSecret:        "secret",
		TokenTTL:         time.Minute,
		AllowedOrigins:   "*",
		AlertHorizonDays: 30,
	}
	return New(deps.txRunner, cfg, deps.users, deps.vehicles, deps.drivers, deps.missions,
		deps.payments, deps.expenses, deps.cash, deps.refunds, deps.tariffs, deps.documents,
		deps.audit, deps.booking, deps.reports, deps.alerts, deps.refundSvc, websocket.NewHub())
}

func authedRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	token, err := auth.GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func serveAuthed(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}

func stringPtr(value string) *string {
	return &value
}
