package handlers

import (
	"net/http"

	"fleetcab/internal/config"
	"fleetcab/internal/db"
	"fleetcab/internal/middleware"
	"fleetcab/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner  db.TxRunner
	cfg       config.Config
	users     UserStore
	vehicles  VehicleStore
	drivers   DriverStore
	missions  MissionStore
	payments  PaymentStore
	expenses  ExpenseStore
	cash      CashStore
	refunds   RefundStore
	tariffs   TariffStore
	documents DocumentStore
	audit     AuditStore
	booking   BookingService
	reports   ReportService
	alerts    AlertService
	refundSvc RefundService
	hub       *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, vehicles VehicleStore, drivers DriverStore, missions MissionStore, payments PaymentStore, expenses ExpenseStore, cash CashStore, refunds RefundStore, tariffs TariffStore, documents DocumentStore, audit AuditStore, booking BookingService, reports ReportService, alerts AlertService, refundSvc RefundService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:  txRunner,
		cfg:       cfg,
		users:     users,
		vehicles:  vehicles,
		drivers:   drivers,
		missions:  missions,
		payments:  payments,
		expenses:  expenses,
		cash:      cash,
		refunds:   refunds,
		tariffs:   tariffs,
		documents: documents,
		audit:     audit,
		booking:   booking,
		reports:   reports,
		alerts:    alerts,
		refundSvc: refundSvc,
		hub:       hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", h.ListVehicles)
			r.Post("/", h.CreateVehicle)
			r.Get("/available", h.ListAvailableVehicles)
			r.Get("/{id}", h.GetVehicle)
			r.Put("/{id}", h.UpdateVehicle)
			r.Delete("/{id}", h.DeleteVehicle)
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", h.ListDrivers)
			r.Post("/", h.CreateDriver)
			r.Get("/available", h.ListAvailableDrivers)
			r.Get("/{id}", h.GetDriver)
			r.Put("/{id}", h.UpdateDriver)
			r.Delete("/{id}", h.DeleteDriver)
		})

		r.Route("/missions", func(r chi.Router) {
			r.Get("/", h.ListMissions)
			r.Post("/", h.CreateMission)
			r.Get("/{id}", h.GetMission)
			r.Put("/{id}", h.UpdateMission)
			r.Delete("/{id}", h.DeleteMission)
			r.Post("/{id}/start", h.StartMission)
			r.Post("/{id}/complete", h.CompleteMission)
			r.Post("/{id}/cancel", h.CancelMission)
			r.Get("/{id}/payments", h.ListMissionPayments)
			r.Post("/{id}/payments", h.RecordPayment)
		})

		r.Route("/cash", func(r chi.Router) {
			r.Get("/", h.ListCashEntries)
			r.Post("/", h.RecordManualEntry)
			r.Get("/balance", h.CashBalances)
			r.Get("/flux", h.CashFlux)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.RecordExpense)
		})

		r.Route("/refunds", func(r chi.Router) {
			r.Get("/", h.ListRefunds)
			r.Post("/", h.CreateRefund)
			r.Get("/{id}", h.GetRefund)
			r.Post("/{id}/status", h.TransitionRefund)
			r.Delete("/{id}", h.DeleteRefund)
		})

		r.Route("/tariffs", func(r chi.Router) {
			r.Get("/", h.ListTariffs)
			r.Post("/", h.CreateTariff)
			r.Get("/quote", h.QuoteRate)
			r.Put("/{id}", h.UpdateTariff)
			r.Delete("/{id}", h.DeleteTariff)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", h.ListDocuments)
			r.Post("/", h.CreateDocument)
			r.Get("/{id}", h.GetDocument)
			r.Put("/{id}", h.UpdateDocument)
			r.Delete("/{id}", h.DeleteDocument)
		})

		r.Get("/alerts", h.ListAlerts)
		r.Get("/reports/receivables", h.Receivables)
		r.Get("/reports/self-check", h.SelfCheck)
		r.Get("/reports/audit", h.ListAuditLogs)
	})

	router.Get("/ws/cash", h.WSCash)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func (h *Handler) WSCash(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(w, r, h.hub)
}
