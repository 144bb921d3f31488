package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetcab/internal/config"
	"fleetcab/internal/db"
	"fleetcab/internal/handlers"
	"fleetcab/internal/services"
	"fleetcab/internal/store"
	"fleetcab/internal/websocket"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close()

	users := store.NewUserStore(database)
	vehicles := store.NewVehicleStore(database)
	drivers := store.NewDriverStore(database)
	missions := store.NewMissionStore(database)
	payments := store.NewPaymentStore(database)
	expenses := store.NewExpenseStore(database)
	cash := store.NewCashStore(database)
	refunds := store.NewRefundStore(database)
	tariffs := store.NewTariffStore(database)
	documents := store.NewDocumentStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	booking := services.NewBookingService(txRunner, missions, vehicles, drivers, payments, expenses, cash, tariffs, audit, hub)
	reports := services.NewReportService(cash, missions)
	alerts := services.NewAlertService(documents, vehicles, drivers)
	refundSvc := services.NewRefundService(txRunner, refunds, missions, audit)

	handler := handlers.New(txRunner, cfg, users, vehicles, drivers, missions, payments,
		expenses, cash, refunds, tariffs, documents, audit, booking, reports, alerts, refundSvc, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("fleetcab API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("shutdown error")
	}
	log.Info("server stopped")
}
