package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"fleetcab/internal/models"
	"fleetcab/internal/services"
)

func TestRecordManualEntry(t *testing.T) {
	var captured services.ManualEntryRequest
	handler := newTestHandler(handlerDeps{
		booking: stubBookingService{
			recordManualEntryFn: func(_ context.Context, req services.ManualEntryRequest) (string, error) {
				captured = req
				return "entry-1", nil
			},
		},
	})
	rr := serveAuthed(handler.RecordManualEntry, authedRequest(t, http.MethodPost, "/cash", map[string]any{
		"direction":   models.CashOutflow,
		"amount":      "35.00",
		"currency":    "FC",
		"description": "office supplies",
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.ActorID != "user-1" || captured.Amount != 3500 {
		t.Fatalf("unexpected request: %+v", captured)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["id"] != "entry-1" {
		t.Fatalf("expected entry id, got %#v", payload)
	}
}

func TestRecordManualEntryBadDirection(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		booking: stubBookingService{
			recordManualEntryFn: func(context.Context, services.ManualEntryRequest) (string, error) {
				return "", &services.ValidationError{Msg: "direction must be Inflow or Outflow"}
			},
		},
	})
	rr := serveAuthed(handler.RecordManualEntry, authedRequest(t, http.MethodPost, "/cash", map[string]any{
		"direction": "Sideways",
		"amount":    "10.00",
		"currency":  "USD",
	}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCashBalances(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		reports: stubReportService{
			balancesFn: func(context.Context) ([]services.Balance, error) {
				return []services.Balance{
					{Currency: "USD", Balance: 120000},
					{Currency: "CDF", Balance: -5000},
				}, nil
			},
		},
	})
	rr := serveAuthed(handler.CashBalances, authedRequest(t, http.MethodGet, "/cash/balance", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var balances []services.Balance
	if err := json.NewDecoder(rr.Body).Decode(&balances); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(balances) != 2 || balances[1].Balance != -5000 {
		t.Fatalf("unexpected balances: %#v", balances)
	}
}

func TestCashFluxRequiresWindow(t *testing.T) {
	handler := newTestHandler(handlerDeps{})
	rr := serveAuthed(handler.CashFlux, authedRequest(t, http.MethodGet, "/cash/flux?currency=USD", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without from/to, got %d", rr.Code)
	}
}

func TestCashFluxPassesWindow(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	handler := newTestHandler(handlerDeps{
		reports: stubReportService{
			fluxFn: func(_ context.Context, currency string, gotFrom, gotTo time.Time) (services.Flux, error) {
				if currency != "FC" {
					t.Fatalf("expected raw currency passed through, got %q", currency)
				}
				if !gotFrom.Equal(from) || !gotTo.Equal(to) {
					t.Fatalf("window not forwarded: %v %v", gotFrom, gotTo)
				}
				return services.Flux{Currency: "CDF", From: from, To: to, Inflow: 800, Outflow: 300, Net: 500}, nil
			},
		},
	})
	target := "/cash/flux?currency=FC&from=" + from.Format(time.RFC3339) + "&to=" + to.Format(time.RFC3339)
	rr := serveAuthed(handler.CashFlux, authedRequest(t, http.MethodGet, target, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var flux services.Flux
	if err := json.NewDecoder(rr.Body).Decode(&flux); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if flux.Currency != "CDF" || flux.Net != 500 {
		t.Fatalf("unexpected flux: %+v", flux)
	}
}
