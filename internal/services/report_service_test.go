package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetcab/internal/models"
	"fleetcab/internal/store"
)

type stubReportMissionStore struct {
	receivablesFn func(ctx context.Context) ([]models.Mission, error)
	driftFn       func(ctx context.Context) ([]store.BalanceDrift, error)
}

func (s stubReportMissionStore) ListReceivables(ctx context.Context) ([]models.Mission, error) {
	if s.receivablesFn == nil {
		return nil, nil
	}
	return s.receivablesFn(ctx)
}

func (s stubReportMissionStore) ListBalanceDrift(ctx context.Context) ([]store.BalanceDrift, error) {
	if s.driftFn == nil {
		return nil, nil
	}
	return s.driftFn(ctx)
}

func TestBalancesFoldsAliasLabels(t *testing.T) {
	var queried [][]string
	cash := stubCashStore{
		sumFn: func(_ context.Context, currencies []string) (int64, error) {
			queried = append(queried, currencies)
			if currencies[0] == "USD" {
				return 10000, nil
			}
			return -2500, nil
		},
	}
	svc := NewReportService(cash, stubReportMissionStore{})
	balances, err := svc.Balances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected one bucket per currency, got %#v", balances)
	}
	if balances[0].Currency != "USD" || balances[0].Balance != 10000 {
		t.Fatalf("unexpected USD bucket: %#v", balances[0])
	}
	if balances[1].Currency != "CDF" || balances[1].Balance != -2500 {
		t.Fatalf("unexpected CDF bucket: %#v", balances[1])
	}
	if len(queried) != 2 {
		t.Fatalf("expected two store calls, got %#v", queried)
	}
	cdfLabels := queried[1]
	foundAlias := false
	for _, label := range cdfLabels {
		if label == "FC" {
			foundAlias = true
		}
	}
	if !foundAlias {
		t.Fatalf("CDF query must include the FC alias label: %#v", cdfLabels)
	}
}

func TestFluxValidatesWindow(t *testing.T) {
	svc := NewReportService(stubCashStore{}, stubReportMissionStore{})
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Flux(context.Background(), "USD", at, at)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error for empty window, got %v", err)
	}
}

func TestFluxComputesNet(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	cash := stubCashStore{
		fluxFn: func(_ context.Context, currencies []string, gotFrom, gotTo time.Time) (store.FluxRow, error) {
			if !gotFrom.Equal(from) || !gotTo.Equal(to) {
				t.Fatalf("unexpected window: %v .. %v", gotFrom, gotTo)
			}
			if currencies[0] != "CDF" {
				t.Fatalf("unexpected currencies: %#v", currencies)
			}
			return store.FluxRow{Inflow: 8000, Outflow: 3000}, nil
		},
	}
	svc := NewReportService(cash, stubReportMissionStore{})
	flux, err := svc.Flux(context.Background(), "FC", from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flux.Currency != "CDF" {
		t.Fatalf("alias must canonicalize: %#v", flux)
	}
	if flux.Net != 5000 {
		t.Fatalf("unexpected net: %#v", flux)
	}
}

func TestFluxRejectsUnknownCurrency(t *testing.T) {
	svc := NewReportService(stubCashStore{}, stubReportMissionStore{})
	_, err := svc.Flux(context.Background(), "EUR", time.Now().Add(-time.Hour), time.Now())
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSelfCheckSurfacesDrift(t *testing.T) {
	svc := NewReportService(stubCashStore{}, stubReportMissionStore{
		driftFn: func(context.Context) ([]store.BalanceDrift, error) {
			return []store.BalanceDrift{{MissionID: "m-1", Cached: 100, Calculated: 50}}, nil
		},
	})
	drift, err := svc.SelfCheck(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drift) != 1 || drift[0].MissionID != "m-1" {
		t.Fatalf("unexpected drift: %#v", drift)
	}
}
