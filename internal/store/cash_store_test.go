package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"fleetcab/internal/models"
)

func TestCashStoreInsert(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO cash_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 8 || args[0] != "ce-1" || args[1] != models.CashInflow {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewCashStore(stubDB{})
	err := store.Insert(ctx, execer, CashEntryInput{
		ID:        "ce-1",
		Direction: models.CashInflow,
		Amount:    5000,
		Currency:  "USD",
		EntryAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCashStoreSumByCurrencies(t *testing.T) {
	ctx := context.Background()
	store := NewCashStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "CASE WHEN direction = $1 THEN amount ELSE -amount END") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "currency = ANY($2)") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != models.CashInflow {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*int64) = 12500
			return nil
		},
	})
	sum, err := store.SumByCurrencies(ctx, []string{"CDF", "FC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 12500 {
		t.Fatalf("unexpected sum: %d", sum)
	}
}

func TestCashStoreFlux(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	store := NewCashStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "entry_at >= $4") || !strings.Contains(query, "entry_at < $5") {
				t.Fatalf("expected half-open window in query: %s", query)
			}
			if len(args) != 5 || args[3] != from || args[4] != to {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*FluxRow) = FluxRow{Inflow: 800, Outflow: 300}
			return nil
		},
	})
	row, err := store.Flux(ctx, []string{"USD"}, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Inflow != 800 || row.Outflow != 300 {
		t.Fatalf("unexpected flux: %#v", row)
	}
}
