package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"fleetcab/internal/models"
)

func TestTariffStoreFindExactMatch(t *testing.T) {
	ctx := context.Background()
	store := NewTariffStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "vehicle_category = $1 AND service_type = $2") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "Berline" || args[1] != "Course simple" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.Tariff) = models.Tariff{ID: "tar-1", BasePrice: 2500, Currency: "USD"}
			return nil
		},
	})
	tariff, err := store.Find(ctx, "Berline", "Course simple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tariff.BasePrice != 2500 {
		t.Fatalf("unexpected tariff: %+v", tariff)
	}
}

func TestTariffStoreFindMissingReturnsNoRows(t *testing.T) {
	ctx := context.Background()
	store := NewTariffStore(stubDB{
		getFn: func(context.Context, any, string, ...any) error {
			return sql.ErrNoRows
		},
	})
	if _, err := store.Find(ctx, "Bus", "Transfert"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestTariffStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO tariffs") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 5 || args[3] != int64(2500) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewTariffStore(stubDB{})
	err := store.Create(ctx, execer, TariffInput{
		ID:              "tar-1",
		VehicleCategory: "Berline",
		ServiceType:     "Course simple",
		BasePrice:       2500,
		Currency:        "USD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
