package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"fleetcab/internal/models"
)

func TestVehicleStoreListAvailableNoWindow(t *testing.T) {
	ctx := context.Background()
	store := NewVehicleStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if strings.Contains(query, "NOT EXISTS") {
				t.Fatalf("expected no occupancy filter without a window: %s", query)
			}
			if len(args) != 1 || args[0] != models.VehicleOutOfService {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.Vehicle) = []models.Vehicle{{ID: "v-1"}}
			return nil
		},
	})
	rows, err := store.ListAvailable(ctx, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestVehicleStoreListAvailableWindow(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	exclude := "m-9"
	store := NewVehicleStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "m.scheduled_start < $5") || !strings.Contains(query, "m.scheduled_end > $4") {
				t.Fatalf("expected half-open overlap test: %s", query)
			}
			if !strings.Contains(query, "m.id <> $6") {
				t.Fatalf("expected mission exclusion: %s", query)
			}
			if len(args) != 6 || args[3] != start || args[4] != end || args[5] != &exclude {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.Vehicle) = []models.Vehicle{{ID: "v-1"}}
			return nil
		},
	})
	rows, err := store.ListAvailable(ctx, &start, &end, &exclude)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "v-1" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
