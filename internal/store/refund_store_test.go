package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"fleetcab/internal/models"
)

func TestRefundStoreCreate(t *testing.T) {
	ctx := context.Background()
	missionID := "mis-1"
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO refunds") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 9 {
				t.Fatalf("expected 9 args, got %d", len(args))
			}
			if args[0] != "ref-1" || args[6] != models.RefundPending {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewRefundStore(stubDB{})
	err := store.Create(ctx, execer, RefundInput{
		ID:          "ref-1",
		MissionID:   &missionID,
		ClientName:  "Mme Ilunga",
		Amount:      4000,
		Currency:    "USD",
		Reason:      "trip cancelled",
		Status:      models.RefundPending,
		RequestedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefundStoreSetStatus(t *testing.T) {
	ctx := context.Background()
	processedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET status = $1, processed_at = $2") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != models.RefundRefunded {
				t.Fatalf("unexpected status arg: %#v", args[0])
			}
			got, ok := args[1].(*time.Time)
			if !ok || !got.Equal(processedAt) {
				t.Fatalf("processed_at not forwarded: %#v", args[1])
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewRefundStore(stubDB{})
	if err := store.SetStatus(ctx, execer, "ref-1", models.RefundRefunded, &processedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefundStoreListFiltersStatus(t *testing.T) {
	ctx := context.Background()
	store := NewRefundStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE status = $1") {
				t.Fatalf("expected status filter: %s", query)
			}
			if len(args) != 1 || args[0] != models.RefundPending {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.Refund) = []models.Refund{{ID: "ref-1", Status: models.RefundPending}}
			return nil
		},
	})
	refunds, err := store.List(ctx, models.RefundPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refunds) != 1 {
		t.Fatalf("expected one refund, got %d", len(refunds))
	}
}
