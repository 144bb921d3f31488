package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"fleetcab/internal/services"
	"fleetcab/internal/store"
)

func TestSelfCheckReportsDrift(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		reports: stubReportService{
			selfCheckFn: func(context.Context) ([]store.BalanceDrift, error) {
				return []store.BalanceDrift{{MissionID: "mis-1", Cached: 5000, Calculated: 7000}}, nil
			},
		},
	})
	rr := serveAuthed(handler.SelfCheck, authedRequest(t, http.MethodGet, "/reports/self-check", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["drift_count"].(float64) != 1 {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestListAlertsForwardsHorizon(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		alerts: stubAlertService{
			scanFn: func(_ context.Context, horizonDays int) ([]services.Alert, error) {
				if horizonDays != 14 {
					t.Fatalf("expected horizon 14, got %d", horizonDays)
				}
				return []services.Alert{{
					ID:         "doc-1",
					EntityType: "document",
					Severity:   services.AlertSeverityWarning,
					DueDate:    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
				}}, nil
			},
		},
	})
	rr := serveAuthed(handler.ListAlerts, authedRequest(t, http.MethodGet, "/alerts?horizon=14", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestListAlertsRejectsBadHorizon(t *testing.T) {
	handler := newTestHandler(handlerDeps{})
	rr := serveAuthed(handler.ListAlerts, authedRequest(t, http.MethodGet, "/alerts?horizon=-3", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
