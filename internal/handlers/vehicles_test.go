package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"fleetcab/internal/models"
	"fleetcab/internal/store"
)

func TestCreateVehicleDefaultsStatus(t *testing.T) {
	var captured store.VehicleInput
	handler := newTestHandler(handlerDeps{
		vehicles: stubVehicleStore{
			createFn: func(_ context.Context, _ store.Execer, input store.VehicleInput) error {
				captured = input
				return nil
			},
			getByIDFn: func(_ context.Context, vehicleID string) (models.Vehicle, error) {
				return models.Vehicle{ID: vehicleID, Status: models.VehicleFree}, nil
			},
		},
	})
	rr := serveAuthed(handler.CreateVehicle, authedRequest(t, http.MethodPost, "/vehicles", map[string]any{
		"plate":    "KN-1234-AB",
		"brand":    "Toyota",
		"model":    "Hiace",
		"category": "Van",
		"mileage":  120000,
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.Status != models.VehicleFree {
		t.Fatalf("expected default status Free, got %q", captured.Status)
	}
}

func TestCreateVehicleRejectsBadStatus(t *testing.T) {
	handler := newTestHandler(handlerDeps{})
	rr := serveAuthed(handler.CreateVehicle, authedRequest(t, http.MethodPost, "/vehicles", map[string]any{
		"plate":  "KN-1234-AB",
		"status": "Parked",
	}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListAvailableVehiclesForwardsWindow(t *testing.T) {
	start := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	handler := newTestHandler(handlerDeps{
		vehicles: stubVehicleStore{
			listAvailableFn: func(_ context.Context, gotStart, gotEnd *time.Time, exclude *string) ([]models.Vehicle, error) {
				if gotStart == nil || gotEnd == nil {
					t.Fatalf("window bounds not forwarded")
				}
				if !gotStart.Equal(start) || !gotEnd.Equal(end) {
					t.Fatalf("wrong window: %v %v", gotStart, gotEnd)
				}
				if exclude == nil || *exclude != "mis-1" {
					t.Fatalf("exclude_mission_id not forwarded: %v", exclude)
				}
				return []models.Vehicle{{ID: "veh-1"}}, nil
			},
		},
	})
	target := "/vehicles/available?start=" + start.Format(time.RFC3339) +
		"&end=" + end.Format(time.RFC3339) + "&exclude_mission_id=mis-1"
	rr := serveAuthed(handler.ListAvailableVehicles, authedRequest(t, http.MethodGet, target, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestListAvailableVehiclesNoWindow(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		vehicles: stubVehicleStore{
			listAvailableFn: func(_ context.Context, start, end *time.Time, exclude *string) ([]models.Vehicle, error) {
				if start != nil || end != nil || exclude != nil {
					t.Fatalf("expected nil bounds without query params")
				}
				return nil, nil
			},
		},
	})
	rr := serveAuthed(handler.ListAvailableVehicles, authedRequest(t, http.MethodGet, "/vehicles/available", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestDeleteVehicleReferencedConflicts(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		txRunner: fakeTxRunner{},
		vehicles: stubVehicleStore{
			deleteFn: func(context.Context, store.Execer, string) error {
				return errors.New("violates foreign key constraint")
			},
		},
	})
	req := withURLParam(authedRequest(t, http.MethodDelete, "/vehicles/veh-1", nil), "id", "veh-1")
	rr := serveAuthed(handler.DeleteVehicle, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}
