package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetcab/internal/auth"
	"fleetcab/internal/models"
	"fleetcab/internal/store"

	"github.com/lib/pq"
)

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRegister(t *testing.T) {
	handler := newTestHandler(handlerDeps{})
	rr := postJSON(t, handler.Register, "/auth/register", map[string]string{
		"username": "dispatcher1",
		"email":    "dispatcher@fleetcab.cd",
		"password": "longenoughpassword",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["token"] == "" {
		t.Fatalf("expected token in response")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			createFn: func(context.Context, store.Execer, string, string, string, string) error {
				return &pq.Error{Code: "23505"}
			},
		},
	})
	rr := postJSON(t, handler.Register, "/auth/register", map[string]string{
		"username": "dispatcher1",
		"email":    "dispatcher@fleetcab.cd",
		"password": "longenoughpassword",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	handler := newTestHandler(handlerDeps{})
	rr := postJSON(t, handler.Register, "/auth/register", map[string]string{
		"username": "dispatcher1",
		"email":    "dispatcher@fleetcab.cd",
		"password": "short",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("longenoughpassword")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			getByEmailFn: func(_ context.Context, email string) (models.User, error) {
				return models.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
			},
		},
	})
	rr := postJSON(t, handler.Login, "/auth/login", map[string]string{
		"email":    "dispatcher@fleetcab.cd",
		"password": "longenoughpassword",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("longenoughpassword")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			getByEmailFn: func(_ context.Context, email string) (models.User, error) {
				return models.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
			},
		},
	})
	rr := postJSON(t, handler.Login, "/auth/login", map[string]string{
		"email":    "dispatcher@fleetcab.cd",
		"password": "wrongpassword",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			getByEmailFn: func(context.Context, string) (models.User, error) {
				return models.User{}, sql.ErrNoRows
			},
		},
	})
	rr := postJSON(t, handler.Login, "/auth/login", map[string]string{
		"email":    "nobody@fleetcab.cd",
		"password": "longenoughpassword",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestMe(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			getByIDFn: func(_ context.Context, userID string) (models.User, error) {
				return models.User{ID: userID, Username: "dispatcher1"}, nil
			},
		},
	})
	rr := serveAuthed(handler.Me, authedRequest(t, http.MethodGet, "/auth/me", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var user models.User
	if err := json.NewDecoder(rr.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected token subject, got %q", user.ID)
	}
}
