package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetcab/internal/models"
	"fleetcab/internal/store"
)

type stubRefundStore struct {
	createFn    func(ctx context.Context, tx store.Execer, input store.RefundInput) error
	getByIDFn   func(ctx context.Context, refundID string) (models.Refund, error)
	setStatusFn func(ctx context.Context, tx store.Execer, refundID, status string, processedAt *time.Time) error
}

func (s stubRefundStore) Create(ctx context.Context, tx store.Execer, input store.RefundInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubRefundStore) GetByID(ctx context.Context, refundID string) (models.Refund, error) {
	return s.getByIDFn(ctx, refundID)
}

func (s stubRefundStore) SetStatus(ctx context.Context, tx store.Execer, refundID, status string, processedAt *time.Time) error {
	if s.setStatusFn == nil {
		return nil
	}
	return s.setStatusFn(ctx, tx, refundID, status, processedAt)
}

type stubRefundMissionStore struct {
	getByIDFn func(ctx context.Context, missionID string) (models.Mission, error)
}

func (s stubRefundMissionStore) GetByID(ctx context.Context, missionID string) (models.Mission, error) {
	if s.getByIDFn == nil {
		return models.Mission{ID: missionID}, nil
	}
	return s.getByIDFn(ctx, missionID)
}

func TestRefundCreateStartsPending(t *testing.T) {
	var created store.RefundInput
	refunds := stubRefundStore{
		createFn: func(_ context.Context, _ store.Execer, input store.RefundInput) error {
			created = input
			return nil
		},
		getByIDFn: func(_ context.Context, refundID string) (models.Refund, error) {
			return models.Refund{ID: refundID, Status: models.RefundPending}, nil
		},
	}
	svc := NewRefundService(fakeTxRunner{}, refunds, stubRefundMissionStore{}, stubAuditStore{})
	refund, err := svc.Create(context.Background(), RefundRequest{
		ActorID:    "user-1",
		ClientName: "Acme",
		Amount:     5000,
		Currency:   "USD",
		Reason:     "cancelled trip",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != models.RefundPending {
		t.Fatalf("new refunds must start pending: %#v", created)
	}
	if refund.Status != models.RefundPending {
		t.Fatalf("unexpected refund: %#v", refund)
	}
}

func TestRefundCreateRejectsUnknownMission(t *testing.T) {
	missionID := "nope"
	missions := stubRefundMissionStore{
		getByIDFn: func(context.Context, string) (models.Mission, error) {
			return models.Mission{}, errNoRows()
		},
	}
	svc := NewRefundService(fakeTxRunner{}, stubRefundStore{}, missions, stubAuditStore{})
	_, err := svc.Create(context.Background(), RefundRequest{
		MissionID:  &missionID,
		ClientName: "Acme",
		Amount:     5000,
		Currency:   "USD",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRefundTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.RefundPending, models.RefundUnderReview, true},
		{models.RefundUnderReview, models.RefundApproved, true},
		{models.RefundUnderReview, models.RefundRejected, true},
		{models.RefundApproved, models.RefundRefunded, true},
		{models.RefundPending, models.RefundApproved, false},
		{models.RefundPending, models.RefundRefunded, false},
		{models.RefundRejected, models.RefundRefunded, false},
		{models.RefundRefunded, models.RefundPending, false},
	}
	for _, tc := range cases {
		current := tc.from
		refunds := stubRefundStore{
			getByIDFn: func(_ context.Context, refundID string) (models.Refund, error) {
				return models.Refund{ID: refundID, Status: current}, nil
			},
			setStatusFn: func(_ context.Context, _ store.Execer, _, status string, _ *time.Time) error {
				current = status
				return nil
			},
		}
		svc := NewRefundService(fakeTxRunner{}, refunds, stubRefundMissionStore{}, stubAuditStore{})
		_, err := svc.Transition(context.Background(), "user-1", "r-1", tc.to)
		if tc.allowed && err != nil {
			t.Fatalf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
		if !tc.allowed {
			var stateErr *StateError
			if !errors.As(err, &stateErr) {
				t.Fatalf("%s -> %s should be rejected, got %v", tc.from, tc.to, err)
			}
		}
	}
}

func TestRefundTerminalStatesStampProcessedAt(t *testing.T) {
	var gotProcessed *time.Time
	refunds := stubRefundStore{
		getByIDFn: func(_ context.Context, refundID string) (models.Refund, error) {
			return models.Refund{ID: refundID, Status: models.RefundApproved}, nil
		},
		setStatusFn: func(_ context.Context, _ store.Execer, _, _ string, processedAt *time.Time) error {
			gotProcessed = processedAt
			return nil
		},
	}
	svc := NewRefundService(fakeTxRunner{}, refunds, stubRefundMissionStore{}, stubAuditStore{})
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	if _, err := svc.Transition(context.Background(), "user-1", "r-1", models.RefundRefunded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotProcessed == nil || !gotProcessed.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected processed_at stamp, got %v", gotProcessed)
	}
}

func TestRefundTransitionUnknownRefund(t *testing.T) {
	refunds := stubRefundStore{
		getByIDFn: func(context.Context, string) (models.Refund, error) {
			return models.Refund{}, errNoRows()
		},
	}
	svc := NewRefundService(fakeTxRunner{}, refunds, stubRefundMissionStore{}, stubAuditStore{})
	_, err := svc.Transition(context.Background(), "user-1", "nope", models.RefundUnderReview)
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
