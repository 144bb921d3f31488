package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"fleetcab/internal/db"
	"fleetcab/internal/models"
	"fleetcab/internal/money"
	"fleetcab/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RefundStore interface {
	Create(ctx context.Context, tx store.Execer, input store.RefundInput) error
	GetByID(ctx context.Context, refundID string) (models.Refund, error)
	SetStatus(ctx context.Context, tx store.Execer, refundID, status string, processedAt *time.Time) error
}

type RefundMissionStore interface {
	GetByID(ctx context.Context, missionID string) (models.Mission, error)
}

// refundTransitions is the whole lifecycle. Moving a refund never writes a
// ledger entry; a paid-out refund is reconciled by hand as a Manual
// Outflow when the cash actually leaves the register.
var refundTransitions = map[string][]string{
	models.RefundPending:     {models.RefundUnderReview},
	models.RefundUnderReview: {models.RefundApproved, models.RefundRejected},
	models.RefundApproved:    {models.RefundRefunded},
}

type RefundService struct {
	txRunner     db.TxRunner
	refundStore  RefundStore
	missionStore RefundMissionStore
	auditStore   AuditStore
	now          func() time.Time
}

func NewRefundService(txRunner db.TxRunner, refundStore RefundStore, missionStore RefundMissionStore, auditStore AuditStore) *RefundService {
	return &RefundService{
		txRunner:     txRunner,
		refundStore:  refundStore,
		missionStore: missionStore,
		auditStore:   auditStore,
		now:          time.Now,
	}
}

type RefundRequest struct {
	ActorID    string
	MissionID  *string
	ClientName string
	Amount     int64
	Currency   string
	Reason     string
	Notes      string
}

func (s *RefundService) Create(ctx context.Context, req RefundRequest) (models.Refund, error) {
	if req.Amount <= 0 {
		return models.Refund{}, validationErrorf("refund amount must be positive")
	}
	currency, err := money.Validate(req.Currency)
	if err != nil {
		return models.Refund{}, validationErrorf("currency: %v", err)
	}
	if req.ClientName == "" {
		return models.Refund{}, validationErrorf("client name is required")
	}
	if req.MissionID != nil {
		if _, err := s.missionStore.GetByID(ctx, *req.MissionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Refund{}, validationErrorf("mission %s does not exist", *req.MissionID)
			}
			return models.Refund{}, err
		}
	}
	refundID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.refundStore.Create(ctx, tx, store.RefundInput{
			ID:          refundID,
			MissionID:   req.MissionID,
			ClientName:  req.ClientName,
			Amount:      req.Amount,
			Currency:    currency,
			Reason:      req.Reason,
			Status:      models.RefundPending,
			RequestedAt: s.now(),
			Notes:       req.Notes,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{
			"amount":   req.Amount,
			"currency": currency,
		})
		return s.auditStore.Log(ctx, tx, req.ActorID, "refund.create", "refund", refundID, string(data))
	})
	if err != nil {
		return models.Refund{}, wrapTxErr(err)
	}
	return s.refundStore.GetByID(ctx, refundID)
}

// Transition advances a refund through its review lifecycle, stamping
// processed_at when it reaches a terminal state.
func (s *RefundService) Transition(ctx context.Context, actorID, refundID, target string) (models.Refund, error) {
	refund, err := s.refundStore.GetByID(ctx, refundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Refund{}, &NotFoundError{Resource: "refund", ID: refundID}
		}
		return models.Refund{}, err
	}
	if !transitionAllowed(refund.Status, target) {
		return models.Refund{}, &StateError{Msg: "cannot move refund from " + refund.Status + " to " + target}
	}
	var processedAt *time.Time
	if target == models.RefundRejected || target == models.RefundRefunded {
		at := s.now()
		processedAt = &at
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.refundStore.SetStatus(ctx, tx, refundID, target, processedAt); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"from": refund.Status,
			"to":   target,
		})
		return s.auditStore.Log(ctx, tx, actorID, "refund.transition", "refund", refundID, string(data))
	})
	if err != nil {
		return models.Refund{}, wrapTxErr(err)
	}
	return s.refundStore.GetByID(ctx, refundID)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range refundTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
