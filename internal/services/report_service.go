package services

import (
	"context"
	"time"

	"fleetcab/internal/models"
	"fleetcab/internal/money"
	"fleetcab/internal/store"
)

type ReportCashStore interface {
	SumByCurrencies(ctx context.Context, currencies []string) (int64, error)
	Flux(ctx context.Context, currencies []string, from, to time.Time) (store.FluxRow, error)
}

type ReportMissionStore interface {
	ListReceivables(ctx context.Context) ([]models.Mission, error)
	ListBalanceDrift(ctx context.Context) ([]store.BalanceDrift, error)
}

// ReportService derives read-only financial views. Balances are always a
// full re-scan over the cash entries; there is no incremental counter to
// get out of sync.
type ReportService struct {
	cashStore    ReportCashStore
	missionStore ReportMissionStore
}

func NewReportService(cashStore ReportCashStore, missionStore ReportMissionStore) *ReportService {
	return &ReportService{cashStore: cashStore, missionStore: missionStore}
}

type Balance struct {
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

// Balances returns one signed total per supported currency. USD and CDF
// ledgers are independent; nothing is ever converted between them. Entries
// tagged with an alias label fold into their canonical bucket.
func (s *ReportService) Balances(ctx context.Context) ([]Balance, error) {
	out := make([]Balance, 0, len(money.Currencies))
	for _, currency := range money.Currencies {
		sum, err := s.cashStore.SumByCurrencies(ctx, money.Labels(currency))
		if err != nil {
			return nil, err
		}
		out = append(out, Balance{Currency: currency, Balance: sum})
	}
	return out, nil
}

type Flux struct {
	Currency string    `json:"currency"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Inflow   int64     `json:"inflow"`
	Outflow  int64     `json:"outflow"`
	Net      int64     `json:"net"`
}

// Flux totals inflow and outflow for one currency over the half-open
// window [from, to).
func (s *ReportService) Flux(ctx context.Context, currency string, from, to time.Time) (Flux, error) {
	canonical, err := money.Validate(currency)
	if err != nil {
		return Flux{}, validationErrorf("currency: %v", err)
	}
	if !to.After(from) {
		return Flux{}, validationErrorf("window end must be after window start")
	}
	row, err := s.cashStore.Flux(ctx, money.Labels(canonical), from, to)
	if err != nil {
		return Flux{}, err
	}
	return Flux{
		Currency: canonical,
		From:     from,
		To:       to,
		Inflow:   row.Inflow,
		Outflow:  row.Outflow,
		Net:      row.Inflow - row.Outflow,
	}, nil
}

func (s *ReportService) Receivables(ctx context.Context) ([]models.Mission, error) {
	return s.missionStore.ListReceivables(ctx)
}

// SelfCheck compares each mission's cached paid amount against the sum of
// its payment rows. The cached value is a projection that every write path
// re-derives in-transaction, so any drift reported here is a bug.
func (s *ReportService) SelfCheck(ctx context.Context) ([]store.BalanceDrift, error) {
	return s.missionStore.ListBalanceDrift(ctx)
}
