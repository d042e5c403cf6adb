package snapshots

import (
	"context"
	"errors"
	"time"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
)

// snapshotMinInterval throttles persisted snapshots per account. A
// record request inside the window returns the existing snapshot
// unchanged, so read-triggered recording cannot grow the table
// unboundedly.
const snapshotMinInterval = time.Hour

type Service struct {
	snapshots    interfaces.SnapshotsRepository
	accounts     interfaces.AccountsRepository
	transactions interfaces.TransactionsRepository
	now          func() time.Time
}

func NewService(snapshots interfaces.SnapshotsRepository, accounts interfaces.AccountsRepository, transactions interfaces.TransactionsRepository) *Service {
	return &Service{
		snapshots:    snapshots,
		accounts:     accounts,
		transactions: transactions,
		now:          time.Now,
	}
}

// WithClock substitutes the wall-clock source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record persists a fresh point-in-time valuation for the account, or
// returns the most recent snapshot when one exists within the last
// hour. Total value is cash plus all holdings priced at average cost.
//
// The latest-snapshot check and the insert are not mutually exclusive
// across concurrent calls; a rare duplicate inside the window is
// tolerated.
func (s *Service) Record(ctx context.Context, accountID uuid.UUID) (*domain.BalanceSnapshot, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	latest, err := s.snapshots.Latest(ctx, accountID)
	switch {
	case err == nil:
		if now.Sub(latest.RecordedAt) < snapshotMinInterval {
			return latest, nil
		}
	case errors.Is(err, interfaces.ErrSnapshotNotFound):
		// first snapshot for this account
	default:
		return nil, err
	}

	transactions, err := s.transactions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	holdings := domain.ComputeHoldings(transactions)

	snapshot := &domain.BalanceSnapshot{
		AccountID:  accountID,
		TotalValue: account.CashBalance.Add(domain.HoldingsValue(holdings)),
		RecordedAt: now,
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// History returns all snapshots for the account, oldest first.
func (s *Service) History(ctx context.Context, accountID uuid.UUID) ([]domain.BalanceSnapshot, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	return s.snapshots.ListByAccount(ctx, accountID)
}
