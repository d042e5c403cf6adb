package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/domain/interfaces"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DemoAccountName identifies the seeded demo portfolio. Seeding is
// idempotent in effect: an existing demo account is replaced.
const DemoAccountName = "Demo Portfolio"

type Service struct {
	accounts     interfaces.AccountsRepository
	transactions interfaces.TransactionsRepository
	snapshots    interfaces.SnapshotsRepository
	logger       *logrus.Logger
}

func NewService(accounts interfaces.AccountsRepository, transactions interfaces.TransactionsRepository, snapshots interfaces.SnapshotsRepository, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		snapshots:    snapshots,
		logger:       logger,
	}
}

// Seed creates the demo account with thirty days of transactions and
// balance snapshots, removing any previous demo account first.
func (s *Service) Seed(ctx context.Context) (*domain.Account, error) {
	if err := s.removeExisting(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Name:        DemoAccountName,
		CashBalance: decimal.RequireFromString("5240.50"),
		CreatedAt:   now.AddDate(0, 0, -30),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create demo account: %w", err)
	}

	for _, f := range demoTransactions {
		quantity := decimal.RequireFromString(f.quantity)
		price := decimal.RequireFromString(f.price)
		tx := &domain.Transaction{
			AccountID:   account.ID,
			Symbol:      f.symbol,
			Kind:        f.kind,
			AssetClass:  f.assetClass,
			Quantity:    quantity,
			Price:       price,
			TotalAmount: quantity.Mul(price),
			ExecutedAt:  now.AddDate(0, 0, -f.daysAgo),
		}
		if err := s.transactions.Create(ctx, tx); err != nil {
			return nil, fmt.Errorf("seed transaction %s: %w", f.symbol, err)
		}
	}

	for _, f := range demoSnapshots {
		snapshot := &domain.BalanceSnapshot{
			AccountID:  account.ID,
			TotalValue: decimal.RequireFromString(f.totalValue),
			RecordedAt: now.AddDate(0, 0, -f.daysAgo),
		}
		if err := s.snapshots.Save(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("seed snapshot: %w", err)
		}
	}

	s.logger.WithField("account", account.ID).Info("demo portfolio seeded")
	return account, nil
}

// Find returns the demo account if it has been seeded.
func (s *Service) Find(ctx context.Context) (*domain.Account, error) {
	return s.accounts.GetByName(ctx, DemoAccountName)
}

// Reset removes the demo account and everything owned by it.
func (s *Service) Reset(ctx context.Context) error {
	account, err := s.accounts.GetByName(ctx, DemoAccountName)
	if err != nil {
		return err
	}
	return s.remove(ctx, account)
}

func (s *Service) removeExisting(ctx context.Context) error {
	account, err := s.accounts.GetByName(ctx, DemoAccountName)
	if errors.Is(err, interfaces.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.remove(ctx, account)
}

func (s *Service) remove(ctx context.Context, account *domain.Account) error {
	if err := s.snapshots.DeleteByAccount(ctx, account.ID); err != nil {
		return err
	}
	if err := s.transactions.DeleteByAccount(ctx, account.ID); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, account.ID)
}

type demoTransaction struct {
	symbol     string
	kind       domain.TransactionKind
	assetClass domain.AssetClass
	quantity   string
	price      string
	daysAgo    int
}

type demoSnapshot struct {
	totalValue string
	daysAgo    int
}

var demoTransactions = []demoTransaction{
	{"AAPL", domain.KindBuy, domain.AssetClassStock, "15", "178.50", 28},
	{"GOOGL", domain.KindBuy, domain.AssetClassStock, "8", "141.20", 25},
	{"BTC", domain.KindBuy, domain.AssetClassCrypto, "0.12", "43500.00", 22},
	{"AAPL", domain.KindBuy, domain.AssetClassStock, "10", "182.30", 18},
	{"ETH", domain.KindBuy, domain.AssetClassCrypto, "1.5", "2280.00", 15},
	{"MSFT", domain.KindBuy, domain.AssetClassStock, "12", "415.60", 12},
	{"AAPL", domain.KindSell, domain.AssetClassStock, "5", "191.20", 9},
	{"TSLA", domain.KindBuy, domain.AssetClassStock, "6", "248.90", 7},
	{"BTC", domain.KindBuy, domain.AssetClassCrypto, "0.05", "44800.00", 4},
	{"GOOGL", domain.KindSell, domain.AssetClassStock, "3", "148.50", 2},
	{"SOL", domain.KindBuy, domain.AssetClassCrypto, "20", "98.40", 1},
}

var demoSnapshots = []demoSnapshot{
	{"18500.00", 28},
	{"19200.00", 25},
	{"24100.00", 22},
	{"24800.00", 20},
	{"26500.00", 18},
	{"27200.00", 16},
	{"30600.00", 15},
	{"31100.00", 13},
	{"36000.00", 12},
	{"35400.00", 10},
	{"34800.00", 9},
	{"36300.00", 7},
	{"37100.00", 5},
	{"39500.00", 4},
	{"38900.00", 3},
	{"40200.00", 2},
	{"41800.00", 1},
	{"42350.00", 0},
}
