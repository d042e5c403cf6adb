package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNilTransaction    = errors.New("transaction is nil")
	ErrBlankSymbol       = errors.New("symbol cannot be blank")
	ErrNonPositiveAmount = errors.New("quantity and price must be positive")
)

type Service struct {
	transactions interfaces.TransactionsRepository
	accounts     interfaces.AccountsRepository
	logger       *logrus.Logger
}

func NewService(transactions interfaces.TransactionsRepository, accounts interfaces.AccountsRepository, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{transactions: transactions, accounts: accounts, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]domain.Transaction, error) {
	return s.transactions.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactions.Get(ctx, id)
}

func (s *Service) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	return s.transactions.ListByAccount(ctx, accountID)
}

func (s *Service) ListBySymbol(ctx context.Context, symbol string) ([]domain.Transaction, error) {
	return s.transactions.ListBySymbol(ctx, symbol)
}

// Create validates and records a buy or sell. TotalAmount is computed
// here, once, and never recomputed afterwards.
func (s *Service) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if transaction == nil {
		return nil, ErrNilTransaction
	}
	if strings.TrimSpace(transaction.Symbol) == "" {
		return nil, ErrBlankSymbol
	}
	if !transaction.Kind.IsValid() {
		return nil, fmt.Errorf("invalid transaction kind: %s", transaction.Kind)
	}
	if !transaction.AssetClass.IsValid() {
		return nil, fmt.Errorf("invalid asset class: %s", transaction.AssetClass)
	}
	if !transaction.Quantity.IsPositive() || !transaction.Price.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	if _, err := s.accounts.Get(ctx, transaction.AccountID); err != nil {
		return nil, err
	}

	transaction.TotalAmount = transaction.Quantity.Mul(transaction.Price)
	if transaction.ExecutedAt.IsZero() {
		transaction.ExecutedAt = time.Now().UTC()
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// Holdings derives the current positions for an account from its full
// transaction history. Over-sold symbols are hidden from the result
// but logged for operational visibility.
func (s *Service) Holdings(ctx context.Context, accountID uuid.UUID) ([]domain.Holding, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	transactions, err := s.transactions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if short := domain.ShortSymbols(transactions); len(short) > 0 {
		s.logger.WithFields(logrus.Fields{
			"account": accountID,
			"symbols": short,
		}).Debug("over-sold symbols excluded from holdings")
	}

	return domain.ComputeHoldings(transactions), nil
}
