package accounts

import (
	"context"
	"errors"
	"strings"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBlankName        = errors.New("account name cannot be blank")
	ErrNegativeBalance  = errors.New("initial balance must be zero or positive")
	ErrInsufficientCash = errors.New("cash balance cannot go negative")
)

type Service struct {
	accounts     interfaces.AccountsRepository
	transactions interfaces.TransactionsRepository
}

func NewService(accounts interfaces.AccountsRepository, transactions interfaces.TransactionsRepository) *Service {
	return &Service{accounts: accounts, transactions: transactions}
}

func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.accounts.Get(ctx, id)
}

// GetWithTransactions returns the account with its full transaction
// history attached, newest first.
func (s *Service) GetWithTransactions(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactions.ListByAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	account.Transactions = transactions
	return account, nil
}

func (s *Service) Create(ctx context.Context, name string, initialBalance decimal.Decimal) (*domain.Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrBlankName
	}
	if initialBalance.IsNegative() {
		return nil, ErrNegativeBalance
	}
	account := &domain.Account{
		Name:        name,
		CashBalance: initialBalance,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) UpdateCashBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (*domain.Account, error) {
	if balance.IsNegative() {
		return nil, ErrInsufficientCash
	}
	return s.accounts.UpdateCashBalance(ctx, id, balance)
}

// AdjustCash applies a signed delta to the cash balance, refusing any
// adjustment that would take it below zero.
func (s *Service) AdjustCash(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	balance := account.CashBalance.Add(amount)
	if balance.IsNegative() {
		return nil, ErrInsufficientCash
	}
	return s.accounts.UpdateCashBalance(ctx, id, balance)
}

// Delete removes an account and its snapshots. Accounts that still
// have transactions are refused with ErrAccountHasTransactions.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.accounts.Delete(ctx, id)
}
