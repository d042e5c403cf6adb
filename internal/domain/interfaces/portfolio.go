package interfaces

import (
	"context"
	"errors"

	domain "main/internal/domain/entity/portfolio"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSnapshotNotFound    = errors.New("snapshot not found")

	// ErrAccountHasTransactions guards account deletion: an account with
	// recorded transactions cannot be removed.
	ErrAccountHasTransactions = errors.New("account has transactions")
)

type AccountsRepository interface {
	List(ctx context.Context) ([]domain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByName(ctx context.Context, name string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	UpdateCashBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (*domain.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close()
}

type TransactionsRepository interface {
	List(ctx context.Context) ([]domain.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
	ListBySymbol(ctx context.Context, symbol string) ([]domain.Transaction, error)
	Create(ctx context.Context, transaction *domain.Transaction) error
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
	Close()
}

type SnapshotsRepository interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.BalanceSnapshot, error)
	Latest(ctx context.Context, accountID uuid.UUID) (*domain.BalanceSnapshot, error)
	Save(ctx context.Context, snapshot *domain.BalanceSnapshot) error
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
	Close()
}
