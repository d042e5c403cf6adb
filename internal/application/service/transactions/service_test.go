package transactions

import (
	"context"
	"io"
	"testing"
	"time"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountsStub struct {
	interfaces.AccountsRepository
	get func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

func (s *accountsStub) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.get(ctx, id)
}

type transactionsStub struct {
	interfaces.TransactionsRepository
	create        func(ctx context.Context, transaction *domain.Transaction) error
	listByAccount func(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

func (s *transactionsStub) Create(ctx context.Context, transaction *domain.Transaction) error {
	return s.create(ctx, transaction)
}

func (s *transactionsStub) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	return s.listByAccount(ctx, accountID)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func existingAccount(id uuid.UUID) *accountsStub {
	return &accountsStub{get: func(_ context.Context, got uuid.UUID) (*domain.Account, error) {
		if got != id {
			return nil, interfaces.ErrAccountNotFound
		}
		return &domain.Account{ID: id}, nil
	}}
}

func TestCreate_ComputesTotalAmount(t *testing.T) {
	accountID := uuid.New()

	var created *domain.Transaction
	repo := &transactionsStub{create: func(_ context.Context, transaction *domain.Transaction) error {
		created = transaction
		return nil
	}}

	svc := NewService(repo, existingAccount(accountID), quietLogger())

	transaction, err := svc.Create(context.Background(), &domain.Transaction{
		AccountID:  accountID,
		Symbol:     "AAPL",
		Kind:       domain.KindBuy,
		AssetClass: domain.AssetClassStock,
		Quantity:   decimal.RequireFromString("2.5"),
		Price:      decimal.RequireFromString("100.40"),
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.True(t, decimal.RequireFromString("251.00").Equal(transaction.TotalAmount), "got %s", transaction.TotalAmount)
	assert.False(t, transaction.ExecutedAt.IsZero(), "execution time must be defaulted")
}

func TestCreate_KeepsExplicitExecutionTime(t *testing.T) {
	accountID := uuid.New()
	executedAt := time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)

	repo := &transactionsStub{create: func(_ context.Context, _ *domain.Transaction) error {
		return nil
	}}

	svc := NewService(repo, existingAccount(accountID), quietLogger())

	transaction, err := svc.Create(context.Background(), &domain.Transaction{
		AccountID:  accountID,
		Symbol:     "BTC",
		Kind:       domain.KindSell,
		AssetClass: domain.AssetClassCrypto,
		Quantity:   decimal.RequireFromString("0.1"),
		Price:      decimal.RequireFromString("30000"),
		ExecutedAt: executedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, executedAt, transaction.ExecutedAt)
}

func TestCreate_Validation(t *testing.T) {
	accountID := uuid.New()
	valid := func() *domain.Transaction {
		return &domain.Transaction{
			AccountID:  accountID,
			Symbol:     "AAPL",
			Kind:       domain.KindBuy,
			AssetClass: domain.AssetClassStock,
			Quantity:   decimal.NewFromInt(1),
			Price:      decimal.NewFromInt(100),
		}
	}

	tests := []struct {
		name        string
		mutate      func(tx *domain.Transaction)
		expectedErr error
	}{
		{
			name:        "blank symbol",
			mutate:      func(tx *domain.Transaction) { tx.Symbol = "   " },
			expectedErr: ErrBlankSymbol,
		},
		{
			name:        "zero quantity",
			mutate:      func(tx *domain.Transaction) { tx.Quantity = decimal.Zero },
			expectedErr: ErrNonPositiveAmount,
		},
		{
			name:        "negative price",
			mutate:      func(tx *domain.Transaction) { tx.Price = decimal.NewFromInt(-1) },
			expectedErr: ErrNonPositiveAmount,
		},
	}

	repo := &transactionsStub{create: func(_ context.Context, _ *domain.Transaction) error {
		t.Fatal("create must not reach the repository")
		return nil
	}}
	svc := NewService(repo, existingAccount(accountID), quietLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mutate(tx)
			_, err := svc.Create(context.Background(), tx)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}

	t.Run("nil transaction", func(t *testing.T) {
		_, err := svc.Create(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNilTransaction)
	})

	t.Run("invalid kind", func(t *testing.T) {
		tx := valid()
		tx.Kind = "TRANSFER"
		_, err := svc.Create(context.Background(), tx)
		assert.Error(t, err)
	})

	t.Run("invalid asset class", func(t *testing.T) {
		tx := valid()
		tx.AssetClass = "BOND"
		_, err := svc.Create(context.Background(), tx)
		assert.Error(t, err)
	})
}

func TestCreate_UnknownAccount(t *testing.T) {
	repo := &transactionsStub{create: func(_ context.Context, _ *domain.Transaction) error {
		t.Fatal("create must not reach the repository")
		return nil
	}}
	svc := NewService(repo, existingAccount(uuid.New()), quietLogger())

	_, err := svc.Create(context.Background(), &domain.Transaction{
		AccountID:  uuid.New(),
		Symbol:     "AAPL",
		Kind:       domain.KindBuy,
		AssetClass: domain.AssetClassStock,
		Quantity:   decimal.NewFromInt(1),
		Price:      decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, interfaces.ErrAccountNotFound)
}

func TestHoldings(t *testing.T) {
	accountID := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	repo := &transactionsStub{listByAccount: func(_ context.Context, id uuid.UUID) ([]domain.Transaction, error) {
		require.Equal(t, accountID, id)
		return []domain.Transaction{
			{
				AccountID:   accountID,
				Symbol:      "AAPL",
				Kind:        domain.KindBuy,
				AssetClass:  domain.AssetClassStock,
				Quantity:    decimal.NewFromInt(10),
				Price:       decimal.RequireFromString("150.00"),
				TotalAmount: decimal.RequireFromString("1500.00"),
				ExecutedAt:  base,
			},
			{
				AccountID:   accountID,
				Symbol:      "TSLA",
				Kind:        domain.KindSell,
				AssetClass:  domain.AssetClassStock,
				Quantity:    decimal.NewFromInt(3),
				Price:       decimal.RequireFromString("200.00"),
				TotalAmount: decimal.RequireFromString("600.00"),
				ExecutedAt:  base,
			},
		}, nil
	}}

	svc := NewService(repo, existingAccount(accountID), quietLogger())

	holdings, err := svc.Holdings(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "AAPL", holdings[0].Symbol)
	assert.True(t, decimal.NewFromInt(10).Equal(holdings[0].Quantity))
	assert.True(t, decimal.RequireFromString("150.00").Equal(holdings[0].AverageCost))
}

func TestHoldings_UnknownAccount(t *testing.T) {
	svc := NewService(&transactionsStub{}, existingAccount(uuid.New()), quietLogger())

	_, err := svc.Holdings(context.Background(), uuid.New())
	assert.ErrorIs(t, err, interfaces.ErrAccountNotFound)
}
