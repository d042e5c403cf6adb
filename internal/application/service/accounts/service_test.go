package accounts

import (
	"context"
	"testing"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountsStub struct {
	interfaces.AccountsRepository
	get               func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	create            func(ctx context.Context, account *domain.Account) error
	updateCashBalance func(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (*domain.Account, error)
}

func (s *accountsStub) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.get(ctx, id)
}

func (s *accountsStub) Create(ctx context.Context, account *domain.Account) error {
	return s.create(ctx, account)
}

func (s *accountsStub) UpdateCashBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (*domain.Account, error) {
	return s.updateCashBalance(ctx, id, balance)
}

type transactionsStub struct {
	interfaces.TransactionsRepository
	listByAccount func(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

func (s *transactionsStub) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	return s.listByAccount(ctx, accountID)
}

func TestCreate(t *testing.T) {
	var created *domain.Account
	repo := &accountsStub{create: func(_ context.Context, account *domain.Account) error {
		created = account
		return nil
	}}
	svc := NewService(repo, &transactionsStub{})

	account, err := svc.Create(context.Background(), "Retirement", decimal.RequireFromString("1000.00"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Retirement", account.Name)
	assert.True(t, decimal.RequireFromString("1000.00").Equal(account.CashBalance))
}

func TestCreate_Validation(t *testing.T) {
	repo := &accountsStub{create: func(_ context.Context, _ *domain.Account) error {
		t.Fatal("create must not reach the repository")
		return nil
	}}
	svc := NewService(repo, &transactionsStub{})

	_, err := svc.Create(context.Background(), "  ", decimal.Zero)
	assert.ErrorIs(t, err, ErrBlankName)

	_, err = svc.Create(context.Background(), "Savings", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrNegativeBalance)
}

func TestGetWithTransactions(t *testing.T) {
	accountID := uuid.New()
	history := []domain.Transaction{
		{AccountID: accountID, Symbol: "AAPL", Kind: domain.KindBuy},
	}

	repo := &accountsStub{get: func(_ context.Context, id uuid.UUID) (*domain.Account, error) {
		require.Equal(t, accountID, id)
		return &domain.Account{ID: accountID, Name: "Main"}, nil
	}}
	transactions := &transactionsStub{listByAccount: func(_ context.Context, id uuid.UUID) ([]domain.Transaction, error) {
		require.Equal(t, accountID, id)
		return history, nil
	}}

	svc := NewService(repo, transactions)

	account, err := svc.GetWithTransactions(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, history, account.Transactions)
}

func TestUpdateCashBalance_RejectsNegative(t *testing.T) {
	repo := &accountsStub{updateCashBalance: func(_ context.Context, _ uuid.UUID, _ decimal.Decimal) (*domain.Account, error) {
		t.Fatal("update must not reach the repository")
		return nil, nil
	}}
	svc := NewService(repo, &transactionsStub{})

	_, err := svc.UpdateCashBalance(context.Background(), uuid.New(), decimal.NewFromInt(-50))
	assert.ErrorIs(t, err, ErrInsufficientCash)
}

func TestAdjustCash(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name            string
		balance         string
		amount          string
		expectedBalance string
		expectedErr     error
	}{
		{name: "deposit", balance: "100.00", amount: "25.50", expectedBalance: "125.50"},
		{name: "withdrawal", balance: "100.00", amount: "-40.00", expectedBalance: "60.00"},
		{name: "withdraw everything", balance: "100.00", amount: "-100.00", expectedBalance: "0.00"},
		{name: "overdraw refused", balance: "100.00", amount: "-100.01", expectedErr: ErrInsufficientCash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &accountsStub{
				get: func(_ context.Context, _ uuid.UUID) (*domain.Account, error) {
					return &domain.Account{ID: accountID, CashBalance: decimal.RequireFromString(tt.balance)}, nil
				},
				updateCashBalance: func(_ context.Context, _ uuid.UUID, balance decimal.Decimal) (*domain.Account, error) {
					return &domain.Account{ID: accountID, CashBalance: balance}, nil
				},
			}
			svc := NewService(repo, &transactionsStub{})

			account, err := svc.AdjustCash(context.Background(), accountID, decimal.RequireFromString(tt.amount))
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expectedBalance).Equal(account.CashBalance), "got %s", account.CashBalance)
		})
	}
}

func TestAdjustCash_UnknownAccount(t *testing.T) {
	repo := &accountsStub{get: func(_ context.Context, _ uuid.UUID) (*domain.Account, error) {
		return nil, interfaces.ErrAccountNotFound
	}}
	svc := NewService(repo, &transactionsStub{})

	_, err := svc.AdjustCash(context.Background(), uuid.New(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, interfaces.ErrAccountNotFound)
}
