package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	pool *pgxpool.Pool
}

var _ interfaces.AccountsRepository = (*Repository)(nil)

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

const selectAccountColumns = `id, name, cash_balance, created_at, updated_at`

func (r *Repository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := scanAccountInto(rows, &account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	const query = `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	const query = `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		WHERE name = $1`

	return r.getOne(ctx, query, name)
}

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	account := &domain.Account{}
	if err := scanAccountInto(row, account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (r *Repository) Create(ctx context.Context, account *domain.Account) error {
	if account == nil {
		return errors.New("account is nil")
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	const query = `
		INSERT INTO accounts (id, name, cash_balance, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING ` + selectAccountColumns

	row := r.pool.QueryRow(ctx, query,
		account.ID,
		account.Name,
		account.CashBalance,
		account.CreatedAt,
		account.UpdatedAt,
	)
	return scanAccountInto(row, account)
}

func (r *Repository) UpdateCashBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (*domain.Account, error) {
	const query = `
		UPDATE accounts
		SET cash_balance=$2,
			updated_at=$3
		WHERE id=$1
		RETURNING ` + selectAccountColumns

	row := r.pool.QueryRow(ctx, query, id, balance, time.Now().UTC())
	account := &domain.Account{}
	if err := scanAccountInto(row, account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// Delete removes the account and its snapshots in one transaction.
// Accounts that still own transactions are refused.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE id=$1)`, id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return interfaces.ErrAccountNotFound
		}

		var hasTransactions bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM transactions WHERE account_id=$1)`, id,
		).Scan(&hasTransactions); err != nil {
			return err
		}
		if hasTransactions {
			return interfaces.ErrAccountHasTransactions
		}

		if _, err := tx.Exec(ctx, `DELETE FROM balance_snapshots WHERE account_id=$1`, id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, id)
		return err
	})
}

func (r *Repository) withTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanAccountInto(row pgx.Row, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.Name,
		&account.CashBalance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
}
