package transactions

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
)

type Repository struct {
	pool *pgxpool.Pool
}

var _ interfaces.TransactionsRepository = (*Repository)(nil)

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

const selectTransactionColumns = `id, account_id, symbol, kind, asset_class, quantity, price, total_amount, notes, executed_at, created_at`

func (r *Repository) List(ctx context.Context) ([]domain.Transaction, error) {
	const query = `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		ORDER BY executed_at DESC`

	return r.queryMany(ctx, query)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	const query = `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	transaction := &domain.Transaction{}
	if err := scanTransactionInto(row, transaction); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	const query = `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY executed_at DESC`

	return r.queryMany(ctx, query, accountID)
}

func (r *Repository) ListBySymbol(ctx context.Context, symbol string) ([]domain.Transaction, error) {
	const query = `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE symbol = $1
		ORDER BY executed_at DESC`

	return r.queryMany(ctx, query, symbol)
}

func (r *Repository) Create(ctx context.Context, transaction *domain.Transaction) error {
	if transaction == nil {
		return errors.New("transaction is nil")
	}
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	now := time.Now().UTC()
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = now
	}
	if transaction.ExecutedAt.IsZero() {
		transaction.ExecutedAt = now
	}

	const query = `
		INSERT INTO transactions (id, account_id, symbol, kind, asset_class, quantity, price, total_amount, notes, executed_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING ` + selectTransactionColumns

	row := r.pool.QueryRow(ctx, query,
		transaction.ID,
		transaction.AccountID,
		transaction.Symbol,
		transaction.Kind,
		transaction.AssetClass,
		transaction.Quantity,
		transaction.Price,
		transaction.TotalAmount,
		transaction.Notes,
		transaction.ExecutedAt,
		transaction.CreatedAt,
	)
	return scanTransactionInto(row, transaction)
}

func (r *Repository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE account_id=$1`, accountID)
	return err
}

func (r *Repository) queryMany(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		if err := scanTransactionInto(rows, &transaction); err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func scanTransactionInto(row pgx.Row, transaction *domain.Transaction) error {
	return row.Scan(
		&transaction.ID,
		&transaction.AccountID,
		&transaction.Symbol,
		&transaction.Kind,
		&transaction.AssetClass,
		&transaction.Quantity,
		&transaction.Price,
		&transaction.TotalAmount,
		&transaction.Notes,
		&transaction.ExecutedAt,
		&transaction.CreatedAt,
	)
}
