package snapshots

import (
	"context"
	"errors"
	"fmt"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

var _ interfaces.SnapshotsRepository = (*Repository)(nil)

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

const selectSnapshotColumns = `id, account_id, total_value, recorded_at`

func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.BalanceSnapshot, error) {
	const query = `
		SELECT ` + selectSnapshotColumns + `
		FROM balance_snapshots
		WHERE account_id = $1
		ORDER BY recorded_at`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []domain.BalanceSnapshot
	for rows.Next() {
		var snapshot domain.BalanceSnapshot
		if err := scanSnapshotInto(rows, &snapshot); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

func (r *Repository) Latest(ctx context.Context, accountID uuid.UUID) (*domain.BalanceSnapshot, error) {
	const query = `
		SELECT ` + selectSnapshotColumns + `
		FROM balance_snapshots
		WHERE account_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1`

	row := r.pool.QueryRow(ctx, query, accountID)
	snapshot := &domain.BalanceSnapshot{}
	if err := scanSnapshotInto(row, snapshot); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrSnapshotNotFound
		}
		return nil, err
	}
	return snapshot, nil
}

func (r *Repository) Save(ctx context.Context, snapshot *domain.BalanceSnapshot) error {
	if snapshot == nil {
		return errors.New("snapshot is nil")
	}
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}

	const query = `
		INSERT INTO balance_snapshots (id, account_id, total_value, recorded_at)
		VALUES ($1,$2,$3,$4)
		RETURNING ` + selectSnapshotColumns

	row := r.pool.QueryRow(ctx, query,
		snapshot.ID,
		snapshot.AccountID,
		snapshot.TotalValue,
		snapshot.RecordedAt,
	)
	return scanSnapshotInto(row, snapshot)
}

func (r *Repository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM balance_snapshots WHERE account_id=$1`, accountID)
	return err
}

func scanSnapshotInto(row pgx.Row, snapshot *domain.BalanceSnapshot) error {
	return row.Scan(
		&snapshot.ID,
		&snapshot.AccountID,
		&snapshot.TotalValue,
		&snapshot.RecordedAt,
	)
}
