package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Table models for schema migration. Runtime access goes through the
// pgx repositories; these exist so cmd/migrate can derive the schema.

type AccountModel struct {
	ID          uuid.UUID       `gorm:"primaryKey;column:id;type:uuid"`
	Name        string          `gorm:"column:name;type:varchar(255);not null;uniqueIndex"`
	CashBalance decimal.Decimal `gorm:"column:cash_balance;type:numeric(19,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;type:timestamptz;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;type:timestamptz;default:CURRENT_TIMESTAMP"`
}

func (AccountModel) TableName() string {
	return "accounts"
}

type TransactionModel struct {
	ID          uuid.UUID       `gorm:"primaryKey;column:id;type:uuid"`
	AccountID   uuid.UUID       `gorm:"column:account_id;type:uuid;not null;index"`
	Account     AccountModel    `gorm:"foreignKey:AccountID"`
	Symbol      string          `gorm:"column:symbol;type:varchar(50);not null;index"`
	Kind        string          `gorm:"column:kind;type:varchar(10);not null"`
	AssetClass  string          `gorm:"column:asset_class;type:varchar(10);not null"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(19,8);not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(19,2);not null"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(19,2);not null"`
	Notes       string          `gorm:"column:notes;type:varchar"`
	ExecutedAt  time.Time       `gorm:"column:executed_at;type:timestamptz;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;type:timestamptz;default:CURRENT_TIMESTAMP"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

type BalanceSnapshotModel struct {
	ID         uuid.UUID       `gorm:"primaryKey;column:id;type:uuid"`
	AccountID  uuid.UUID       `gorm:"column:account_id;type:uuid;not null;index:idx_snapshots_account_recorded"`
	Account    AccountModel    `gorm:"foreignKey:AccountID"`
	TotalValue decimal.Decimal `gorm:"column:total_value;type:numeric(19,2);not null"`
	RecordedAt time.Time       `gorm:"column:recorded_at;type:timestamptz;not null;index:idx_snapshots_account_recorded"`
}

func (BalanceSnapshotModel) TableName() string {
	return "balance_snapshots"
}
