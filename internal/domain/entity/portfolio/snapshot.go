package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceSnapshot is a persisted point-in-time total valuation
// (cash plus holdings at average cost) for an account.
type BalanceSnapshot struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"accountId"`
	TotalValue decimal.Decimal `json:"totalValue"`
	RecordedAt time.Time       `json:"snapshotDate"`
}
