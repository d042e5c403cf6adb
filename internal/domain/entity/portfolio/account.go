package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds identity and the free cash balance. Positions are not
// stored on the account; they are derived from transaction history.
type Account struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// Transactions is populated only by the with-transactions lookup.
	Transactions []Transaction `json:"transactions,omitempty"`
}
