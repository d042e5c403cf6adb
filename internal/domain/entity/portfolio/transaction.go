package portfolio

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindBuy  TransactionKind = "BUY"
	KindSell TransactionKind = "SELL"
)

func (k TransactionKind) String() string {
	return string(k)
}

func (k TransactionKind) IsValid() bool {
	switch k {
	case KindBuy, KindSell:
		return true
	default:
		return false
	}
}

func NewTransactionKind(s string) (TransactionKind, error) {
	k := TransactionKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid transaction kind: %s", s)
	}
	return k, nil
}

type AssetClass string

const (
	AssetClassStock  AssetClass = "STOCK"
	AssetClassCrypto AssetClass = "CRYPTO"
)

func (a AssetClass) String() string {
	return string(a)
}

func (a AssetClass) IsValid() bool {
	switch a {
	case AssetClassStock, AssetClassCrypto:
		return true
	default:
		return false
	}
}

func NewAssetClass(s string) (AssetClass, error) {
	a := AssetClass(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid asset class: %s", s)
	}
	return a, nil
}

// Transaction is an immutable buy or sell fact owned by an account.
// TotalAmount is computed once at creation (quantity x price) and stored;
// it is the authoritative recorded amount and is never recomputed.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	Symbol      string          `json:"symbol"`
	Kind        TransactionKind `json:"type"`
	AssetClass  AssetClass      `json:"assetType"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Notes       string          `json:"notes,omitempty"`
	ExecutedAt  time.Time       `json:"transactionDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}
