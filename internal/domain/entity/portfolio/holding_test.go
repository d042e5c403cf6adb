package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(symbol string, kind TransactionKind, class AssetClass, quantity, price string, executedAt time.Time) Transaction {
	q := decimal.RequireFromString(quantity)
	p := decimal.RequireFromString(price)
	return Transaction{
		Symbol:      symbol,
		Kind:        kind,
		AssetClass:  class,
		Quantity:    q,
		Price:       p,
		TotalAmount: q.Mul(p),
		ExecutedAt:  executedAt,
	}
}

func TestComputeHoldings(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		transactions []Transaction
		expected     []Holding
	}{
		{
			name:         "empty history",
			transactions: nil,
			expected:     []Holding{},
		},
		{
			name: "weighted average over two buys",
			transactions: []Transaction{
				tx("AAPL", KindBuy, AssetClassStock, "10", "100.00", base),
				tx("AAPL", KindBuy, AssetClassStock, "10", "200.00", base.Add(time.Hour)),
			},
			expected: []Holding{
				// (1000 + 2000) / 20 = 150.00
				{Symbol: "AAPL", AssetClass: AssetClassStock, Quantity: decimal.RequireFromString("20"), AverageCost: decimal.RequireFromString("150.00")},
			},
		},
		{
			name: "sell reduces quantity but not average cost",
			transactions: []Transaction{
				tx("AAPL", KindBuy, AssetClassStock, "10", "100.00", base),
				tx("AAPL", KindBuy, AssetClassStock, "10", "200.00", base.Add(time.Hour)),
				tx("AAPL", KindSell, AssetClassStock, "5", "500.00", base.Add(2*time.Hour)),
			},
			expected: []Holding{
				{Symbol: "AAPL", AssetClass: AssetClassStock, Quantity: decimal.RequireFromString("15"), AverageCost: decimal.RequireFromString("150.00")},
			},
		},
		{
			name: "fully sold symbol disappears",
			transactions: []Transaction{
				tx("AAPL", KindBuy, AssetClassStock, "10", "100.00", base),
				tx("AAPL", KindSell, AssetClassStock, "10", "120.00", base.Add(time.Hour)),
				tx("BTC", KindBuy, AssetClassCrypto, "0.5", "40000.00", base),
			},
			expected: []Holding{
				{Symbol: "BTC", AssetClass: AssetClassCrypto, Quantity: decimal.RequireFromString("0.5"), AverageCost: decimal.RequireFromString("40000.00")},
			},
		},
		{
			name: "over-sold symbol is hidden",
			transactions: []Transaction{
				tx("TSLA", KindBuy, AssetClassStock, "5", "200.00", base),
				tx("TSLA", KindSell, AssetClassStock, "8", "210.00", base.Add(time.Hour)),
			},
			expected: []Holding{},
		},
		{
			name: "fractional quantities round average cost half away from zero",
			transactions: []Transaction{
				tx("ETH", KindBuy, AssetClassCrypto, "3", "1000.00", base),
				tx("ETH", KindBuy, AssetClassCrypto, "3", "1000.05", base.Add(time.Hour)),
			},
			expected: []Holding{
				// (3000 + 3000.15) / 6 = 1000.025 -> 1000.03
				{Symbol: "ETH", AssetClass: AssetClassCrypto, Quantity: decimal.RequireFromString("6"), AverageCost: decimal.RequireFromString("1000.03")},
			},
		},
		{
			name: "multiple symbols tracked independently",
			transactions: []Transaction{
				tx("AAPL", KindBuy, AssetClassStock, "10", "100.00", base),
				tx("BTC", KindBuy, AssetClassCrypto, "1", "30000.00", base.Add(time.Minute)),
				tx("AAPL", KindSell, AssetClassStock, "4", "110.00", base.Add(time.Hour)),
			},
			expected: []Holding{
				{Symbol: "AAPL", AssetClass: AssetClassStock, Quantity: decimal.RequireFromString("6"), AverageCost: decimal.RequireFromString("100.00")},
				{Symbol: "BTC", AssetClass: AssetClassCrypto, Quantity: decimal.RequireFromString("1"), AverageCost: decimal.RequireFromString("30000.00")},
			},
		},
		{
			name: "conflicting asset class resolved by earliest execution",
			transactions: []Transaction{
				tx("DOGE", KindBuy, AssetClassStock, "100", "0.10", base.Add(time.Hour)),
				tx("DOGE", KindBuy, AssetClassCrypto, "100", "0.10", base),
			},
			expected: []Holding{
				{Symbol: "DOGE", AssetClass: AssetClassCrypto, Quantity: decimal.RequireFromString("200"), AverageCost: decimal.RequireFromString("0.10")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holdings := ComputeHoldings(tt.transactions)
			require.Len(t, holdings, len(tt.expected))
			for i, expected := range tt.expected {
				got := holdings[i]
				assert.Equal(t, expected.Symbol, got.Symbol)
				assert.Equal(t, expected.AssetClass, got.AssetClass)
				assert.True(t, expected.Quantity.Equal(got.Quantity), "quantity: expected %s, got %s", expected.Quantity, got.Quantity)
				assert.True(t, expected.AverageCost.Equal(got.AverageCost), "average cost: expected %s, got %s", expected.AverageCost, got.AverageCost)
			}
		})
	}
}

func TestComputeHoldings_Deterministic(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		tx("AAPL", KindBuy, AssetClassStock, "10", "100.00", base),
		tx("BTC", KindBuy, AssetClassCrypto, "1", "30000.00", base),
		tx("AAPL", KindSell, AssetClassStock, "3", "110.00", base.Add(time.Hour)),
	}

	first := ComputeHoldings(transactions)
	second := ComputeHoldings(transactions)
	assert.Equal(t, first, second)
}

func TestShortSymbols(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		tx("AAPL", KindBuy, AssetClassStock, "10", "100.00", base),
		tx("TSLA", KindBuy, AssetClassStock, "5", "200.00", base),
		tx("TSLA", KindSell, AssetClassStock, "8", "210.00", base.Add(time.Hour)),
		tx("BTC", KindBuy, AssetClassCrypto, "1", "30000.00", base),
		tx("BTC", KindSell, AssetClassCrypto, "1", "31000.00", base.Add(time.Hour)),
	}

	assert.Equal(t, []string{"TSLA"}, ShortSymbols(transactions))
	assert.Empty(t, ShortSymbols(nil))
}

func TestHoldingsValue(t *testing.T) {
	holdings := []Holding{
		{Symbol: "AAPL", Quantity: decimal.RequireFromString("10"), AverageCost: decimal.RequireFromString("150.00")},
		{Symbol: "BTC", Quantity: decimal.RequireFromString("0.5"), AverageCost: decimal.RequireFromString("40000.00")},
	}

	// 10*150 + 0.5*40000 = 21500
	value := HoldingsValue(holdings)
	assert.True(t, decimal.RequireFromString("21500").Equal(value), "expected 21500, got %s", value)

	assert.True(t, HoldingsValue(nil).IsZero())
}
