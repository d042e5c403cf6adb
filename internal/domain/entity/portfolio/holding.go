package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// averageCostScale matches the stored price scale. Division rounds
// half away from zero.
const averageCostScale = 2

// Holding is the derived current position in a symbol. It is never
// persisted and is recomputed from transaction history on every query.
type Holding struct {
	Symbol      string
	AssetClass  AssetClass
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
}

type symbolTotals struct {
	netQuantity decimal.Decimal
	buyAmount   decimal.Decimal
	buyQuantity decimal.Decimal
	assetClass  AssetClass
	earliest    time.Time
}

// ComputeHoldings derives current positions from the full transaction
// list of an account. Transactions are grouped by symbol; net quantity
// is buys minus sells, and average cost is the weighted average price
// across buy transactions only, so selling never shifts the cost basis
// of what remains. Symbols with a net quantity of zero or less are not
// reported. The result is ordered by first appearance of each symbol
// in the input; callers must not rely on that order.
//
// When transactions for a symbol disagree on asset class, the class of
// the earliest transaction by execution time wins.
func ComputeHoldings(transactions []Transaction) []Holding {
	totals, order := sumBySymbol(transactions)

	holdings := make([]Holding, 0, len(order))
	for _, symbol := range order {
		t := totals[symbol]
		if !t.netQuantity.IsPositive() {
			continue
		}
		averageCost := decimal.Zero
		if t.buyQuantity.IsPositive() {
			averageCost = t.buyAmount.DivRound(t.buyQuantity, averageCostScale)
		}
		holdings = append(holdings, Holding{
			Symbol:      symbol,
			AssetClass:  t.assetClass,
			Quantity:    t.netQuantity,
			AverageCost: averageCost,
		})
	}
	return holdings
}

// ShortSymbols lists symbols whose transaction history nets to a
// negative quantity. Such positions are hidden by ComputeHoldings, so
// this is the only visibility into over-sold data.
func ShortSymbols(transactions []Transaction) []string {
	totals, order := sumBySymbol(transactions)

	var short []string
	for _, symbol := range order {
		if totals[symbol].netQuantity.IsNegative() {
			short = append(short, symbol)
		}
	}
	return short
}

// HoldingsValue prices the given holdings at their average cost.
func HoldingsValue(holdings []Holding) decimal.Decimal {
	value := decimal.Zero
	for _, h := range holdings {
		value = value.Add(h.Quantity.Mul(h.AverageCost))
	}
	return value
}

func sumBySymbol(transactions []Transaction) (map[string]*symbolTotals, []string) {
	totals := make(map[string]*symbolTotals, len(transactions))
	order := make([]string, 0, len(transactions))

	for _, tx := range transactions {
		t, ok := totals[tx.Symbol]
		if !ok {
			t = &symbolTotals{
				netQuantity: decimal.Zero,
				buyAmount:   decimal.Zero,
				buyQuantity: decimal.Zero,
				assetClass:  tx.AssetClass,
				earliest:    tx.ExecutedAt,
			}
			totals[tx.Symbol] = t
			order = append(order, tx.Symbol)
		}
		if tx.ExecutedAt.Before(t.earliest) {
			t.earliest = tx.ExecutedAt
			t.assetClass = tx.AssetClass
		}

		switch tx.Kind {
		case KindBuy:
			t.netQuantity = t.netQuantity.Add(tx.Quantity)
			t.buyAmount = t.buyAmount.Add(tx.TotalAmount)
			t.buyQuantity = t.buyQuantity.Add(tx.Quantity)
		case KindSell:
			t.netQuantity = t.netQuantity.Sub(tx.Quantity)
		}
	}
	return totals, order
}
