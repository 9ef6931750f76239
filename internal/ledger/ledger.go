// Package ledger maintains the append-only price history of a product and
// derives its aggregate statistics.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"pricewatch/internal/domain"
)

// Aggregates are the derived statistics over a full price history.
type Aggregates struct {
	Lowest  float64
	Highest float64
	Average float64
}

// Append returns a new history with a point for price appended at the tail,
// plus aggregates recomputed over the whole resulting sequence. The input
// slice is never mutated; callers replace their history with the returned one.
func Append(history []domain.PricePoint, price float64, at time.Time) ([]domain.PricePoint, Aggregates) {
	merged := make([]domain.PricePoint, 0, len(history)+1)
	merged = append(merged, history...)
	merged = append(merged, domain.PricePoint{Price: price, At: at})
	return merged, Derive(merged)
}

// Derive computes aggregates from scratch over history. A full recompute on
// every write keeps the stored aggregates consistent with the history and
// avoids incremental drift; histories stay small enough that O(n) is fine.
func Derive(history []domain.PricePoint) Aggregates {
	if len(history) == 0 {
		return Aggregates{}
	}

	lowest := history[0].Price
	highest := history[0].Price
	sum := decimal.Zero
	for _, point := range history {
		if point.Price < lowest {
			lowest = point.Price
		}
		if point.Price > highest {
			highest = point.Price
		}
		sum = sum.Add(decimal.NewFromFloat(point.Price))
	}

	avg := sum.Div(decimal.NewFromInt(int64(len(history)))).Round(2)
	return Aggregates{
		Lowest:  lowest,
		Highest: highest,
		Average: avg.InexactFloat64(),
	}
}
