package notify

import "pricewatch/internal/domain"

// Classify decides which notification, if any, a fresh snapshot warrants for
// a tracked product. prev is the stored product state before the snapshot is
// merged in, so its aggregates describe only prices observed earlier.
//
// Rules are evaluated in fixed priority order and the first match wins:
// a stock transition beats a record low, a record low beats a threshold
// crossing. At most one kind is ever returned per run.
//
// dropThreshold is the discount fraction (e.g. 0.4 for 40%) applied to the
// listed original price for the PRICE_DROP rule.
func Classify(prev domain.Product, curr domain.Snapshot, dropThreshold float64) (Kind, bool) {
	// A product with no recorded history has no prior state to compare
	// against; first observation never notifies.
	if len(prev.PriceHistory) == 0 {
		return "", false
	}

	if prev.IsOutOfStock && !curr.IsOutOfStock {
		return KindBackInStock, true
	}

	if curr.CurrentPrice < prev.LowestPrice {
		return KindAllTimeLow, true
	}

	if prev.OriginalPrice > 0 && curr.CurrentPrice <= prev.OriginalPrice*(1-dropThreshold) {
		return KindPriceDrop, true
	}

	return "", false
}
