package domain

import "time"

// PricePoint is one entry in a product's append-only price history.
// Entries are stored in insertion order, which is chronological order.
type PricePoint struct {
	Price float64   `json:"price"`
	At    time.Time `json:"at"`
}

// Subscriber is a recipient of price notifications for one product.
type Subscriber struct {
	Email string `json:"email"`
}

// Product is a tracked listing keyed by its URL. The aggregate fields
// (LowestPrice, HighestPrice, AveragePrice) are always recomputed from the
// full PriceHistory on write, never updated incrementally.
type Product struct {
	ID            string       `json:"id"`
	URL           string       `json:"url"`
	Title         string       `json:"title"`
	Currency      string       `json:"currency"`
	Image         string       `json:"image,omitempty"`
	Description   string       `json:"description,omitempty"`
	CurrentPrice  float64      `json:"currentPrice"`
	OriginalPrice float64      `json:"originalPrice"`
	DiscountRate  int          `json:"discountRate"`
	Stars         float64      `json:"stars,omitempty"`
	ReviewsCount  int          `json:"reviewsCount"`
	IsOutOfStock  bool         `json:"isOutOfStock"`
	PriceHistory  []PricePoint `json:"priceHistory"`
	LowestPrice   float64      `json:"lowestPrice"`
	HighestPrice  float64      `json:"highestPrice"`
	AveragePrice  float64      `json:"averagePrice"`
	Subscribers   []Subscriber `json:"users,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Snapshot is one external read of a product's public attributes at a point
// in time. It is never persisted on its own: the price becomes a new
// PricePoint and every other field overwrites the product record wholesale.
type Snapshot struct {
	URL           string
	Title         string
	Currency      string
	Image         string
	Description   string
	CurrentPrice  float64
	OriginalPrice float64
	DiscountRate  int
	Stars         float64
	ReviewsCount  int
	IsOutOfStock  bool
}
