package product

import (
	"context"

	"pricewatch/internal/domain"
)

// Repository is the durable store for tracked products and their subscribers.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByURL(ctx context.Context, url string) (*domain.Product, error)
	// UpsertByURL inserts or replaces the product keyed by its URL in a
	// single atomic statement and returns the post-write state.
	UpsertByURL(ctx context.Context, p domain.Product) (*domain.Product, error)
	ListSimilar(ctx context.Context, id string, limit int) ([]domain.Product, error)
	// AddSubscriber records email for the product. It reports whether the
	// email was newly added; re-adding an existing subscriber is a no-op.
	AddSubscriber(ctx context.Context, productID, email string) (bool, error)
	ListSubscribers(ctx context.Context, productID string) ([]domain.Subscriber, error)
}
