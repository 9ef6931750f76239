package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"pricewatch/internal/domain"
	"pricewatch/internal/ledger"
	"pricewatch/internal/notify"
	productrepo "pricewatch/internal/repository/product"
)

// SnapshotSource reads the current public state of a product listing.
type SnapshotSource interface {
	Fetch(ctx context.Context, url string) (*domain.Snapshot, error)
}

// Service exposes the product operations behind the HTTP surface: registering
// a URL for tracking, reads, and subscriber management.
type Service struct {
	repo   productrepo.Repository
	source SnapshotSource
	mailer notify.Mailer
	logger *log.Logger
	now    func() time.Time
}

func New(repo productrepo.Repository, source SnapshotSource, mailer notify.Mailer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:   repo,
		source: source,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

// ScrapeAndStore fetches a fresh snapshot for url and upserts the product
// keyed by that URL. For a known URL the snapshot price is appended to the
// existing ledger; for a new URL a product is created with a single-entry
// history.
func (s *Service) ScrapeAndStore(ctx context.Context, url string) (*domain.Product, error) {
	snap, err := s.source.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", url, err)
	}

	var prev domain.Product
	existing, err := s.repo.GetByURL(ctx, snap.URL)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		prev = *existing
	}

	history, agg := ledger.Append(prev.PriceHistory, snap.CurrentPrice, s.now())
	updated := Merge(prev, *snap, history, agg)

	stored, err := s.repo.UpsertByURL(ctx, updated)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("product service: stored url=%s id=%s history=%d", stored.URL, stored.ID, len(stored.PriceHistory))
	return stored, nil
}

// Get returns one product with its subscriber list attached.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every tracked product.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Similar returns up to three other tracked products.
func (s *Service) Similar(ctx context.Context, id string) ([]domain.Product, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListSimilar(ctx, id, 3)
}

// Subscribe adds email to the product's subscriber set. The first addition
// triggers a welcome message; re-subscribing an existing email is a no-op
// and never re-sends it.
func (s *Service) Subscribe(ctx context.Context, productID, email string) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	added, err := s.repo.AddSubscriber(ctx, p.ID, email)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	msg, err := notify.Render(notify.KindWelcome, *p)
	if err != nil {
		return err
	}
	// Delivery is best-effort: the subscription is already recorded and a
	// transport failure must not undo it.
	if err := s.mailer.Send(ctx, msg, []string{email}); err != nil {
		s.logger.Printf("product service: welcome delivery failed product_id=%s error=%v", p.ID, err)
	}
	return nil
}

// Merge builds the updated product record from the stored state, a fresh
// snapshot and the post-append ledger. Snapshot fields overwrite the stored
// attributes wholesale; only identity and ledger fields survive from prev.
func Merge(prev domain.Product, snap domain.Snapshot, history []domain.PricePoint, agg ledger.Aggregates) domain.Product {
	return domain.Product{
		ID:            prev.ID,
		URL:           snap.URL,
		Title:         snap.Title,
		Currency:      snap.Currency,
		Image:         snap.Image,
		Description:   snap.Description,
		CurrentPrice:  snap.CurrentPrice,
		OriginalPrice: snap.OriginalPrice,
		DiscountRate:  snap.DiscountRate,
		Stars:         snap.Stars,
		ReviewsCount:  snap.ReviewsCount,
		IsOutOfStock:  snap.IsOutOfStock,
		PriceHistory:  history,
		LowestPrice:   agg.Lowest,
		HighestPrice:  agg.Highest,
		AveragePrice:  agg.Average,
	}
}
