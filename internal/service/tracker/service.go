// Package tracker runs the periodic tracking pass: every tracked product is
// re-scraped, its price ledger extended, and subscribers are notified of
// qualifying changes.
package tracker

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"pricewatch/internal/domain"
	"pricewatch/internal/ledger"
	"pricewatch/internal/notify"
	"pricewatch/internal/observability"
	productrepo "pricewatch/internal/repository/product"
	productsvc "pricewatch/internal/service/product"
)

// RunSummary is the outcome of one tracking pass.
type RunSummary struct {
	Message   string           `json:"message"`
	Attempted int              `json:"attempted"`
	Updated   []domain.Product `json:"data"`
}

// Service is the tracking orchestrator.
type Service struct {
	repo          productrepo.Repository
	source        productsvc.SnapshotSource
	mailer        notify.Mailer
	workers       int
	dropThreshold float64
	logger        *log.Logger
	now           func() time.Time
}

// New builds the orchestrator. workers caps the number of products tracked
// concurrently so a large catalog cannot flood the external source.
func New(repo productrepo.Repository, source productsvc.SnapshotSource, mailer notify.Mailer, workers int, dropThreshold float64, logger *log.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:          repo,
		source:        source,
		mailer:        mailer,
		workers:       workers,
		dropThreshold: dropThreshold,
		logger:        logger,
		now:           time.Now,
	}
}

// Run executes one tracking pass over every tracked product. Products are
// processed by a fixed-size worker pool; each unit of work is independent and
// a failing unit is logged and skipped, never aborting its siblings. Only a
// store failure before fan-out fails the whole run.
func (s *Service) Run(ctx context.Context) (*RunSummary, error) {
	observability.TrackingRunsTotal.Inc()

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if len(products) == 0 {
		return nil, domain.ErrNoProducts
	}
	s.logger.Printf("tracker: run started products=%d workers=%d", len(products), s.workers)

	// Workers write only to their own index, so results need no lock.
	results := make([]*domain.Product, len(products))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				updated, err := s.trackOne(ctx, products[i])
				if err != nil {
					observability.SnapshotFailuresTotal.Inc()
					s.logger.Printf("tracker: product skipped url=%s error=%v", products[i].URL, err)
					continue
				}
				results[i] = updated
			}
		}()
	}

	for i := range products {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	updated := make([]domain.Product, 0, len(results))
	for _, p := range results {
		if p != nil {
			updated = append(updated, *p)
		}
	}
	observability.ProductsUpdatedTotal.Add(float64(len(updated)))
	s.logger.Printf("tracker: run finished attempted=%d updated=%d", len(products), len(updated))

	return &RunSummary{
		Message:   "ok",
		Attempted: len(products),
		Updated:   updated,
	}, nil
}

// trackOne is the per-product unit of work: fetch a fresh snapshot, extend
// the ledger, persist, then classify and notify. It touches no state shared
// with other units.
func (s *Service) trackOne(ctx context.Context, prev domain.Product) (*domain.Product, error) {
	snap, err := s.source.Fetch(ctx, prev.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	history, agg := ledger.Append(prev.PriceHistory, snap.CurrentPrice, s.now())
	merged := productsvc.Merge(prev, *snap, history, agg)

	stored, err := s.repo.UpsertByURL(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("persist product: %w", err)
	}

	s.notifySubscribers(ctx, prev, *snap, stored)
	return stored, nil
}

// notifySubscribers classifies the change against the pre-update state and,
// when it qualifies, delivers one message to the product's current
// subscribers. Delivery problems are logged and dropped: the price update is
// already persisted and must not be rolled back.
func (s *Service) notifySubscribers(ctx context.Context, prev domain.Product, snap domain.Snapshot, stored *domain.Product) {
	kind, ok := notify.Classify(prev, snap, s.dropThreshold)
	if !ok {
		return
	}

	// Read the subscriber set at dispatch time, not the one loaded at the
	// start of the run.
	subs, err := s.repo.ListSubscribers(ctx, stored.ID)
	if err != nil {
		s.logger.Printf("tracker: subscriber lookup failed url=%s error=%v", stored.URL, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	msg, err := notify.Render(kind, *stored)
	if err != nil {
		s.logger.Printf("tracker: render failed url=%s kind=%s error=%v", stored.URL, kind, err)
		return
	}

	recipients := make([]string, 0, len(subs))
	for _, sub := range subs {
		recipients = append(recipients, sub.Email)
	}

	observability.NotificationsTotal.WithLabelValues(string(kind)).Inc()
	if err := s.mailer.Send(ctx, msg, recipients); err != nil {
		observability.DeliveryFailuresTotal.Inc()
		s.logger.Printf("tracker: delivery failed url=%s kind=%s recipients=%d error=%v", stored.URL, kind, len(recipients), err)
		return
	}
	s.logger.Printf("tracker: notified url=%s kind=%s recipients=%d", stored.URL, kind, len(recipients))
}
