package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"pricewatch/internal/domain"
	"pricewatch/internal/notify"
)

type stubRepo struct {
	mu          sync.Mutex
	products    []domain.Product
	listErr     error
	upserts     []domain.Product
	upsertErr   error
	subscribers map[string][]domain.Subscriber
}

func (s *stubRepo) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.listErr
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRepo) GetByURL(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRepo) UpsertByURL(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	if p.ID == "" {
		p.ID = "id-" + p.URL
	}
	s.upserts = append(s.upserts, p)
	return &p, nil
}

func (s *stubRepo) ListSimilar(_ context.Context, _ string, _ int) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubRepo) AddSubscriber(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (s *stubRepo) ListSubscribers(_ context.Context, productID string) ([]domain.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribers[productID], nil
}

type stubSource struct {
	mu        sync.Mutex
	snapshots map[string]domain.Snapshot
	failURLs  map[string]bool
}

func (s *stubSource) Fetch(_ context.Context, url string) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failURLs[url] {
		return nil, fmt.Errorf("fetch %s: connection reset", url)
	}
	snap, ok := s.snapshots[url]
	if !ok {
		return nil, domain.ErrSnapshotIncomplete
	}
	return &snap, nil
}

type stubMailer struct {
	mu         sync.Mutex
	sendErr    error
	messages   []notify.Message
	recipients [][]string
}

func (m *stubMailer) Send(_ context.Context, msg notify.Message, recipients []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.messages = append(m.messages, msg)
	m.recipients = append(m.recipients, recipients)
	return nil
}

func trackedProduct(url string, prices ...float64) domain.Product {
	p := domain.Product{
		ID:       "id-" + url,
		URL:      url,
		Title:    "Product " + url,
		Currency: "USD",
	}
	for _, price := range prices {
		p.PriceHistory = append(p.PriceHistory, domain.PricePoint{Price: price})
	}
	if len(prices) > 0 {
		p.CurrentPrice = prices[len(prices)-1]
		p.OriginalPrice = prices[0]
		low, high := prices[0], prices[0]
		for _, price := range prices {
			if price < low {
				low = price
			}
			if price > high {
				high = price
			}
		}
		p.LowestPrice = low
		p.HighestPrice = high
	}
	return p
}

func TestRun_NoProducts(t *testing.T) {
	svc := New(&stubRepo{}, &stubSource{}, &stubMailer{}, 4, 0.4, nil)

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrNoProducts) {
		t.Fatalf("expected ErrNoProducts, got %v", err)
	}
}

func TestRun_StoreFailureIsFatal(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("connection refused")}
	svc := New(repo, &stubSource{}, &stubMailer{}, 4, 0.4, nil)

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected run to fail when the store is unavailable")
	}
}

func TestRun_FailedUnitIsIsolated(t *testing.T) {
	products := []domain.Product{
		trackedProduct("https://shop.example/p/1", 10),
		trackedProduct("https://shop.example/p/2", 20),
		trackedProduct("https://shop.example/p/3", 30),
	}
	source := &stubSource{
		snapshots: map[string]domain.Snapshot{
			"https://shop.example/p/1": {URL: "https://shop.example/p/1", Title: "One", Currency: "USD", CurrentPrice: 11, OriginalPrice: 11},
			"https://shop.example/p/3": {URL: "https://shop.example/p/3", Title: "Three", Currency: "USD", CurrentPrice: 33, OriginalPrice: 33},
		},
		failURLs: map[string]bool{"https://shop.example/p/2": true},
	}
	repo := &stubRepo{products: products}
	svc := New(repo, source, &stubMailer{}, 2, 0.4, nil)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Attempted != 3 {
		t.Fatalf("attempted = %d, want 3", summary.Attempted)
	}
	if len(summary.Updated) != 2 {
		t.Fatalf("updated = %d, want 2", len(summary.Updated))
	}
	for _, p := range summary.Updated {
		if p.URL == "https://shop.example/p/2" {
			t.Fatalf("failed product must not appear in results")
		}
	}
}

func TestRun_AllTimeLowScenario(t *testing.T) {
	// Product with history [10.00]; a fresh snapshot at 7.50 while staying
	// in stock must extend the ledger, update aggregates, and notify all
	// current subscribers of an all-time low.
	url := "https://shop.example/p/1"
	repo := &stubRepo{
		products: []domain.Product{trackedProduct(url, 10.00)},
		subscribers: map[string][]domain.Subscriber{
			"id-" + url: {{Email: "a@example.com"}, {Email: "b@example.com"}},
		},
	}
	source := &stubSource{
		snapshots: map[string]domain.Snapshot{
			url: {URL: url, Title: "Product", Currency: "USD", CurrentPrice: 7.50, OriginalPrice: 10.00},
		},
	}
	mailer := &stubMailer{}
	svc := New(repo, source, mailer, 1, 0.4, nil)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Updated) != 1 {
		t.Fatalf("updated = %d, want 1", len(summary.Updated))
	}

	got := summary.Updated[0]
	if len(got.PriceHistory) != 2 || got.PriceHistory[0].Price != 10.00 || got.PriceHistory[1].Price != 7.50 {
		t.Fatalf("unexpected history %+v", got.PriceHistory)
	}
	if got.LowestPrice != 7.50 || got.HighestPrice != 10.00 || got.AveragePrice != 8.75 {
		t.Fatalf("unexpected aggregates %+v", got)
	}

	if len(mailer.messages) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(mailer.messages))
	}
	if !strings.Contains(mailer.messages[0].Subject, "All-time low") {
		t.Fatalf("unexpected subject %q", mailer.messages[0].Subject)
	}
	if len(mailer.recipients[0]) != 2 {
		t.Fatalf("recipients = %v, want both subscribers", mailer.recipients[0])
	}
}

func TestRun_NoSubscribersNoDelivery(t *testing.T) {
	url := "https://shop.example/p/1"
	repo := &stubRepo{products: []domain.Product{trackedProduct(url, 10.00)}}
	source := &stubSource{
		snapshots: map[string]domain.Snapshot{
			url: {URL: url, Title: "Product", Currency: "USD", CurrentPrice: 7.50, OriginalPrice: 10.00},
		},
	}
	mailer := &stubMailer{}
	svc := New(repo, source, mailer, 1, 0.4, nil)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mailer.messages) != 0 {
		t.Fatalf("expected no deliveries, got %d", len(mailer.messages))
	}
}

func TestRun_DeliveryFailureDoesNotFailUnit(t *testing.T) {
	url := "https://shop.example/p/1"
	repo := &stubRepo{
		products: []domain.Product{trackedProduct(url, 10.00)},
		subscribers: map[string][]domain.Subscriber{
			"id-" + url: {{Email: "a@example.com"}},
		},
	}
	source := &stubSource{
		snapshots: map[string]domain.Snapshot{
			url: {URL: url, Title: "Product", Currency: "USD", CurrentPrice: 7.50, OriginalPrice: 10.00},
		},
	}
	mailer := &stubMailer{sendErr: errors.New("smtp down")}
	svc := New(repo, source, mailer, 1, 0.4, nil)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The price update is already persisted; a transport failure only
	// surfaces in the logs.
	if len(summary.Updated) != 1 {
		t.Fatalf("updated = %d, want 1", len(summary.Updated))
	}
	if len(repo.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(repo.upserts))
	}
}

func TestRun_UnchangedPriceNoNotification(t *testing.T) {
	url := "https://shop.example/p/1"
	repo := &stubRepo{
		products: []domain.Product{trackedProduct(url, 10.00)},
		subscribers: map[string][]domain.Subscriber{
			"id-" + url: {{Email: "a@example.com"}},
		},
	}
	source := &stubSource{
		snapshots: map[string]domain.Snapshot{
			url: {URL: url, Title: "Product", Currency: "USD", CurrentPrice: 10.00, OriginalPrice: 10.00},
		},
	}
	mailer := &stubMailer{}
	svc := New(repo, source, mailer, 1, 0.4, nil)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mailer.messages) != 0 {
		t.Fatalf("expected no deliveries, got %d", len(mailer.messages))
	}
}
