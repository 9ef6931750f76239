// Package scraper turns a product URL into a point-in-time Snapshot by
// fetching the listing page and extracting its public attributes.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricewatch/internal/domain"
)

// Scraper fetches product pages over HTTP and parses them.
type Scraper struct {
	client *http.Client
	logger *log.Logger
}

// New builds a Scraper with the given request timeout.
func New(timeout time.Duration, logger *log.Logger) *Scraper {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scraper{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch downloads the page at url and extracts a Snapshot. Any transport,
// status or parse problem is returned as an error; callers treat all of
// them the same way (log and skip).
func (s *Scraper) Fetch(ctx context.Context, url string) (*domain.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	snap, err := Parse(doc, url)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("scraper: fetched url=%s price=%.2f out_of_stock=%t", url, snap.CurrentPrice, snap.IsOutOfStock)
	return snap, nil
}
