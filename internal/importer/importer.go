// Package importer bulk-registers product URLs for tracking from a CSV
// export, e.g. when migrating a watchlist from a spreadsheet.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"pricewatch/internal/domain"
)

// Registrar is the subset of product operations the importer needs.
type Registrar interface {
	ScrapeAndStore(ctx context.Context, url string) (*domain.Product, error)
	Subscribe(ctx context.Context, productID, email string) error
}

// CSVImporter reads rows of `url[,email]` and registers each URL for
// tracking, optionally subscribing the given email.
type CSVImporter struct {
	reader    *csv.Reader
	registrar Registrar
	logger    *log.Logger
}

func NewCSVImporter(r io.Reader, registrar Registrar, logger *log.Logger) *CSVImporter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may omit the email column
	return &CSVImporter{
		reader:    csvr,
		registrar: registrar,
		logger:    logger,
	}
}

// Run imports all rows and returns how many products were registered. A row
// whose scrape fails is logged and skipped so one dead URL does not abort
// the rest of the file.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	imported := 0
	line := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		url := strings.TrimSpace(record[0])
		if url == "" || url == "url" { // skip blanks and an optional header
			continue
		}

		p, err := i.registrar.ScrapeAndStore(ctx, url)
		if err != nil {
			i.logger.Printf("importer: row %d skipped url=%s error=%v", line, url, err)
			continue
		}
		imported++

		if len(record) > 1 {
			if email := strings.TrimSpace(record[1]); email != "" {
				if err := i.registrar.Subscribe(ctx, p.ID, email); err != nil {
					i.logger.Printf("importer: row %d subscribe failed url=%s error=%v", line, url, err)
				}
			}
		}
	}
	return imported, nil
}
