// Command importer registers product URLs for tracking from a CSV file with
// rows of the form `url[,subscriber email]`.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"pricewatch/internal/config"
	"pricewatch/internal/db"
	"pricewatch/internal/importer"
	"pricewatch/internal/notify"
	productrepo "pricewatch/internal/repository/product"
	"pricewatch/internal/scraper"
	productsvc "pricewatch/internal/service/product"
)

func main() {
	file := flag.String("file", "", "path to the CSV file to import")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC)

	if *file == "" {
		logger.Fatal("usage: importer -file <products.csv>")
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	repo := productrepo.NewPostgres(dbpool, logger)
	source := scraper.New(cfg.ScrapeTimeout, logger)
	mailer := notify.NewLogMailer(logger)
	svc := productsvc.New(repo, source, mailer, logger)

	imported, err := importer.NewCSVImporter(f, svc, logger).Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d products: %v", imported, err)
	}
	logger.Printf("imported %d products", imported)
}
