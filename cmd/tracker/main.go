// Command tracker runs a single tracking pass and exits. It is intended to
// be invoked on a schedule, e.g. from cron or a systemd timer.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"pricewatch/internal/config"
	"pricewatch/internal/db"
	"pricewatch/internal/domain"
	"pricewatch/internal/notify"
	"pricewatch/internal/observability"
	productrepo "pricewatch/internal/repository/product"
	"pricewatch/internal/scraper"
	trackersvc "pricewatch/internal/service/tracker"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[tracker] ", log.LstdFlags|log.LUTC)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	observability.MustRegister()

	repo := productrepo.NewPostgres(dbpool, logger)
	source := scraper.New(cfg.ScrapeTimeout, logger)
	mailer := newMailer(cfg, logger)
	svc := trackersvc.New(repo, source, mailer, cfg.TrackerWorkers, cfg.DropThreshold, logger)

	summary, err := svc.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoProducts) {
			logger.Printf("nothing to do: %v", err)
			return
		}
		logger.Fatalf("tracking run failed: %v", err)
	}
	logger.Printf("tracking run done attempted=%d updated=%d", summary.Attempted, len(summary.Updated))
}

func newMailer(cfg config.Config, logger *log.Logger) notify.Mailer {
	if cfg.SMTPHost == "" {
		logger.Printf("no SMTP_HOST configured, notifications will only be logged")
		return notify.NewLogMailer(logger)
	}
	return notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
}
