package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pricewatch/internal/config"
	"pricewatch/internal/db"
	"pricewatch/internal/httpserver"
	"pricewatch/internal/notify"
	"pricewatch/internal/observability"
	productrepo "pricewatch/internal/repository/product"
	"pricewatch/internal/scraper"
	productsvc "pricewatch/internal/service/product"
	trackersvc "pricewatch/internal/service/tracker"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

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
	productService := productsvc.New(repo, source, mailer, logger)
	trackerService := trackersvc.New(repo, source, mailer, cfg.TrackerWorkers, cfg.DropThreshold, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc: productService,
		TrackerSvc: trackerService,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func newMailer(cfg config.Config, logger *log.Logger) notify.Mailer {
	if cfg.SMTPHost == "" {
		logger.Printf("no SMTP_HOST configured, notifications will only be logged")
		return notify.NewLogMailer(logger)
	}
	return notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
}
