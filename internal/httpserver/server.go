package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pricewatch/internal/domain"
	"pricewatch/internal/service/tracker"
)

// ProductService is the product surface consumed by the HTTP handlers.
type ProductService interface {
	ScrapeAndStore(ctx context.Context, url string) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Similar(ctx context.Context, id string) ([]domain.Product, error)
	Subscribe(ctx context.Context, productID, email string) error
}

// TrackerService triggers one tracking pass.
type TrackerService interface {
	Run(ctx context.Context) (*tracker.RunSummary, error)
}

// Deps are the services the router depends on.
type Deps struct {
	ProductSvc ProductService
	TrackerSvc TrackerService
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	db         *pgxpool.Pool
}

// New builds a Server with all routes wired.
func New(addr string, logger *log.Logger, db *pgxpool.Pool, deps Deps) *Server {
	router := buildRouter(logger, db, deps)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
		db:         db,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
