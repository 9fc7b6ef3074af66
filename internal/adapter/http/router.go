package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ayansteel/ledger/internal/adapter/http/handler"
	"github.com/ayansteel/ledger/internal/adapter/http/middleware"
	"github.com/ayansteel/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler          *handler.LedgerHandler
	ClientHandler          *handler.PartyHandler
	SupplierHandler        *handler.PartyHandler
	SupplierPaymentHandler *handler.SupplierPaymentHandler
	BalanceHandler         *handler.BalanceHandler
	StockHandler           *handler.StockHandler
	HealthHandler          *handler.HealthHandler
	IdempotencyStore       usecase.IdempotencyStore
	Logger                 zerolog.Logger
	AllowedOrigins         []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.IdempotencyKeyHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/", cfg.HealthHandler.Root)
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Middlewares must be registered before any route on the subrouter.
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
		}

		r.Get("/health", cfg.HealthHandler.Root)

		// Ledger
		r.Route("/ledger", func(r chi.Router) {
			r.Post("/", cfg.LedgerHandler.Post)
			r.Get("/postings/{id}", cfg.LedgerHandler.GetPosting)
			r.Post("/{id}/reverse", cfg.LedgerHandler.Reverse)
			r.Get("/{id}", cfg.LedgerHandler.History)
			r.Get("/{id}/verify", cfg.LedgerHandler.Verify)
		})

		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", cfg.ClientHandler.Create)
			r.Get("/", cfg.ClientHandler.List)
			r.Get("/{id}", cfg.ClientHandler.Get)
			r.Get("/{id}/balance", cfg.ClientHandler.Balance)
		})

		// Stock
		r.Route("/stock", func(r chi.Router) {
			r.Get("/", cfg.StockHandler.List)
			r.Get("/{entryID}", cfg.StockHandler.GetByEntry)
		})

		// Company balance
		r.Route("/company-balance", func(r chi.Router) {
			r.Get("/", cfg.BalanceHandler.CompanyBalance)
			r.Post("/verify", cfg.BalanceHandler.VerifyAll)
		})

		// Supplier ledger
		r.Route("/supplier-ledger", func(r chi.Router) {
			r.Post("/", cfg.SupplierHandler.Create)
			r.Get("/", cfg.SupplierHandler.List)
			r.Get("/{id}", cfg.SupplierHandler.Get)
			r.Get("/{id}/balance", cfg.SupplierHandler.Balance)
			r.Get("/{id}/entries", cfg.LedgerHandler.History)
		})

		// Supplier payments
		r.Route("/supplier-payments", func(r chi.Router) {
			r.Post("/", cfg.SupplierPaymentHandler.Record)
			r.Get("/{supplierID}", cfg.SupplierPaymentHandler.List)
		})
	})

	return r
}
