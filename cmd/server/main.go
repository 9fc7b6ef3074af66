package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	httpAdapter "github.com/ayansteel/ledger/internal/adapter/http"
	"github.com/ayansteel/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/ayansteel/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/ayansteel/ledger/internal/adapter/repository/redis"
	"github.com/ayansteel/ledger/internal/infrastructure/config"
	"github.com/ayansteel/ledger/internal/infrastructure/eventpublisher"
	"github.com/ayansteel/ledger/internal/infrastructure/logger"
	"github.com/ayansteel/ledger/internal/infrastructure/metrics"
	"github.com/ayansteel/ledger/internal/infrastructure/postgres"
	"github.com/ayansteel/ledger/internal/infrastructure/redis"
	"github.com/ayansteel/ledger/internal/usecase"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Apply schema migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	partyRepo := postgresRepo.NewPartyRepository(pool)
	postingRepo := postgresRepo.NewPostingRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	stockRepo := postgresRepo.NewStockRepository(pool)
	snapshotRepo := postgresRepo.NewSnapshotRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Use cases
	partyUC := usecase.NewPartyUseCase(partyRepo, idGen)
	postingUC := usecase.NewPostingUseCase(
		txManager, partyRepo, postingRepo, entryRepo,
		stockRepo, snapshotRepo, outboxRepo, retrier, idGen)
	balanceUC := usecase.NewBalanceUseCase(txManager, partyRepo, entryRepo, snapshotRepo)
	auditUC := usecase.NewAuditUseCase(
		txManager, partyRepo, postingRepo, entryRepo,
		stockRepo, snapshotRepo, outboxRepo, postingUC, idGen)
	supplierUC := usecase.NewSupplierPaymentUseCase(partyRepo, entryRepo, postingUC)

	// The company party is the fixed counter-side of every posting.
	company, err := partyUC.EnsureCompany(ctx)
	if err != nil {
		return fmt.Errorf("ensure company party: %w", err)
	}
	log.Info().Str("party_id", company.ID).Msg("company party ready")

	// Handlers
	ledgerHandler := handler.NewLedgerHandler(postingUC, balanceUC, auditUC)
	clientHandler := handler.NewClientHandler(partyUC, balanceUC)
	supplierHandler := handler.NewSupplierHandler(partyUC, balanceUC)
	supplierPaymentHandler := handler.NewSupplierPaymentHandler(supplierUC)
	balanceHandler := handler.NewBalanceHandler(partyUC, balanceUC, auditUC)
	stockHandler := handler.NewStockHandler(stockRepo)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:          ledgerHandler,
		ClientHandler:          clientHandler,
		SupplierHandler:        supplierHandler,
		SupplierPaymentHandler: supplierPaymentHandler,
		BalanceHandler:         balanceHandler,
		StockHandler:           stockHandler,
		HealthHandler:          healthHandler,
		IdempotencyStore:       idempotencyStore,
		Logger:                 log,
		AllowedOrigins:         cfg.AllowedOrigins,
	})

	// Outbox publisher drains events written alongside postings.
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(nil),
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
