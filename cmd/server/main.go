package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/easymove/remit/internal/adapter/http"
	"github.com/easymove/remit/internal/adapter/http/handler"
	"github.com/easymove/remit/internal/adapter/http/middleware"
	postgresRepo "github.com/easymove/remit/internal/adapter/repository/postgres"
	redisRepo "github.com/easymove/remit/internal/adapter/repository/redis"
	"github.com/easymove/remit/internal/fees"
	"github.com/easymove/remit/internal/fx"
	"github.com/easymove/remit/internal/infrastructure/auth"
	"github.com/easymove/remit/internal/infrastructure/config"
	"github.com/easymove/remit/internal/infrastructure/eventpublisher"
	"github.com/easymove/remit/internal/infrastructure/logging"
	"github.com/easymove/remit/internal/infrastructure/metrics"
	"github.com/easymove/remit/internal/infrastructure/payments"
	"github.com/easymove/remit/internal/infrastructure/postgres"
	"github.com/easymove/remit/internal/infrastructure/ratewatch"
	"github.com/easymove/remit/internal/infrastructure/redis"
	"github.com/easymove/remit/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	appLogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Currency table and pricing engines
	table := fx.DefaultTable()
	converter := fx.NewConverter(table)
	feeEngine := fees.NewEngine(converter)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	pairRepo := postgresRepo.NewPairRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	numGen := postgresRepo.NewNumberGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	rateUC := usecase.NewRateUseCase(txManager, pairRepo, outboxRepo, idGen, converter, cache)
	transactionUC := usecase.NewTransactionUseCase(
		txManager, accountRepo, txnRepo, outboxRepo,
		idGen, numGen, rateUC, feeEngine, converter, cfg.RefundWindow,
	).WithLogger(appLogger.Logger)
	accountUC := usecase.NewAccountUseCase(accountRepo, txManager, idGen)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	transactionHandler := handler.NewTransactionHandler(transactionUC)
	rateHandler := handler.NewRateHandler(rateUC)
	webhookHandler := handler.NewWebhookHandler(transactionUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		RateHandler:        rateHandler,
		WebhookHandler:     webhookHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		JWTManager:         jwtManager,
		AuthEnabled:        cfg.AuthEnabled,
		RateLimiter:        middleware.NewRateLimiter(50, 100),
	})

	// Start background workers on a context cancelled at shutdown
	workerMetrics := metrics.New()
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(appLogger.Logger),
		Logger:     appLogger.Logger,
		Metrics:    workerMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})
	go func() {
		if err := publisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	processor := payments.NewRetryingProcessor(
		payments.NewSandboxProvider("sandbox", 0.05, time.Now().UnixNano()),
		appLogger.Logger,
		cfg.PaymentMaxAttempts,
	)
	paymentWorker := payments.NewWorker(payments.WorkerConfig{
		Transfers:   transactionUC,
		Processor:   processor,
		Logger:      appLogger.Logger,
		Metrics:     workerMetrics,
		Interval:    cfg.PaymentWorkerInterval,
		BatchSize:   cfg.PaymentWorkerBatch,
		MaxAttempts: cfg.PaymentMaxAttempts,
	})
	go func() {
		if err := paymentWorker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("payment worker stopped")
		}
	}()

	var rateSource ratewatch.Source
	if cfg.RateFeedURL != "" {
		rateSource = ratewatch.NewHTTPSource(cfg.RateFeedURL, 10*time.Second)
	} else {
		rateSource = ratewatch.NewStaticSource(table)
	}
	watcher := ratewatch.NewWatcher(ratewatch.Config{
		Rates:    rateUC,
		Source:   rateSource,
		Logger:   appLogger.Logger,
		Metrics:  workerMetrics,
		Interval: cfg.RateRefreshInterval,
	})
	go func() {
		if err := watcher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("rate watcher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
