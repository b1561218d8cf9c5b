package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bankledger/internal/adapter/http"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/adapter/repository/memory"
	redisRepo "github.com/iho/bankledger/internal/adapter/repository/redis"
	"github.com/iho/bankledger/internal/infrastructure/auth"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/eventpublisher"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/infrastructure/redis"
	"github.com/iho/bankledger/internal/usecase"
)

const rateLimitCleanupInterval = time.Minute

func main() {
	// Bootstrap logger until configuration is loaded
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Event publishing
	sink, closeSink, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	events := eventpublisher.NewEventPublisher(eventpublisher.Config{
		Publisher: sink,
		Logger:    logger,
	})

	eventsCtx, stopEvents := context.WithCancel(context.Background())
	eventsDone := make(chan struct{})
	go func() {
		defer close(eventsDone)
		_ = events.Start(eventsCtx)
	}()
	defer func() {
		stopEvents()
		<-eventsDone
	}()

	// Initialize repositories
	accountRepo := memory.NewAccountRepository()
	idGen := memory.NewULIDGenerator()
	ledgerMetrics := metrics.New(reg)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, events, ledgerMetrics, logger)
	transferUC := usecase.NewTransferUseCase(accountRepo, idGen, events, ledgerMetrics, logger)
	ledgerUC := usecase.NewLedgerUseCase(accountRepo)

	checks := map[string]handler.HealthCheck{}

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(accountUC),
		TransferHandler: handler.NewTransferHandler(transferUC),
		LedgerHandler:   handler.NewLedgerHandler(ledgerUC),
		HealthHandler:   handler.NewHealthHandler(checks),
		Logger:          logger,
		IdempotencyTTL:  cfg.IdempotencyTTL,
		HTTPMetrics:     apimiddleware.NewHTTPMetrics(reg),
		Gatherer:        reg,
	}

	// Connect to Redis
	if cfg.RedisEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisConnectRetries)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to redis")

		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	if cfg.RateLimitRPS > 0 {
		limiter := apimiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.RunCleanup(ctx, rateLimitCleanupInterval)
		routerCfg.RateLimiter = limiter
	}

	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		logger.Info().Msg("authentication enabled")
	}

	server := newHTTPServer(cfg, httpAdapter.NewRouter(routerCfg))

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")

	return nil
}

// newPublisher returns the event sink: NATS when configured, the log otherwise.
// The returned func releases the underlying connection.
func newPublisher(cfg *config.Config, logger zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if !cfg.NATSEnabled() {
		return eventpublisher.NewLogPublisher(logger), func() {}, nil
	}

	conn, err := eventpublisher.Connect(cfg.NATSURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats: %w", err)
	}
	logger.Info().Str("url", cfg.NATSURL).Msg("connected to nats")

	return eventpublisher.NewNATSPublisher(conn, cfg.NATSSubjectPrefix), func() {
		if err := conn.Drain(); err != nil {
			logger.Warn().Err(err).Msg("failed to drain nats connection")
		}
	}, nil
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
