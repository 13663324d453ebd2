package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/infrastructure/auth"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/eventpublisher"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/redis"
	"github.com/iho/gowallet/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := buildApp(ctx, cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.close()

	bgCtx, cancelBackground := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelBackground()

	go func() {
		if err := a.dispatcher.Start(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("notification dispatcher stopped")
		}
	}()

	if a.rateLimiter != nil {
		go sweepRateLimiter(bgCtx, a.rateLimiter, log)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageBackend).Msg("starting server")
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

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func sweepRateLimiter(ctx context.Context, rl *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Cleanup(10 * time.Minute); n > 0 {
				log.Debug().Int("removed", n).Msg("rate limiter sweep")
			}
		}
	}
}

// app is the wired service.
type app struct {
	handler     http.Handler
	dispatcher  *eventpublisher.Dispatcher
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storage is the set of repositories one backend provides.
type storage struct {
	txManager        usecase.TransactionManager
	accountRepo      usecase.AccountRepository
	ledgerRepo       usecase.LedgerRepository
	auditRepo        usecase.AuditRepository
	notificationRepo usecase.NotificationRepository
	retrier          usecase.Retrier
	checkers         []handler.Checker
	close            func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.StorageBackend == config.StorageMemory {
		store := memory.NewStore(cfg.LockTimeout)
		log.Warn().Msg("using in-memory storage, state is lost on restart")

		return &storage{
			txManager:        memory.NewTxManager(store),
			accountRepo:      memory.NewAccountRepository(store),
			ledgerRepo:       memory.NewLedgerRepository(store),
			auditRepo:        memory.NewAuditRepository(store),
			notificationRepo: memory.NewNotificationRepository(store),
			close:            func() {},
		}, nil
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		return nil, err
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &storage{
		txManager:        postgresRepo.NewTxManager(pool, cfg.LockTimeout),
		accountRepo:      postgresRepo.NewAccountRepository(pool),
		ledgerRepo:       postgresRepo.NewLedgerRepository(pool),
		auditRepo:        postgresRepo.NewAuditRepository(pool),
		notificationRepo: postgresRepo.NewNotificationRepository(pool),
		retrier:          postgresRepo.NewRetrier(log),
		checkers:         []handler.Checker{postgres.NewChecker(pool)},
		close:            pool.Close,
	}, nil
}

func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg prometheus.Registerer) (*app, error) {
	a := &app{}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	m := metrics.New(reg)
	accountIDs := postgresRepo.NewULIDGenerator()
	entryIDs := postgresRepo.NewUUIDGenerator()

	var (
		cache       usecase.Cache
		idempotency usecase.IdempotencyStore
		publisher   eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
	)
	checkers := store.checkers

	if cfg.RedisEnabled {
		client, err := redis.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { closeRedis(client, log) })

		cache = redisRepo.NewCache(client)
		publisher = redisRepo.NewPublisher(client)
		checkers = append(checkers, redis.NewChecker(client))
		if cfg.IdempotencyEnabled {
			idempotency = redisRepo.NewIdempotencyStore(client)
		}
	}

	auditUC := usecase.NewAuditUseCase(store.auditRepo, accountIDs)
	notificationUC := usecase.NewNotificationUseCase(store.notificationRepo, store.accountRepo, accountIDs)
	accountUC := usecase.NewAccountUseCase(store.txManager, store.accountRepo, accountIDs, auditUC, cfg.AdminPhones)
	walletUC := usecase.NewWalletUseCase(store.accountRepo, store.ledgerRepo, cache, auditUC, cfg.BalanceCacheTTL, log)
	ledgerUC := usecase.NewLedgerUseCase(store.accountRepo, store.ledgerRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(store.accountRepo, store.ledgerRepo)
	transferUC := usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		TxManager:   store.txManager,
		AccountRepo: store.accountRepo,
		LedgerRepo:  store.ledgerRepo,
		IDGen:       entryIDs,
		Retrier:     store.retrier,
		Notifier:    notificationUC,
		Auditor:     auditUC,
		Cache:       cache,
		Metrics:     m,
		Logger:      &log,
		Currency:    cfg.Currency,
	})

	a.dispatcher = eventpublisher.NewDispatcher(eventpublisher.Config{
		NotificationRepo: store.notificationRepo,
		Publisher:        publisher,
		Observer:         m,
		Logger:           log,
		BatchSize:        cfg.NotificationBatchSize,
		Interval:         cfg.NotificationPollInterval,
	})

	jwtManager := auth.NewJWTManager(jwtSecret(cfg, log), cfg.JWTExpiration)

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
			OnLimit(func(path string) { m.RateLimitHits.WithLabelValues(path).Inc() })
	}

	var metricsHandler http.Handler = promhttp.Handler()
	if g, ok := reg.(prometheus.Gatherer); ok && reg != prometheus.DefaultRegisterer {
		metricsHandler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:         handler.NewAuthHandler(accountUC, jwtManager, m.ObserveAuth),
		WalletHandler:       handler.NewWalletHandler(transferUC, walletUC, cfg.Currency),
		NotificationHandler: handler.NewNotificationHandler(notificationUC),
		AdminHandler:        handler.NewAdminHandler(ledgerUC, reconciliationUC, auditUC),
		HealthHandler:       handler.NewHealthHandler(checkers...),
		TokenVerifier:       jwtManager,
		IdempotencyStore:    idempotency,
		IdempotencyTTL:      cfg.IdempotencyTTL,
		RateLimiter:         a.rateLimiter,
		Metrics:             m,
		MetricsHandler:      metricsHandler,
		Logger:              log,
	})

	return a, nil
}

func closeRedis(client *goredis.Client, log zerolog.Logger) {
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close redis client")
	}
}

// jwtSecret returns the configured secret, or a random one that only lives
// as long as the process.
func jwtSecret(cfg *config.Config, log zerolog.Logger) string {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal().Err(err).Msg("failed to generate JWT secret")
	}

	log.Warn().Msg("JWT_SECRET is not set, issued tokens will not survive a restart")
	return hex.EncodeToString(buf)
}
