package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/user/urlsafety-service/internal/adapter/chromedp_renderer"
	"github.com/user/urlsafety-service/internal/adapter/memory"
	"github.com/user/urlsafety-service/internal/adapter/postgres"
	redis_adapter "github.com/user/urlsafety-service/internal/adapter/redis"
	"github.com/user/urlsafety-service/internal/adapter/safebrowsing"
	"github.com/user/urlsafety-service/internal/delivery/http/handler"
	"github.com/user/urlsafety-service/internal/delivery/http/router"
	"github.com/user/urlsafety-service/internal/repository"
	"github.com/user/urlsafety-service/internal/usecase"
	"github.com/user/urlsafety-service/pkg/config"
	"github.com/user/urlsafety-service/pkg/metrics"
	"go.uber.org/zap"
)

// App holds the wired components of the service.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Broker     usecase.Broker
	CacheAdmin usecase.CacheAdmin
	Scanner    usecase.Scanner
	History    usecase.LookupHistory

	registry *prometheus.Registry
	health   map[string]handler.Pinger
	closers  []func()
}

// New connects to the configured stores and wires the use cases.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.New(reg),
		registry: reg,
		health:   make(map[string]handler.Pinger),
	}

	var (
		cache repository.VerdictCacheRepository
		queue repository.QueueRepository
	)
	switch cfg.CacheBackend {
	case "memory":
		cache = memory.NewVerdictCache()
		queue = memory.NewQueue()
		logger.Warn("using in-memory verdict cache; verdicts will not survive a restart")
	case "redis", "":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("unable to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		logger.Info("redis connection established", zap.String("addr", cfg.RedisAddr))
		cache = redis_adapter.NewVerdictCache(rdb)
		queue = redis_adapter.NewQueueRepo(rdb)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
	a.health["cache"] = cache

	var (
		events  repository.LookupEventRepository
		reports repository.ScanReportRepository
	)
	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		a.closers = append(a.closers, dbpool.Close)
		if err := postgres.Migrate(ctx, dbpool); err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("postgresql connection pool established")
		events = postgres.NewLookupEventRepo(dbpool)
		reports = postgres.NewScanReportRepo(dbpool)
		a.health["postgres"] = dbpool
	}

	if cfg.SafeBrowsingAPIKey == "" {
		logger.Warn("SAFE_BROWSING_API_KEY is empty; every lookup will fail open")
	}
	threats, err := safebrowsing.NewClient(safebrowsing.Options{
		Endpoint:      cfg.SafeBrowsingEndpoint,
		APIKey:        cfg.SafeBrowsingAPIKey,
		ClientID:      cfg.SafeBrowsingClientID,
		ClientVersion: cfg.SafeBrowsingClientVersion,
		Timeout:       cfg.ThreatAPITimeout,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Broker = usecase.NewBroker(cache, threats, events, a.Metrics, logger.Named("broker"),
		usecase.BrokerOptions{DedupeInFlight: cfg.DedupeInFlight, LookupTimeout: cfg.ThreatAPITimeout})
	a.History = usecase.NewLookupHistory(events)
	a.CacheAdmin = usecase.NewCacheAdmin(cache, cfg.ClearConfirmation, logger.Named("cache"))

	// Chrome is not started until the first page is rendered.
	renderer := chromedp_renderer.NewChromedpRenderer(cfg.ScanWorkers, cfg.PageLoadTimeout, logger.Named("renderer"))
	a.closers = append(a.closers, renderer.Close)
	a.Scanner = usecase.NewScanner(queue, renderer, reports, a.Broker, a.Metrics, logger.Named("scanner"))

	return a, nil
}

// Handler builds the HTTP handler for the service.
func (a *App) Handler() http.Handler {
	h := handler.NewHandler(a.Broker, a.CacheAdmin, a.Scanner, a.History, a.health, handler.HoverOptions{
		Debounce:      a.Config.HoverDebounce,
		TooltipOffset: a.Config.TooltipOffset,
	}, a.Metrics, a.Logger.Named("http"))
	return router.New(h, a.Metrics, a.registry, a.Logger)
}

// Server returns an http.Server for the handler, with the timeouts used in production.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:        ":" + a.Config.ServerPort,
		Handler:     a.Handler(),
		ReadTimeout: 5 * time.Second,
		// WriteTimeout is left unset: it would cut hover WebSocket connections.
		IdleTimeout: 120 * time.Second,
	}
}

// Serve starts the scan workers and the HTTP server, and shuts both down when ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	a.Scanner.Run(workerCtx, a.Config.ScanWorkers)

	server := a.Server()
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	a.Logger.Info("server started", zap.String("port", a.Config.ServerPort))

	select {
	case err := <-errCh:
		return fmt.Errorf("could not listen on port %s: %w", a.Config.ServerPort, err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down server...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.Logger.Info("server exiting")
	return nil
}

// Close releases store connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
