package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/universus/internal/adapters/http/api"
	"github.com/okian/universus/internal/adapters/repository"
	app "github.com/okian/universus/internal/app"
	"github.com/okian/universus/internal/config"
	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/pkg/logger"
	"github.com/okian/universus/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		// Logger isn't available yet.
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "universus exited", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	cat, err := buildCatalog(cfg)
	if err != nil {
		return err
	}
	store, err := buildStore(ctx, cfg, log.Named("store"))
	if err != nil {
		return err
	}

	svc := app.New(serviceOptions(cfg, store, cat, log)...)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("start service: %w", err)
	}

	go startSystemMetricsUpdater(ctx)

	apiServer := api.NewServer(svc, svc,
		api.WithAllowedOrigins(cfg.AllowedOrigins),
		api.WithLogger(log.Named("http")),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("service stop: %w", err))
	}
	log.Info(ctx, "server stopped")
	return errors.Join(errs...)
}

// serviceOptions maps configuration onto service options.
func serviceOptions(cfg *config.Config, store repository.Store, cat *catalog.Catalog, log logger.Logger) []app.Option {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithStore(store),
		app.WithCatalog(cat),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithJobRetention(cfg.JobRetention),
		app.WithCommentaryLines(cfg.CommentaryLines),
	}
	if cfg.Seed != 0 {
		opts = append(opts, app.WithSeed(cfg.Seed))
	}
	return opts
}

// buildCatalog returns the built-in catalog, or one loaded from
// cfg.SportsPath.
func buildCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.SportsPath == "" {
		return catalog.Default(), nil
	}
	opts, err := catalog.Load(cfg.SportsPath)
	if err != nil {
		return nil, err
	}
	return catalog.New(opts...)
}

// buildStore opens the configured roster backend.
func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	opts := []repository.Option{repository.WithLogger(log)}
	if cfg.Seed != 0 {
		opts = append(opts, repository.WithSource(random.New(cfg.Seed)))
	}

	switch cfg.Store {
	case config.StoreMemory:
		return repository.NewMemoryStore(nil, opts...), nil
	case config.StoreRedis:
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStore(client, cfg.RedisKey, opts...), nil
	case config.StorePostgres:
		pool, err := repository.NewPostgresPool(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		store, err := repository.NewPostgresStore(ctx, pool, opts...)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	case config.StoreFile:
		return repository.NewFileStore(cfg.OfficialPath, cfg.CommunityPath, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown store %q", config.ErrInvalidConfig, cfg.Store)
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
