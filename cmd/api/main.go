// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/sweetshop-be/internal/adapters/catalog"
	"github.com/ammerola/sweetshop-be/internal/adapters/rediscache"
	"github.com/ammerola/sweetshop-be/internal/core/ports"
	"github.com/ammerola/sweetshop-be/internal/core/services"
	"github.com/ammerola/sweetshop-be/internal/handlers"
	"github.com/ammerola/sweetshop-be/internal/handlers/middleware"
	"github.com/ammerola/sweetshop-be/internal/pkg/config"
	"github.com/ammerola/sweetshop-be/internal/pkg/logger"
	"github.com/ammerola/sweetshop-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	slogger := logger.SetupLogger(logger.LogConfig{Level: "info", Format: "json"})

	cfg, err := config.Load(slogger)
	if err != nil {
		return err
	}

	slogger = logger.SetupLogger(logger.LogConfig{
		Level:          cfg.App.LogLevel,
		Format:         cfg.App.LogFormat,
		AddSource:      cfg.App.Debug,
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
		Environment:    cfg.App.Environment,
	})
	slogger.Info("starting sweet shop api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("store", cfg.Store.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.ResolveSecrets(ctx, cfg, slogger); err != nil {
		return err
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slogger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		server.Close()
	}

	slogger.Info("server shutdown complete")
	return nil
}

// dependencies holds everything the HTTP layer is built from
type dependencies struct {
	backend     *catalog.Backend
	redisClient *redis.Client
	cache       *rediscache.Cache
	asynqClient *asynq.Client
	inspector   *asynq.Inspector
	enqueuer    *workers.Enqueuer
	service     *services.InventoryService
}

func (d *dependencies) cleanup() {
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.inspector != nil {
		d.inspector.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.backend != nil {
		d.backend.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	backend, err := catalog.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.backend = backend

	var opts []services.Option
	opts = append(opts, services.WithLowStockThreshold(cfg.Store.LowStockThreshold))

	if cfg.Redis.Enabled {
		client, err := rediscache.NewClient(ctx, &redis.Options{
			Addr:         cfg.GetRedisAddress(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			deps.cleanup()
			return nil, err
		}
		deps.redisClient = client
		deps.cache = rediscache.NewCache(client, cfg.Redis.TTL, logger)
		opts = append(opts, services.WithCache(deps.cache))
	}

	if cfg.Asynq.Enabled {
		deps.asynqClient = asynq.NewClient(workers.RedisOpt(cfg.Asynq))
		deps.inspector = asynq.NewInspector(workers.RedisOpt(cfg.Asynq))
		deps.enqueuer = workers.NewEnqueuer(deps.asynqClient, cfg.Asynq.RetryMax, logger)
		opts = append(opts, services.WithTaskEnqueuer(deps.enqueuer))
	}

	deps.service = services.NewInventoryService(services.NewInventoryManager(), backend.Store, logger, opts...)
	if err := deps.service.Load(ctx); err != nil {
		deps.cleanup()
		return nil, err
	}

	logger.Info("all dependencies initialized",
		slog.Bool("cache", deps.cache != nil),
		slog.Bool("tasks", deps.asynqClient != nil))

	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	router := &handlers.Router{
		Inventory: handlers.NewInventoryHandler(deps.service, logger),
		Export:    handlers.NewExportHandler(deps.service, cacheOrNil(deps.cache), logger),
		Import:    handlers.NewImportHandler(deps.service, int64(cfg.Server.MaxUploadMB)<<20, logger),
	}
	if deps.enqueuer != nil && cfg.AWS.BackupEnabled {
		router.Backup = handlers.NewBackupHandler(deps.enqueuer, logger)
	}
	if cfg.Server.EnableHealthCheck {
		router.Health = handlers.NewHealthHandler(healthDependencies(deps), deps.inspector, Version, cfg.App.Environment, logger)
	}
	router.Register(mux)

	chain := []middleware.Middleware{
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
		middleware.Recovery(logger),
	}
	if cfg.Security.RateLimitRequests > 0 {
		chain = append(chain, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		chain = append(chain, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.SecureHeaders {
		chain = append(chain, middleware.SecureHeaders)
	}
	chain = append(chain, middleware.Compression)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, chain...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func healthDependencies(deps *dependencies) []handlers.Dependency {
	list := []handlers.Dependency{
		{Name: "store", Check: deps.backend.Store},
	}
	if deps.cache != nil {
		list = append(list, handlers.Dependency{Name: "redis", Check: deps.cache, Optional: true})
	}
	return list
}

// cacheOrNil keeps a nil *Cache from becoming a non-nil interface
func cacheOrNil(c *rediscache.Cache) ports.CacheRepository {
	if c == nil {
		return nil
	}
	return c
}
