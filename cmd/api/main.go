// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/recipebox/internal/admin"
	"github.com/angelamos/recipebox/internal/auth"
	"github.com/angelamos/recipebox/internal/config"
	"github.com/angelamos/recipebox/internal/core"
	"github.com/angelamos/recipebox/internal/health"
	"github.com/angelamos/recipebox/internal/middleware"
	"github.com/angelamos/recipebox/internal/recipe"
	"github.com/angelamos/recipebox/internal/server"
	"github.com/angelamos/recipebox/internal/storage"
	"github.com/angelamos/recipebox/internal/taxonomy"
	"github.com/angelamos/recipebox/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokenManager, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "ES256",
		"key_id", tokenManager.GetKeyID(),
	)

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}
	if ms, ok := store.(*storage.MinioStorage); ok {
		if err := ms.EnsureBucket(ctx); err != nil {
			return err
		}
	}
	logger.Info("object storage ready", "backend", cfg.Storage.Backend)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo,
		tokenManager,
		user.NewProvider(userRepo),
		redis.Client,
	)
	authHandler := auth.NewHandler(authSvc)

	recipeSvc := recipe.NewService(db.DB, store)
	recipeHandler := recipe.NewHandler(
		recipeSvc,
		cfg.Storage.MaxUploadBytes,
	)

	taxonomySvc := taxonomy.NewService(taxonomy.NewRepository(db.DB))
	taxonomyHandler := taxonomy.NewHandler(taxonomySvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", tokenManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	staffOnly := middleware.RequireStaff

	// Credential endpoints get a much tighter budget than the global limit.
	tokenLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit:    middleware.PerHour(30, 10),
			FailOpen: true,
		},
	).Handler

	perUserLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit:    middleware.PerMinute(300, 60),
			KeyFunc:  middleware.KeyByUser,
			FailOpen: true,
		},
	).Handler

	router.Route("/user", func(r chi.Router) {
		userHandler.RegisterRoutes(r, authenticator)
		authHandler.RegisterRoutes(r, authenticator, tokenLimiter)
	})

	router.Route("/recipe", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(perUserLimiter)
		recipeHandler.RegisterRoutes(r)
		taxonomyHandler.RegisterRoutes(r)
	})

	adminHandler.RegisterRoutes(
		router,
		authenticator,
		staffOnly,
		userHandler.RegisterAdminRoutes,
	)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := authRepo.DeleteExpired(ctx)
				if err != nil {
					logger.Warn("refresh token cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("expired refresh tokens removed", "count", n)
				}
			}
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
