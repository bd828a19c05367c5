package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/kanban-board/internal/adapters/primary/http"
	mw "github.com/lorrc/kanban-board/internal/adapters/primary/http/middleware"
	"github.com/lorrc/kanban-board/internal/adapters/primary/websocket"
	"github.com/lorrc/kanban-board/internal/adapters/secondary/filestore"
	"github.com/lorrc/kanban-board/internal/adapters/secondary/postgres"
	"github.com/lorrc/kanban-board/internal/adapters/secondary/quicksell"
	"github.com/lorrc/kanban-board/internal/auth"
	"github.com/lorrc/kanban-board/internal/config"
	"github.com/lorrc/kanban-board/internal/core/ports"
	"github.com/lorrc/kanban-board/internal/core/services"
	"github.com/lorrc/kanban-board/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Preference store: Postgres when configured, otherwise a local YAML file
	var prefs ports.PreferenceStore
	if cfg.UsesDatabase() {
		pool, err := openPool(ctx, cfg)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connection established")
		prefs = postgres.NewPreferenceRepository(pool)
	} else {
		store, err := filestore.Open(cfg.Board.PreferencesFile)
		if err != nil {
			logger.Error("failed to open preference file", "path", cfg.Board.PreferencesFile, "error", err)
			os.Exit(1)
		}
		logger.Info("using file preference store", "path", cfg.Board.PreferencesFile)
		prefs = store
	}

	// 4. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// 5. Initialize Rate Limiters
	var generalRateLimiter, refreshRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		defer generalRateLimiter.Close()

		refreshCfg := mw.RefreshRateLimiterConfig()
		refreshCfg.RequestsPerSecond = cfg.RateLimit.RefreshRPS
		refreshCfg.BurstSize = cfg.RateLimit.RefreshBurst
		refreshRateLimiter = mw.NewRateLimiter(refreshCfg)
		defer refreshRateLimiter.Close()
	}

	// 6. Dependency Injection (Wiring the Hexagon)
	source := quicksell.NewClient(quicksell.Config{
		URL:     cfg.Upstream.URL,
		Timeout: cfg.Upstream.Timeout,
	}, logger)

	boardService := services.NewBoardService(source, prefs, hub, services.BoardServiceConfig{
		Defaults:  cfg.DefaultPreferences(),
		CacheSize: cfg.Board.CacheSize,
	}, logger)

	// The board starts empty if the first fetch fails; refresh can retry.
	if _, err := boardService.Refresh(ctx); err != nil {
		logger.Warn("initial board fetch failed, serving an empty board", "error", err)
	}
	if cfg.Upstream.RefreshInterval > 0 {
		go refreshPeriodically(ctx, boardService, cfg.Upstream.RefreshInterval)
	}

	errorHandler := httpAdapter.NewErrorHandler(logger)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Board:          httpAdapter.NewBoardHandler(boardService, errorHandler, logger),
		Session:        httpAdapter.NewSessionHandler(tokenManager, errorHandler, logger),
		Health:         httpAdapter.NewHealthHandler(prefs, boardService, cfg.App.Version),
		Ws:             httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger),
		TokenManager:   tokenManager,
		GeneralLimiter: generalRateLimiter,
		RefreshLimiter: refreshRateLimiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CORSMaxAge:     cfg.CORS.MaxAge,
		Logger:         logger,
	})

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func refreshPeriodically(ctx context.Context, svc *services.BoardService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Failures are logged by the service and keep the previous snapshot.
			_, _ = svc.Refresh(ctx)
		}
	}
}
