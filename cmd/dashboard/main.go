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
	"time"

	httpAdapter "github.com/lorrc/glpi-dashboard/internal/adapters/primary/http"
	mw "github.com/lorrc/glpi-dashboard/internal/adapters/primary/http/middleware"
	"github.com/lorrc/glpi-dashboard/internal/adapters/primary/websocket"
	"github.com/lorrc/glpi-dashboard/internal/adapters/secondary/glpi"
	"github.com/lorrc/glpi-dashboard/internal/auth"
	"github.com/lorrc/glpi-dashboard/internal/config"
	"github.com/lorrc/glpi-dashboard/internal/core/services"
	"github.com/lorrc/glpi-dashboard/internal/infrastructure/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("dashboard stopped", "error", err)
		os.Exit(1)
	}
}

// run wires the dashboard and serves until a signal or a server error.
func run() error {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting dashboard",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	// 3. GLPI client, opened once everything else is wired
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := glpi.NewClient(glpi.Config{
		BaseURL:           cfg.GLPI.URL,
		Timeout:           cfg.GLPI.Timeout,
		RequestsPerSecond: cfg.GLPI.RateLimit,
		FetchMode:         cfg.GLPI.FetchMode,
		PageSize:          cfg.GLPI.PageSize,
		DateField:         cfg.GLPI.DateField,
		DefaultStart:      cfg.Dashboard.DefaultStart,
		DefaultEnd:        cfg.Dashboard.DefaultEnd,
	}, glpi.NewSession(cfg.GLPI.AppToken, cfg.GLPI.UserToken), logger)

	// 4. Initialize Security & Real-time Components
	secret := cfg.Dashboard.TokenSecret
	if secret == "" {
		if secret, err = auth.RandomSecret(); err != nil {
			return fmt.Errorf("generate token secret: %w", err)
		}
		logger.Info("DASHBOARD_TOKEN_SECRET not set, using a per-process secret")
	}
	tokenManager := auth.NewTokenManager(secret, cfg.Dashboard.TokenTTL)

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// 5. Initialize Rate Limiters
	var generalRateLimiter *mw.RateLimiter
	var eventRateLimiter *mw.RateLimitByKey
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		defer generalRateLimiter.Stop()

		eventRateLimiter = mw.NewRateLimitByKey(mw.EventRateLimiterConfig(cfg.RateLimit.EventRPS, cfg.RateLimit.EventBurst))
		defer eventRateLimiter.Stop()
	}

	// 6. Dependency Injection
	dashboardService, err := services.NewDashboardService(client, services.DashboardConfig{
		Fields: services.FieldKeys{
			Level:  cfg.GLPI.LevelField,
			Status: cfg.GLPI.StatusField,
		},
		FetchMode:    cfg.GLPI.FetchMode,
		DefaultStart: cfg.Dashboard.DefaultStart,
		DefaultEnd:   cfg.Dashboard.DefaultEnd,
		CacheSize:    cfg.Dashboard.CacheSize,
	}, logger)
	if err != nil {
		return fmt.Errorf("create dashboard service: %w", err)
	}
	reportService := services.NewReportService(client, client, logger)

	if err := client.InitSession(ctx); err != nil {
		return fmt.Errorf("open glpi session: %w", err)
	}
	defer func() {
		killCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.KillSession(killCtx); err != nil {
			logger.Warn("failed to close glpi session", "error", err)
		}
	}()

	errorHandler := httpAdapter.NewErrorHandler(logger)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Dashboard:      httpAdapter.NewDashboardHandler(dashboardService, hub, tokenManager, cfg.Dashboard.Title, errorHandler, logger),
		Report:         httpAdapter.NewReportHandler(reportService, cfg.Dashboard.Title, errorHandler, logger),
		Health:         httpAdapter.NewHealthHandler(client, dashboardService, hub, cfg.App.Version),
		WebSocket:      httpAdapter.NewWebSocketHandler(hub, tokenManager, dashboardService, eventRateLimiter, errorHandler, cfg, logger),
		RateLimiter:    generalRateLimiter,
		AllowedOrigins: cfg.Dashboard.AllowedOrigins,
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

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErr:
		logger.Error("server error", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server shutdown complete")
	return runErr
}
