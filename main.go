package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	appLogger "github.com/FACorreiaa/go-city-info-api/app/logger"
	appMiddleware "github.com/FACorreiaa/go-city-info-api/app/middleware"
	"github.com/FACorreiaa/go-city-info-api/app/observability/metrics"
	"github.com/FACorreiaa/go-city-info-api/app/tracer"
	"github.com/FACorreiaa/go-city-info-api/config"
	"github.com/FACorreiaa/go-city-info-api/internal/container"
	"github.com/FACorreiaa/go-city-info-api/internal/router"
)

// @title        City Info API
// @version      1.0
// @description  Cities and their points of interest.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
func main() {
	// slog is not configured yet.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(cfg.Mode, os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	providers, err := tracer.InitTracingAndMetrics()
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()
	if cfg.Handlers.Prometheus.Enabled {
		go providers.Serve(ctx, cfg.Handlers.Prometheus.Port, logger)
	}

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dependencies", slog.Any("error", err))
		os.Exit(1)
	}

	handler := newHTTPHandler(&cfg, c, logger)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress), slog.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	c.Shutdown(shutdownCtx)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Failed to flush telemetry", slog.Any("error", err))
	}
	logger.Info("Application shut down complete.")
}

// newHTTPHandler assembles the server-wide middleware around the API routes.
func newHTTPHandler(cfg *config.Config, c *container.Container, logger *slog.Logger) http.Handler {
	routerConfig := &router.Config{
		CityHandler:         c.CityHandler,
		POIHandler:          c.POIHandler,
		RateLimitMiddleware: appMiddleware.RateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
		AllowedOrigins:      cfg.CORS.AllowedOrigins,
		StoreBackend:        cfg.Store.Backend,
		HealthCheck:         c.HealthCheck,
		Logger:              logger,
	}
	if cfg.Auth.Enabled {
		routerConfig.AuthenticateMiddleware = appMiddleware.Authenticate([]byte(cfg.Auth.JWTSecret))
	}

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(appMiddleware.RequestMetrics)
	if cfg.Server.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.Timeout))
	}
	r.Use(middleware.Compress(5, "application/json", "application/xml"))
	r.Mount("/", router.SetupRouter(routerConfig))
	return r
}
