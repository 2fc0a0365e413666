// Package main provides the entrypoint for the RouteOps API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/routeops/routeops/internal/api"
	"github.com/routeops/routeops/internal/api/middleware"
	"github.com/routeops/routeops/internal/database"
	"github.com/routeops/routeops/internal/optimize"
	"github.com/routeops/routeops/internal/optimize/engine"
	"github.com/routeops/routeops/internal/pricing"
	"github.com/routeops/routeops/internal/route"
	"github.com/routeops/routeops/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "routeops-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting RouteOps API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	engineURL := os.Getenv("OPTIMIZATION_ENGINE_URL")
	if engineURL == "" {
		engineURL = "http://localhost:9090"
		log.Warn().Msg("OPTIMIZATION_ENGINE_URL not set, using local default")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	engineMetrics, err := middleware.NewEngineMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize engine metrics")
		os.Exit(1)
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize route repository and service
	routeRepo := route.NewPostgresRepository(pool)
	routeService := route.NewService(routeRepo, log)
	log.Info().Msg("route service initialized")

	// Initialize optimization engine client and orchestrator
	engineClient := engine.NewClient(engine.ClientConfig{
		BaseURL: engineURL,
		Metrics: engineMetrics,
		Logger:  log,
	})
	optimizeRepo := optimize.NewPostgresRepository(pool)
	optimizeService := optimize.NewService(optimize.ServiceConfig{
		Routes:  routeRepo,
		History: optimizeRepo,
		Engine:  engineClient,
		Logger:  log,
	})
	log.Info().
		Str("engine_url", engineURL).
		Msg("optimization service initialized")

	// Initialize pricing repository and service
	pricingRepo := pricing.NewPostgresRepository(pool)
	pricingService := pricing.NewService(pricingRepo, log)
	log.Info().Msg("pricing service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		DB:              pool,
		RouteService:    routeService,
		OptimizeService: optimizeService,
		PricingService:  pricingService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
