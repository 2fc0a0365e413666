// Package api provides the HTTP API for RouteOps.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/routeops/routeops/internal/api/handler"
	"github.com/routeops/routeops/internal/api/middleware"
	"github.com/routeops/routeops/internal/optimize"
	"github.com/routeops/routeops/internal/pricing"
	"github.com/routeops/routeops/internal/route"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	DB              handler.Pinger
	RouteService    *route.Service
	OptimizeService *optimize.Service
	PricingService  *pricing.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "routeops-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	routeHandler := handler.NewRouteHandler(cfg.RouteService)
	optimizeHandler := handler.NewOptimizeHandler(cfg.OptimizeService)
	pricingHandler := handler.NewPricingHandler(cfg.PricingService)

	expensiveRateLimit := middleware.RateLimitByOperator(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByOperator(middleware.StandardRateLimit)   // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// All remaining endpoints require an identified operator.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OperatorID)
			r.Use(middleware.RequireJSON)

			// Routes
			r.Route("/routes", func(r chi.Router) {
				r.With(standardRateLimit).Get("/", routeHandler.List)
				r.With(standardRateLimit).Post("/", routeHandler.Create)
				r.With(expensiveRateLimit).Post("/import", routeHandler.Import)

				r.Route("/{routeId}", func(r chi.Router) {
					r.Use(standardRateLimit)
					r.Get("/", routeHandler.Get)
					r.Delete("/", routeHandler.Delete)
					r.With(expensiveRateLimit).Post("/optimize", optimizeHandler.Optimize)
					r.With(expensiveRateLimit).Post("/gap-analysis", optimizeHandler.AnalyzeGaps)
					r.Get("/optimizations", optimizeHandler.History)
				})
			})

			// Gap suggestions across all of an operator's routes
			r.With(standardRateLimit).Get("/optimize/suggestions", optimizeHandler.Suggestions)

			// Pricing
			r.Route("/pricing", func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Post("/observations", pricingHandler.Record)
				r.Get("/recommendations", pricingHandler.Recommend)
				r.Post("/analyze", pricingHandler.Compare)
				r.Get("/history", pricingHandler.History)
			})
		})
	})

	return r
}
