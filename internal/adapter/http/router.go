package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/easymove/remit/internal/adapter/http/handler"
	"github.com/easymove/remit/internal/adapter/http/middleware"
	"github.com/easymove/remit/internal/infrastructure/auth"
	"github.com/easymove/remit/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	RateHandler        *handler.RateHandler
	WebhookHandler     *handler.WebhookHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	JWTManager         *auth.JWTManager
	AuthEnabled        bool
	RateLimiter        *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Public endpoints: tracking, rates, provider callbacks
		r.Get("/track/{trackingNumber}", cfg.TransactionHandler.Track)
		r.Get("/rates", cfg.RateHandler.List)
		r.Get("/rates/{from}/{to}", cfg.RateHandler.Get)
		r.Get("/rates/{from}/{to}/history", cfg.RateHandler.History)
		r.Post("/webhooks/payment", cfg.WebhookHandler.Payment)
		r.Post("/quotes", cfg.TransactionHandler.Quote)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			if cfg.AuthEnabled && cfg.JWTManager != nil {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			}

			r.Post("/accounts", cfg.AccountHandler.Create)
			r.Get("/accounts", cfg.AccountHandler.List)
			r.Get("/accounts/{id}", cfg.AccountHandler.Get)
			r.Post("/accounts/{id}/deposit", cfg.AccountHandler.Deposit)

			r.Post("/transactions", cfg.TransactionHandler.Create)
			r.Get("/transactions", cfg.TransactionHandler.List)
			r.Get("/transactions/stats", cfg.TransactionHandler.Stats)
			r.Get("/transactions/{id}", cfg.TransactionHandler.Get)
			r.Post("/transactions/{id}/cancel", cfg.TransactionHandler.Cancel)
			r.Post("/transactions/{id}/refund", cfg.TransactionHandler.Refund)
		})

		// Admin endpoints
		r.Group(func(r chi.Router) {
			if cfg.AuthEnabled && cfg.JWTManager != nil {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
				r.Use(middleware.RequireAdmin)
			}

			r.Post("/transactions/{id}/dispute", cfg.TransactionHandler.Dispute)
			r.Get("/rates/alerts", cfg.RateHandler.Alerts)
			r.Post("/rates/{from}/{to}", cfg.RateHandler.Record)
			r.Put("/rates/{from}/{to}/margin", cfg.RateHandler.SetMargin)
		})
	})

	return r
}
