package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/loanledger/internal/adapter/http/handler"
	"github.com/iho/loanledger/internal/adapter/http/middleware"
	"github.com/iho/loanledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ClientHandler     *handler.ClientHandler
	RateHandler       *handler.RateHandler
	CollateralHandler *handler.CollateralHandler
	LoanHandler       *handler.LoanHandler
	ContractHandler   *handler.ContractHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
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

		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", cfg.ClientHandler.Create)
			r.Get("/", cfg.ClientHandler.List)
			r.Get("/{id}", cfg.ClientHandler.Get)
			r.Get("/{id}/loans", cfg.ClientHandler.ListLoans)
		})

		// Rate catalog, keyed by principal
		r.Route("/rates", func(r chi.Router) {
			r.Post("/", cfg.RateHandler.Create)
			r.Get("/", cfg.RateHandler.List)
			r.Get("/{principal}", cfg.RateHandler.Get)
			r.Post("/{principal}/activate", cfg.RateHandler.Activate)
			r.Post("/{principal}/deactivate", cfg.RateHandler.Deactivate)
		})

		// Collateral registry
		r.Route("/collateral", func(r chi.Router) {
			r.Post("/", cfg.CollateralHandler.Create)
			r.Get("/", cfg.CollateralHandler.List)
			r.Get("/{id}", cfg.CollateralHandler.Get)
			r.Post("/{id}/pledge", cfg.CollateralHandler.Pledge)
			r.Post("/{id}/release", cfg.CollateralHandler.Release)
			r.Post("/{id}/retire", cfg.CollateralHandler.Retire)
		})

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/overdue", cfg.LoanHandler.Overdue)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Delete("/{id}", cfg.LoanHandler.Delete)
			r.Post("/{id}/cancel", cfg.LoanHandler.Cancel)
			r.Post("/{id}/payments", cfg.LoanHandler.ApplyPayment)
			r.Get("/{id}/payments", cfg.LoanHandler.ListPayments)
			r.Delete("/{id}/payments/{paymentID}", cfg.LoanHandler.ReversePayment)
			r.Post("/{id}/contract", cfg.ContractHandler.Render)
		})
	})

	return r
}
