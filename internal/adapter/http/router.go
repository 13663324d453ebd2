package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	WalletHandler       *handler.WalletHandler
	NotificationHandler *handler.NotificationHandler
	AdminHandler        *handler.AdminHandler
	HealthHandler       *handler.HealthHandler

	TokenVerifier middleware.TokenVerifier

	// Optional.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middlewareError(w, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middlewareError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/me", cfg.AuthHandler.Me)
		})
	})

	// Everything below acts on the caller's own wallet.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))

		r.Route("/wallet", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.IdempotencyStore != nil {
					r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
				}
				r.Post("/send", cfg.WalletHandler.Send)
				r.Post("/deposit", cfg.WalletHandler.Deposit)
			})

			r.Get("/balance", cfg.WalletHandler.Balance)
			r.Get("/transactions", cfg.WalletHandler.Transactions)
			r.Get("/transactions/{id}", cfg.WalletHandler.Transaction)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Get("/unread", cfg.NotificationHandler.ListUnread)
			r.Get("/unread/count", cfg.NotificationHandler.CountUnread)
			r.Put("/{id}/read", cfg.NotificationHandler.MarkRead)
			r.Put("/read-all", cfg.NotificationHandler.MarkAllRead)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireOperator())
			r.Get("/ledger/consistency", cfg.AdminHandler.Consistency)
			r.Get("/reconciliation", cfg.AdminHandler.Reconciliation)
			r.Get("/reconciliation/{id}", cfg.AdminHandler.ReconcileAccount)
			r.Get("/audit-logs", cfg.AdminHandler.AuditLogs)
		})
	})

	return r
}

func middlewareError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.Error(message))
}
