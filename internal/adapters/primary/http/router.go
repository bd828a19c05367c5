package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "github.com/lorrc/kanban-board/internal/adapters/primary/http/middleware"
	"github.com/lorrc/kanban-board/internal/auth"
)

// RouterConfig collects everything the HTTP surface is built from.
// Rate limiters and the websocket handler are optional.
type RouterConfig struct {
	Board   *BoardHandler
	Session *SessionHandler
	Health  *HealthHandler
	Ws      http.Handler

	TokenManager *auth.TokenManager

	GeneralLimiter *mw.RateLimiter
	RefreshLimiter *mw.RateLimiter

	AllowedOrigins []string
	CORSMaxAge     int

	Logger *slog.Logger
}

// NewRouter builds the chi router for the API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(cfg.Logger))
	r.Use(mw.RecoveryLogger(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader},
		MaxAge:         cfg.CORSMaxAge,
	}))

	if cfg.GeneralLimiter != nil {
		r.Use(cfg.GeneralLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", cfg.Health.HandleHealth)
	r.Get("/health/live", cfg.Health.HandleLiveness)
	r.Get("/health/ready", cfg.Health.HandleReadiness)

	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket route (the token is read from the query string)
		if cfg.Ws != nil {
			r.Get("/ws", cfg.Ws.ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			r.Use(mw.OptionalViewer(cfg.TokenManager))

			r.Post("/session", cfg.Session.HandleCreateSession)

			var refresh []func(http.Handler) http.Handler
			if cfg.RefreshLimiter != nil {
				refresh = append(refresh, cfg.RefreshLimiter.Middleware)
			}
			r.Route("/board", func(r chi.Router) {
				cfg.Board.RegisterRoutes(r, refresh...)
			})
		})
	})

	return r
}
