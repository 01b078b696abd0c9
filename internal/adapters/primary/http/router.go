package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "github.com/lorrc/glpi-dashboard/internal/adapters/primary/http/middleware"
)

// RouterConfig wires the handlers into one router. RateLimiter and
// WebSocket are optional.
type RouterConfig struct {
	Dashboard      *DashboardHandler
	Report         *ReportHandler
	Health         *HealthHandler
	WebSocket      http.Handler
	RateLimiter    *mw.RateLimiter
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the dashboard's route tree.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(cfg.Logger))
	r.Use(mw.RecoveryLogger(cfg.Logger))

	// Health check endpoints stay outside rate limiting for orchestrators
	cfg.Health.RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Middleware)
		}

		r.Get("/", cfg.Dashboard.HandlePage)
		r.Get("/report", cfg.Report.HandleReport)

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.AllowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type", mw.RequestIDHeader},
				ExposedHeaders:   []string{mw.RequestIDHeader},
				AllowCredentials: false,
				MaxAge:           300,
			}))

			cfg.Dashboard.RegisterAPIRoutes(r)

			// The live channel authenticates with its own token
			if cfg.WebSocket != nil {
				r.Get("/ws", cfg.WebSocket.ServeHTTP)
			}
		})
	})

	return r
}
