// Package httptransport assembles the full HTTP surface: public intake,
// authenticated workflow routes, admin diagnostics, health and metrics.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentinela/internal/incident/handler"
	"sentinela/internal/platform/middleware"
)

// Config carries the router's cross-cutting dependencies.
type Config struct {
	Incidents *handler.Handler
	JWT       *middleware.JWTValidator
	// AdminTokenHash guards /admin; empty disables those routes.
	AdminTokenHash string
	Logger         *slog.Logger
}

// NewRouter wires middleware and route groups. Order matters: request id
// and time run first so every later layer, including audit, sees them.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public intake: tenant resolution happens by slug in the body, not by
	// an auth claim.
	r.Group(cfg.Incidents.RegisterPublic)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWT, cfg.Logger))
		cfg.Incidents.Register(r)
	})

	if cfg.AdminTokenHash != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdminToken(cfg.AdminTokenHash))
			cfg.Incidents.RegisterAdmin(r)
		})
	}

	return r
}
