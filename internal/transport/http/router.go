package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"licentia/pkg/platform/httputil"
)

// HealthChecker reports whether a backing resource is reachable. Stores
// backed by memory simply return nil.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Routes groups the handlers mounted behind clerk authentication.
type Routes interface {
	Register(r chi.Router)
}

// NewRouter assembles the public surface: health and metrics stay open,
// everything else requires a clerk token.
func NewRouter(routes Routes, validator TokenValidator, logger *slog.Logger, health ...HealthChecker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(RequestTime)

	r.Get("/healthz", handleHealth(health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequireClerkAuth(validator, logger))
		routes.Register(r)
	})

	return r
}

func handleHealth(checks []HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for _, c := range checks {
			if c == nil {
				continue
			}
			if err := c.Health(ctx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
