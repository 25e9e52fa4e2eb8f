// Package http provides the operational HTTP surface: liveness and readiness
// probes plus server lifecycle. The task-board operations themselves are
// exposed through the service ports, not over HTTP.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ArchieBar/task-tracker-it1/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with the operational routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	return r
}
