// Package httptransport assembles the public HTTP surface. Handlers live
// with their bounded contexts; this package only owns the shared middleware
// chain and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talentflow/internal/platform/metrics"
	"talentflow/internal/platform/middleware"
	"talentflow/pkg/platform/httputil"
)

// Registrar is anything that mounts routes on the router. Every context
// handler implements it.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Router struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
	checkers map[string]HealthChecker
}

type Option func(*Router)

func WithTimeout(d time.Duration) Option {
	return func(rt *Router) { rt.timeout = d }
}

// WithHealthChecker adds a named dependency to the health endpoint.
func WithHealthChecker(name string, checker HealthChecker) Option {
	return func(rt *Router) { rt.checkers[name] = checker }
}

// New builds the router with the shared middleware chain applied once and
// every handler mounted under it.
func New(logger *slog.Logger, m *metrics.Metrics, handlers []Registrar, opts ...Option) http.Handler {
	rt := &Router{
		logger:   logger,
		metrics:  m,
		timeout:  30 * time.Second,
		checkers: make(map[string]HealthChecker),
	}
	for _, opt := range opts {
		opt(rt)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(rt.timeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))

	for _, handler := range handlers {
		handler.Register(r)
	}

	r.Get("/healthz", rt.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := http.StatusOK
	deps := make(map[string]string, len(rt.checkers))
	for name, checker := range rt.checkers {
		if err := checker.Health(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}
	httputil.WriteJSON(w, status, map[string]any{"status": http.StatusText(status), "dependencies": deps})
}
