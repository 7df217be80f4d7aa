package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crystalball/internal/config"
	"crystalball/internal/feedback"
	"crystalball/internal/infrastructure"
	"crystalball/internal/pipeline"
)

// RouterDeps are the collaborators of the HTTP surface
type RouterDeps struct {
	Pipeline *pipeline.Pipeline
	Feedback feedback.Sink
	Registry *prometheus.Registry
	Config   *config.Config
	Logger   *slog.Logger
	Version  string
}

// NewRouter assembles the service's full route tree
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(traceMiddleware)
	r.Use(chimiddleware.Recoverer)
	if deps.Config != nil && deps.Config.Server.RateLimit.Enabled {
		r.Use(RateLimit(deps.Config.Server.RateLimit.RPS, deps.Config.Server.RateLimit.Burst))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/ingest", NewIngestHandler(deps.Pipeline, logger).Routes())
		if deps.Feedback != nil {
			r.Mount("/feedback", NewFeedbackHandler(deps.Feedback, logger).Routes())
		}
		r.Mount("/health", NewHealthHandler(deps.Pipeline, deps.Version).Routes())
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return r
}

// traceMiddleware assigns every request a trace ID, propagated through
// the context into all pipeline logs and echoed in the response
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Trace-ID", traceID)
		ctx := infrastructure.WithTraceID(r.Context(), traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
