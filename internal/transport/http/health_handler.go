package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"crystalball/internal/pipeline"
)

// HealthHandler reports service liveness and the registered sources
type HealthHandler struct {
	pipeline *pipeline.Pipeline
	version  string
	started  time.Time
}

// NewHealthHandler creates a health handler
func NewHealthHandler(p *pipeline.Pipeline, version string) *HealthHandler {
	return &HealthHandler{
		pipeline: p,
		version:  version,
		started:  time.Now().UTC(),
	}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.HealthCheck)
	return r
}

// HealthCheck handles GET /api/v1/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":         "healthy",
		"version":        h.version,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"sources":        h.pipeline.Sources(),
	})
}
