package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "crystalball/internal/errors"
	"crystalball/internal/pipeline"
)

// IngestRequest is the payload of POST /api/v1/ingest
type IngestRequest struct {
	Source  string           `json:"source" validate:"required"`
	Options pipeline.Options `json:"options"`
}

// BatchIngestRequest is the payload of POST /api/v1/ingest/batch
type BatchIngestRequest struct {
	Sources map[string]pipeline.Options `json:"sources" validate:"required,min=1"`
}

// IngestHandler exposes the ingestion pipeline over HTTP
type IngestHandler struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	validate *validator.Validate
}

// NewIngestHandler creates an ingest handler
func NewIngestHandler(p *pipeline.Pipeline, logger *slog.Logger) *IngestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestHandler{
		pipeline: p,
		logger:   logger.With(slog.String("handler", "ingest")),
		validate: validator.New(),
	}
}

// Routes returns the ingestion routes
func (h *IngestHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Ingest)
	r.Post("/batch", h.IngestBatch)
	r.Get("/sources", h.Sources)

	return r
}

// Ingest handles POST /api/v1/ingest
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		renderError(w, r, apierrors.ErrValidation("source", "source is required"))
		return
	}

	report, err := h.pipeline.Ingest(r.Context(), req.Source, req.Options)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownSource) {
			renderError(w, r, apierrors.UnknownSourceError(req.Source))
			return
		}
		h.logger.ErrorContext(r.Context(), "ingestion failed",
			slog.String("source", req.Source),
			slog.String("error", err.Error()))
		renderError(w, r, apierrors.IngestionError(err))
		return
	}

	render.JSON(w, r, report)
}

// IngestBatch handles POST /api/v1/ingest/batch
func (h *IngestHandler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchIngestRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		renderError(w, r, apierrors.ErrValidation("sources", "at least one source is required"))
		return
	}

	render.JSON(w, r, h.pipeline.IngestBatch(r.Context(), req.Sources))
}

// Sources handles GET /api/v1/ingest/sources
func (h *IngestHandler) Sources(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"sources": h.pipeline.Sources(),
	})
}

// renderError writes a structured error response envelope
func renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	if err := render.Render(w, r, apierrors.NewErrorResponse(apiErr)); err != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}
