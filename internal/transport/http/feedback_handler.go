package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"crystalball/internal/classifier"
	apierrors "crystalball/internal/errors"
	"crystalball/internal/feedback"
)

// FeedbackRequest is the payload of POST /api/v1/feedback
type FeedbackRequest struct {
	Classification struct {
		DataType   string   `json:"data_type" validate:"required"`
		DataSource string   `json:"data_source"`
		Confidence float64  `json:"confidence"`
		Reasoning  []string `json:"reasoning"`
	} `json:"classification" validate:"required"`
	Feedback map[string]interface{} `json:"feedback" validate:"required"`
}

// FeedbackHandler records classification feedback
type FeedbackHandler struct {
	sink     feedback.Sink
	logger   *slog.Logger
	validate *validator.Validate
}

// NewFeedbackHandler creates a feedback handler
func NewFeedbackHandler(sink feedback.Sink, logger *slog.Logger) *FeedbackHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackHandler{
		sink:     sink,
		logger:   logger.With(slog.String("handler", "feedback")),
		validate: validator.New(),
	}
}

// Routes returns the feedback routes
func (h *FeedbackHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Record)
	return r
}

// Record handles POST /api/v1/feedback
func (h *FeedbackHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		renderError(w, r, apierrors.ErrValidation("classification", "classification and feedback are required"))
		return
	}

	result := classifier.Result{
		DataType:   classifier.DataType(req.Classification.DataType),
		DataSource: classifier.DataSource(req.Classification.DataSource),
		Confidence: req.Classification.Confidence,
		Reasoning:  req.Classification.Reasoning,
	}

	entry, err := h.sink.Record(r.Context(), result, req.Feedback)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to record feedback",
			slog.String("error", err.Error()))
		renderError(w, r, apierrors.ErrInternalServer)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"id":      entry.ID,
	})
}
