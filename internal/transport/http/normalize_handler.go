package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"catnorm/internal/config"
	apperrors "catnorm/internal/errors"
	"catnorm/internal/middleware"
	"catnorm/internal/services"
	"catnorm/internal/tabular"
)

// Normalizer is the part of services.NormalizationService the handler uses
type Normalizer interface {
	Defaults() config.NormalizeConfig
	NormalizeColumn(ctx context.Context, spec services.ColumnSpec, raw []*string) (services.ColumnResult, error)
	NormalizeTable(ctx context.Context, table *tabular.Table, specs []services.ColumnSpec) ([]services.ColumnResult, error)
}

// NormalizeHandler serves the column and table normalization endpoints
type NormalizeHandler struct {
	service      Normalizer
	validator    *middleware.RequestValidator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewNormalizeHandler creates a handler limiting request bodies to maxBodyBytes
func NewNormalizeHandler(service Normalizer, maxBodyBytes int64, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *NormalizeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apperrors.NewErrorHandler(logger, false)
	}
	return &NormalizeHandler{
		service:      service,
		validator:    middleware.NewRequestValidator(maxBodyBytes),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "normalize_handler")),
	}
}

// Routes returns the normalization routes
func (h *NormalizeHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.ContentTypeValidator(h.errorHandler, "application/json"))
	r.Post("/columns/normalize", h.NormalizeColumn)
	r.Post("/tables/normalize", h.NormalizeTable)
	return r
}

// NormalizeColumn handles POST /api/v1/columns/normalize
func (h *NormalizeHandler) NormalizeColumn(w http.ResponseWriter, r *http.Request) {
	var req NormalizeColumnRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	spec := req.Column.Spec(h.service.Defaults())
	result, err := h.service.NormalizeColumn(r.Context(), spec, req.Values)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Column normalized",
		slog.String("column", spec.Name),
		slog.Int("values", len(req.Values)),
		slog.Int("rejected", len(result.Rejections)))
	render.JSON(w, r, newColumnResponse(result))
}

// NormalizeTable handles POST /api/v1/tables/normalize
func (h *NormalizeHandler) NormalizeTable(w http.ResponseWriter, r *http.Request) {
	var req NormalizeTableRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := tabular.NewTable("request", req.Header, req.Rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	defaults := h.service.Defaults()
	specs := make([]services.ColumnSpec, len(req.Columns))
	for i, c := range req.Columns {
		if !table.Has(c.Name) {
			h.errorHandler.HandleError(w, r, apperrors.ErrValidation(
				fmt.Sprintf("columns[%d].name", i),
				fmt.Sprintf("column %q is not in the header", c.Name)))
			return
		}
		specs[i] = c.Spec(defaults)
	}

	results, err := h.service.NormalizeTable(r.Context(), table, specs)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := NormalizeTableResponse{
		Rows:    table.Len(),
		Columns: make([]ColumnResponse, len(results)),
	}
	for i, res := range results {
		resp.Columns[i] = newColumnResponse(res)
		resp.Rejected += len(res.Rejections)
	}
	render.JSON(w, r, resp)
}
