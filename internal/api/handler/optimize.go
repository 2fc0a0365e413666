package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/routeops/routeops/internal/api/middleware"
	"github.com/routeops/routeops/internal/api/models"
	"github.com/routeops/routeops/internal/api/response"
	"github.com/routeops/routeops/internal/optimize"
	"github.com/routeops/routeops/internal/route"
)

// OptimizeHandler handles optimization and gap-analysis endpoints.
type OptimizeHandler struct {
	optimizer *optimize.Service
}

// NewOptimizeHandler creates a new OptimizeHandler.
func NewOptimizeHandler(optimizer *optimize.Service) *OptimizeHandler {
	return &OptimizeHandler{optimizer: optimizer}
}

// Optimize handles POST /v1/routes/{routeId}/optimize.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")

	var input models.OptimizeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			response.BadRequest(w, r, "invalid JSON body", nil)
			return
		}
	}

	result, err := h.optimizer.Optimize(r.Context(),
		middleware.GetOperatorID(r.Context()), routeID, optimize.Algorithm(input.Algorithm))
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// AnalyzeGaps handles POST /v1/routes/{routeId}/gap-analysis.
func (h *OptimizeHandler) AnalyzeGaps(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")

	gaps, err := h.optimizer.AnalyzeGaps(r.Context(), middleware.GetOperatorID(r.Context()), routeID)
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, gaps)
}

// History handles GET /v1/routes/{routeId}/optimizations.
func (h *OptimizeHandler) History(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	limit := queryInt(r, "limit", 20)

	list, err := h.optimizer.History(r.Context(), middleware.GetOperatorID(r.Context()), routeID, limit)
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, list)
}

// Suggestions handles GET /v1/optimize/suggestions.
func (h *OptimizeHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	list, err := h.optimizer.Suggestions(r.Context(), middleware.GetOperatorID(r.Context()), limit)
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, list)
}

// writeOptimizeError maps optimization-domain errors to problem responses.
// Engine-level errors (502) are distinguished from connectivity failures
// (503) so clients know when a retry is worthwhile.
func writeOptimizeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, optimize.ErrInvalidAlgorithm) {
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "algorithm", Message: "must be one of nearest_neighbor, genetic, simulated_annealing"},
		})
		return
	}

	if errors.Is(err, route.ErrRouteNotFound) {
		response.NotFound(w, r, "route not found")
		return
	}

	var engineErr *optimize.EngineError
	if errors.As(err, &engineErr) {
		response.UpstreamError(w, r, engineErr.Message)
		return
	}

	if errors.Is(err, optimize.ErrEngineUnavailable) {
		response.ServiceUnavailable(w, r, "optimization engine is unreachable, please retry later")
		return
	}

	response.InternalError(w, r, "an unexpected error occurred")
}
