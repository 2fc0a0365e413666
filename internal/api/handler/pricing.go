package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/routeops/routeops/internal/api/middleware"
	"github.com/routeops/routeops/internal/api/models"
	"github.com/routeops/routeops/internal/api/response"
	"github.com/routeops/routeops/internal/geo"
	"github.com/routeops/routeops/internal/pricing"
)

// PricingHandler handles pricing statistics endpoints.
type PricingHandler struct {
	pricing *pricing.Service
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

// Record handles POST /v1/pricing/observations.
func (h *PricingHandler) Record(w http.ResponseWriter, r *http.Request) {
	var input models.ObservationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	obs, err := h.pricing.Record(r.Context(), middleware.GetOperatorID(r.Context()), input)
	if err != nil {
		writePricingError(w, r, err)
		return
	}

	response.Created(w, r, "", obs)
}

// Recommend handles GET /v1/pricing/recommendations.
// Query parameters: job_type, latitude, longitude.
func (h *PricingHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	jobType := r.URL.Query().Get("job_type")

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	if latErr != nil || lonErr != nil {
		response.BadRequest(w, r, "latitude and longitude query parameters are required numbers", []models.FieldError{
			{Field: "latitude", Message: "required"},
			{Field: "longitude", Message: "required"},
		})
		return
	}

	rec, err := h.pricing.Recommend(r.Context(), jobType, geo.Point{Lat: lat, Lon: lon})
	if err != nil {
		writePricingError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, rec)
}

// Compare handles POST /v1/pricing/analyze.
func (h *PricingHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var input models.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.pricing.Compare(r.Context(), middleware.GetOperatorID(r.Context()), input)
	if err != nil {
		writePricingError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// History handles GET /v1/pricing/history.
func (h *PricingHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)

	list, err := h.pricing.History(r.Context(), middleware.GetOperatorID(r.Context()), limit)
	if err != nil {
		writePricingError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, list)
}

// writePricingError maps pricing-domain errors to problem responses.
func writePricingError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *pricing.ValidationError
	if errors.As(err, &vErr) {
		response.BadRequest(w, r, vErr.Error(), []models.FieldError{
			{Field: vErr.Field, Message: vErr.Message},
		})
		return
	}
	response.InternalError(w, r, "an unexpected error occurred")
}
