package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/routeops/routeops/internal/api/middleware"
	"github.com/routeops/routeops/internal/api/models"
	"github.com/routeops/routeops/internal/api/response"
	"github.com/routeops/routeops/internal/route"
	"github.com/routeops/routeops/internal/waypoint"
)

// MaxUploadBytes caps route file uploads at 10MB.
const MaxUploadBytes = 10 << 20

// allowedUploadExtensions are the file extensions accepted by the import
// endpoint. The parser re-checks this, but rejecting up front gives a clearer
// message before the file is read.
var allowedUploadExtensions = map[string]bool{
	".csv":     true,
	".json":    true,
	".geojson": true,
	".gpx":     true,
}

// RouteHandler handles route CRUD and file import endpoints.
type RouteHandler struct {
	routes *route.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routes *route.Service) *RouteHandler {
	return &RouteHandler{routes: routes}
}

// Create handles POST /v1/routes.
func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.RouteCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.routes.Create(r.Context(), middleware.GetOperatorID(r.Context()), &input)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/routes/"+created.ID, created)
}

// Import handles POST /v1/routes/import - multipart file upload.
func (h *RouteHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		response.BadRequest(w, r, "invalid multipart form or file larger than 10MB", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, r, "missing file field", []models.FieldError{
			{Field: "file", Message: "a route file is required"},
		})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExtensions[ext] {
		response.BadRequest(w, r, "unsupported file extension "+ext+"; allowed: .csv, .json, .geojson, .gpx", nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, r, "could not read uploaded file", nil)
		return
	}

	name := r.FormValue("name")

	created, err := h.routes.Import(r.Context(), middleware.GetOperatorID(r.Context()), header.Filename, data, name)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/routes/"+created.ID, created)
}

// List handles GET /v1/routes.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)

	list, err := h.routes.List(r.Context(), middleware.GetOperatorID(r.Context()), limit)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, list)
}

// Get handles GET /v1/routes/{routeId}.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")

	found, err := h.routes.Get(r.Context(), middleware.GetOperatorID(r.Context()), routeID)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, found)
}

// Delete handles DELETE /v1/routes/{routeId}.
func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")

	if err := h.routes.Delete(r.Context(), middleware.GetOperatorID(r.Context()), routeID); err != nil {
		writeRouteError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

// writeRouteError maps route-domain errors to problem responses.
func writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	if vErr, ok := route.AsValidationError(err); ok {
		response.BadRequest(w, r, "route validation failed", vErr.Errors)
		return
	}

	var parseErr *waypoint.ParseError
	if errors.As(err, &parseErr) {
		response.BadRequest(w, r, parseErr.Error(), []models.FieldError{
			{Field: "file", Message: parseErr.Detail, Code: string(parseErr.Reason)},
		})
		return
	}

	if errors.Is(err, route.ErrRouteNotFound) {
		response.NotFound(w, r, "route not found")
		return
	}

	response.InternalError(w, r, "an unexpected error occurred")
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
