package route

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/routeops/routeops/internal/api/models"
	"github.com/routeops/routeops/internal/geo"
	"github.com/routeops/routeops/internal/waypoint"
	"github.com/routeops/routeops/pkg/polyline"
)

// Validation constants.
const (
	MaxNameLength = 120
	MaxListLimit  = 100
)

// Service provides route operations.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService creates a new route service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create creates a route from a manual waypoint list. Metrics are computed
// and attached before persistence; the route starts with optimized=false.
func (s *Service) Create(ctx context.Context, operatorID string, input *models.RouteCreateRequest) (*models.Route, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	routeID := "rt_" + uuid.New().String()[:22]

	waypoints := make([]Waypoint, len(input.Waypoints))
	for i, in := range input.Waypoints {
		waypoints[i] = Waypoint{
			ID:                      "wp_" + uuid.New().String()[:22],
			SequenceOrder:           i + 1,
			Point:                   geo.Point{Lat: in.Latitude, Lon: in.Longitude},
			Name:                    in.Name,
			Address:                 in.Address,
			ServiceType:             in.ServiceType,
			EstimatedServiceMinutes: in.EstimatedServiceMinutes,
		}
	}

	route := &Route{
		ID:         routeID,
		OperatorID: operatorID,
		Name:       input.Name,
		Waypoints:  waypoints,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	route.DistanceKm = Distance(route.Points())
	route.DurationMinutes = Duration(route.Waypoints, DefaultAverageSpeedKmh)

	if err := s.repo.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	s.log.Info().
		Str("route_id", route.ID).
		Str("operator_id", operatorID).
		Int("waypoints", len(route.Waypoints)).
		Float64("distance_km", route.DistanceKm).
		Msg("route created")

	result := toAPIRoute(route)
	return &result, nil
}

// Import parses an uploaded file and creates a route from its waypoints
// through the same validation path as manual creation. Parse failures are
// returned as *waypoint.ParseError.
func (s *Service) Import(ctx context.Context, operatorID, filename string, data []byte, name string) (*models.Route, error) {
	parsed, err := waypoint.Parse(filename, data)
	if err != nil {
		return nil, err
	}

	input := &models.RouteCreateRequest{Name: name, Waypoints: make([]models.WaypointInput, len(parsed))}
	for i, wp := range parsed {
		input.Waypoints[i] = models.WaypointInput{
			Latitude:                wp.Point.Lat,
			Longitude:               wp.Point.Lon,
			Name:                    wp.Name,
			Address:                 wp.Address,
			ServiceType:             wp.ServiceType,
			EstimatedServiceMinutes: wp.EstimatedServiceMinutes,
		}
	}

	return s.Create(ctx, operatorID, input)
}

// Get retrieves a route with its ordered waypoints.
func (s *Service) Get(ctx context.Context, operatorID, routeID string) (*models.Route, error) {
	route, err := s.repo.GetByOperatorAndID(ctx, operatorID, routeID)
	if err != nil {
		return nil, err
	}

	result := toAPIRoute(route)
	return &result, nil
}

// List retrieves an operator's routes, newest first.
func (s *Service) List(ctx context.Context, operatorID string, limit int) (*models.RouteList, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = 50
	}

	routes, err := s.repo.List(ctx, operatorID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]models.Route, 0, len(routes))
	for _, route := range routes {
		items = append(items, toAPIRoute(route))
	}
	return &models.RouteList{Items: items}, nil
}

// Delete removes a route.
func (s *Service) Delete(ctx context.Context, operatorID, routeID string) error {
	return s.repo.Delete(ctx, operatorID, routeID)
}

func validateCreateInput(input *models.RouteCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if len(input.Name) > MaxNameLength {
		errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 120 characters"})
	}

	if len(input.Waypoints) < MinWaypoints {
		errs = append(errs, models.FieldError{Field: "waypoints", Message: "route must have at least 2 waypoints"})
		return errs
	}

	for i, wp := range input.Waypoints {
		point := geo.Point{Lat: wp.Latitude, Lon: wp.Longitude}
		if err := point.Validate(); err != nil {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("waypoints[%d]", i),
				Message: err.Error(),
			})
		}
	}

	return errs
}

func toAPIRoute(route *Route) models.Route {
	waypoints := make([]models.Waypoint, 0, len(route.Waypoints))
	for _, wp := range route.Waypoints {
		waypoints = append(waypoints, models.Waypoint{
			ID:                      wp.ID,
			SequenceOrder:           wp.SequenceOrder,
			Latitude:                wp.Point.Lat,
			Longitude:               wp.Point.Lon,
			Name:                    wp.Name,
			Address:                 wp.Address,
			ServiceType:             wp.ServiceType,
			EstimatedServiceMinutes: wp.EstimatedServiceMinutes,
		})
	}

	return models.Route{
		ID:              route.ID,
		Name:            route.Name,
		DistanceKm:      route.DistanceKm,
		DurationMinutes: route.DurationMinutes,
		Optimized:       route.Optimized,
		Polyline:        encodePath(route.Points()),
		Waypoints:       waypoints,
		CreatedAt:       route.CreatedAt,
		UpdatedAt:       route.UpdatedAt,
	}
}

// encodePath renders an ordered point path as an encoded polyline for
// transport. Empty paths encode to the empty string and the field is
// omitted from the response.
func encodePath(points []geo.Point) string {
	path := make([]polyline.Point, len(points))
	for i, p := range points {
		path[i] = polyline.Point{Lat: p.Lat, Lon: p.Lon}
	}
	return polyline.Encode(path)
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
