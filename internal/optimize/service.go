package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/routeops/routeops/internal/api/models"
	"github.com/routeops/routeops/internal/geo"
	"github.com/routeops/routeops/internal/route"
	"github.com/routeops/routeops/pkg/polyline"
)

// ServiceConfig holds dependencies for the optimization service.
type ServiceConfig struct {
	Routes  route.Repository
	History Repository
	Engine  Engine
	Logger  zerolog.Logger
}

// Service orchestrates optimization runs: baseline metrics, the engine call,
// savings computation, and reconciliation into persisted state.
type Service struct {
	routes  route.Repository
	history Repository
	engine  Engine
	log     zerolog.Logger
}

// NewService creates a new optimization service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		routes:  cfg.Routes,
		history: cfg.History,
		engine:  cfg.Engine,
		log:     cfg.Logger,
	}
}

// Optimize runs one optimization cycle for a route.
//
// The history record is written before the live route is updated, so a crash
// between the two leaves optimized=false with stale-but-consistent metrics
// rather than a dangling true flag. Concurrent calls for the same route are
// not mutually exclusive: each writes its own immutable record and the route
// update is last-write-wins.
func (s *Service) Optimize(ctx context.Context, operatorID, routeID string, algorithm Algorithm) (*models.Optimization, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	if !ValidAlgorithm(algorithm) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, algorithm)
	}

	current, err := s.routes.GetByOperatorAndID(ctx, operatorID, routeID)
	if err != nil {
		return nil, err
	}

	// Baseline: trust stored metrics when present, recompute otherwise.
	originalDistance := current.DistanceKm
	originalDuration := current.DurationMinutes
	if originalDistance == 0 || originalDuration == 0 {
		originalDistance = route.Distance(current.Points())
		originalDuration = route.Duration(current.Waypoints, route.DefaultAverageSpeedKmh)
	}

	result, err := s.engine.Optimize(ctx, OptimizeRequest{
		Waypoints: toStops(current.Waypoints),
		Algorithm: algorithm,
	})
	if err != nil {
		return nil, err
	}

	savings := SavingsPercentage(originalDistance, result.DistanceKm)

	optimized := make([]route.Waypoint, len(result.Waypoints))
	for i, stop := range result.Waypoints {
		optimized[i] = route.Waypoint{
			ID:                      "wp_" + uuid.New().String()[:22],
			SequenceOrder:           i + 1,
			Point:                   stop.Point,
			Name:                    stop.Name,
			Address:                 stop.Address,
			ServiceType:             stop.ServiceType,
			EstimatedServiceMinutes: stop.EstimatedServiceMinutes,
		}
	}

	record := &RouteOptimization{
		ID:                       "opt_" + uuid.New().String()[:22],
		RouteID:                  routeID,
		Algorithm:                algorithm,
		OriginalDistanceKm:       originalDistance,
		OptimizedDistanceKm:      result.DistanceKm,
		OriginalDurationMinutes:  originalDuration,
		OptimizedDurationMinutes: result.DurationMinutes,
		SavingsPercentage:        savings,
		OptimizedPath:            stopPoints(result.Waypoints),
		CreatedAt:                time.Now(),
	}

	// History first, then the atomic route flip.
	if err := s.history.CreateOptimization(ctx, record); err != nil {
		return nil, fmt.Errorf("persist optimization record: %w", err)
	}
	if err := s.routes.ApplyOptimization(ctx, routeID, optimized, result.DistanceKm, result.DurationMinutes); err != nil {
		return nil, fmt.Errorf("apply optimization: %w", err)
	}

	s.log.Info().
		Str("route_id", routeID).
		Str("operator_id", operatorID).
		Str("algorithm", string(algorithm)).
		Float64("original_distance_km", originalDistance).
		Float64("optimized_distance_km", result.DistanceKm).
		Float64("savings_percentage", savings).
		Msg("route optimized")

	return toAPIOptimization(record, optimized), nil
}

// AnalyzeGaps asks the engine for coverage gaps and persists each returned
// item verbatim. Inserts are sequential and independent; a failure mid-list
// surfaces an error without rolling back already-inserted records, since gap
// records are advisory rather than all-or-nothing.
func (s *Service) AnalyzeGaps(ctx context.Context, operatorID, routeID string) (*models.GapList, error) {
	if _, err := s.routes.GetByOperatorAndID(ctx, operatorID, routeID); err != nil {
		return nil, err
	}

	items, err := s.engine.AnalyzeGaps(ctx, GapAnalysisRequest{RouteID: routeID, OperatorID: operatorID})
	if err != nil {
		return nil, err
	}

	gaps := make([]models.Gap, 0, len(items))
	for i, item := range items {
		gap := &GapAnalysis{
			ID:                   "gap_" + uuid.New().String()[:22],
			OperatorID:           operatorID,
			RouteID:              routeID,
			GapType:              item.GapType,
			Point:                item.Point,
			Description:          item.Description,
			SuggestedImprovement: item.SuggestedImprovement,
			PotentialSavings:     item.PotentialSavings,
			CreatedAt:            time.Now(),
		}
		if err := s.history.CreateGap(ctx, gap); err != nil {
			return nil, fmt.Errorf("persist gap %d of %d: %w", i+1, len(items), err)
		}
		gaps = append(gaps, toAPIGap(gap))
	}

	s.log.Info().
		Str("route_id", routeID).
		Str("operator_id", operatorID).
		Int("gaps", len(gaps)).
		Msg("gap analysis persisted")

	return &models.GapList{Items: gaps}, nil
}

// History retrieves a route's optimization records, newest first.
func (s *Service) History(ctx context.Context, operatorID, routeID string, limit int) (*models.OptimizationList, error) {
	if _, err := s.routes.GetByOperatorAndID(ctx, operatorID, routeID); err != nil {
		return nil, err
	}

	records, err := s.history.ListOptimizations(ctx, routeID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]models.Optimization, 0, len(records))
	for _, record := range records {
		items = append(items, *toAPIOptimization(record, nil))
	}
	return &models.OptimizationList{Items: items}, nil
}

// Suggestions retrieves an operator's stored gaps by potential savings descending.
func (s *Service) Suggestions(ctx context.Context, operatorID string, limit int) (*models.GapList, error) {
	gaps, err := s.history.ListGaps(ctx, operatorID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]models.Gap, 0, len(gaps))
	for _, gap := range gaps {
		items = append(items, toAPIGap(gap))
	}
	return &models.GapList{Items: items}, nil
}

func toStops(waypoints []route.Waypoint) []Stop {
	stops := make([]Stop, len(waypoints))
	for i, wp := range waypoints {
		stops[i] = Stop{
			Point:                   wp.Point,
			Name:                    wp.Name,
			Address:                 wp.Address,
			ServiceType:             wp.ServiceType,
			EstimatedServiceMinutes: wp.EstimatedServiceMinutes,
		}
	}
	return stops
}

func stopPoints(stops []Stop) []geo.Point {
	points := make([]geo.Point, len(stops))
	for i, stop := range stops {
		points[i] = stop.Point
	}
	return points
}

// toAPIOptimization converts a record to the API shape. When the full
// optimized waypoints are available (immediately after a run) they are used;
// otherwise the sequence is rebuilt from the stored path.
func toAPIOptimization(record *RouteOptimization, waypoints []route.Waypoint) *models.Optimization {
	apiWaypoints := make([]models.Waypoint, 0, len(record.OptimizedPath))
	if waypoints != nil {
		for _, wp := range waypoints {
			apiWaypoints = append(apiWaypoints, models.Waypoint{
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
	} else {
		for i, point := range record.OptimizedPath {
			apiWaypoints = append(apiWaypoints, models.Waypoint{
				SequenceOrder: i + 1,
				Latitude:      point.Lat,
				Longitude:     point.Lon,
			})
		}
	}

	return &models.Optimization{
		ID:                       record.ID,
		RouteID:                  record.RouteID,
		Algorithm:                string(record.Algorithm),
		OriginalDistanceKm:       record.OriginalDistanceKm,
		OptimizedDistanceKm:      record.OptimizedDistanceKm,
		OriginalDurationMinutes:  record.OriginalDurationMinutes,
		OptimizedDurationMinutes: record.OptimizedDurationMinutes,
		SavingsPercentage:        record.SavingsPercentage,
		OptimizedPolyline:        encodePath(record.OptimizedPath),
		OptimizedWaypoints:       apiWaypoints,
		CreatedAt:                record.CreatedAt,
	}
}

func encodePath(points []geo.Point) string {
	path := make([]polyline.Point, len(points))
	for i, p := range points {
		path[i] = polyline.Point{Lat: p.Lat, Lon: p.Lon}
	}
	return polyline.Encode(path)
}

func toAPIGap(gap *GapAnalysis) models.Gap {
	return models.Gap{
		ID:                   gap.ID,
		RouteID:              gap.RouteID,
		GapType:              gap.GapType,
		Latitude:             gap.Point.Lat,
		Longitude:            gap.Point.Lon,
		Description:          gap.Description,
		SuggestedImprovement: gap.SuggestedImprovement,
		PotentialSavings:     gap.PotentialSavings,
		CreatedAt:            gap.CreatedAt,
	}
}
