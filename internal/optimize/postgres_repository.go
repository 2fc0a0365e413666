package optimize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/routeops/routeops/internal/geo"
)

// PostgresRepository is a PostgreSQL/PostGIS implementation of Repository.
// Optimized paths are stored as LINESTRING and gap locations as POINT, both
// SRID 4326 with (lon lat) coordinate order.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL optimization repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreateOptimization persists one immutable optimization record. There is no
// update path by design.
func (r *PostgresRepository) CreateOptimization(ctx context.Context, record *RouteOptimization) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO route_optimizations
			(id, route_id, algorithm, original_distance_km, optimized_distance_km,
			 original_duration_minutes, optimized_duration_minutes,
			 savings_percentage, optimized_waypoints, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, ST_GeomFromText($9, 4326), $10)
	`,
		record.ID,
		record.RouteID,
		record.Algorithm,
		record.OriginalDistanceKm,
		record.OptimizedDistanceKm,
		record.OriginalDurationMinutes,
		record.OptimizedDurationMinutes,
		record.SavingsPercentage,
		geo.LineStringWKT(record.OptimizedPath),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert optimization: %w", err)
	}
	return nil
}

// ListOptimizations retrieves a route's optimization history, newest first.
func (r *PostgresRepository) ListOptimizations(ctx context.Context, routeID string, limit int) ([]*RouteOptimization, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, route_id, algorithm, original_distance_km, optimized_distance_km,
		       original_duration_minutes, optimized_duration_minutes,
		       savings_percentage, ST_AsGeoJSON(optimized_waypoints), created_at
		FROM route_optimizations
		WHERE route_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, routeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*RouteOptimization
	for rows.Next() {
		var record RouteOptimization
		var pathGeoJSON string
		err := rows.Scan(
			&record.ID,
			&record.RouteID,
			&record.Algorithm,
			&record.OriginalDistanceKm,
			&record.OptimizedDistanceKm,
			&record.OriginalDurationMinutes,
			&record.OptimizedDurationMinutes,
			&record.SavingsPercentage,
			&pathGeoJSON,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		record.OptimizedPath, err = decodeLineString(pathGeoJSON)
		if err != nil {
			return nil, fmt.Errorf("decode optimized path for %s: %w", record.ID, err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// CreateGap persists one gap record.
func (r *PostgresRepository) CreateGap(ctx context.Context, gap *GapAnalysis) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO gap_analyses
			(id, operator_id, route_id, gap_type, location, description,
			 suggested_improvement, potential_savings, created_at)
		VALUES ($1, $2, $3, $4, ST_GeomFromText($5, 4326), $6, $7, $8, $9)
	`,
		gap.ID,
		gap.OperatorID,
		gap.RouteID,
		gap.GapType,
		gap.Point.WKT(),
		gap.Description,
		gap.SuggestedImprovement,
		gap.PotentialSavings,
		gap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert gap: %w", err)
	}
	return nil
}

// ListGaps retrieves an operator's gap records by potential savings descending.
func (r *PostgresRepository) ListGaps(ctx context.Context, operatorID string, limit int) ([]*GapAnalysis, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, operator_id, route_id, gap_type, ST_Y(location), ST_X(location),
		       description, suggested_improvement, potential_savings, created_at
		FROM gap_analyses
		WHERE operator_id = $1
		ORDER BY potential_savings DESC
		LIMIT $2
	`, operatorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gaps []*GapAnalysis
	for rows.Next() {
		var gap GapAnalysis
		err := rows.Scan(
			&gap.ID,
			&gap.OperatorID,
			&gap.RouteID,
			&gap.GapType,
			&gap.Point.Lat,
			&gap.Point.Lon,
			&gap.Description,
			&gap.SuggestedImprovement,
			&gap.PotentialSavings,
			&gap.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		gaps = append(gaps, &gap)
	}

	return gaps, rows.Err()
}

// decodeLineString converts a PostGIS GeoJSON LineString into points.
// GeoJSON positions are [lon, lat].
func decodeLineString(raw string) ([]geo.Point, error) {
	var line struct {
		Coordinates [][]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal([]byte(raw), &line); err != nil {
		return nil, err
	}

	points := make([]geo.Point, 0, len(line.Coordinates))
	for _, coord := range line.Coordinates {
		if len(coord) < 2 {
			return nil, fmt.Errorf("position has %d coordinates", len(coord))
		}
		points = append(points, geo.Point{Lat: coord[1], Lon: coord[0]})
	}
	return points, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
