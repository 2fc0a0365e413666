package route

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/routeops/routeops/internal/geo"
)

// PostgresRepository is a PostgreSQL/PostGIS implementation of Repository.
// Waypoint locations are stored as POINT and the route's sequence as a
// LINESTRING, both SRID 4326 with (lon lat) coordinate order.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL route repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists a route together with its waypoint sequence.
func (r *PostgresRepository) Create(ctx context.Context, route *Route) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx, `
		INSERT INTO routes (id, operator_id, name, waypoints, distance_km, duration_minutes, optimized, created_at, updated_at)
		VALUES ($1, $2, $3, ST_GeomFromText($4, 4326), $5, $6, $7, $8, $9)
	`,
		route.ID,
		route.OperatorID,
		route.Name,
		geo.LineStringWKT(route.Points()),
		route.DistanceKm,
		route.DurationMinutes,
		route.Optimized,
		route.CreatedAt,
		route.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert route: %w", err)
	}

	if err := insertWaypoints(ctx, tx, route.ID, route.Waypoints); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByOperatorAndID retrieves a route and its ordered waypoints.
func (r *PostgresRepository) GetByOperatorAndID(ctx context.Context, operatorID, routeID string) (*Route, error) {
	var route Route
	err := r.pool.QueryRow(ctx, `
		SELECT id, operator_id, name, distance_km, duration_minutes, optimized, created_at, updated_at
		FROM routes
		WHERE id = $1 AND operator_id = $2
	`, routeID, operatorID).Scan(
		&route.ID,
		&route.OperatorID,
		&route.Name,
		&route.DistanceKm,
		&route.DurationMinutes,
		&route.Optimized,
		&route.CreatedAt,
		&route.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, sequence_order, ST_Y(location), ST_X(location),
		       name, address, service_type, estimated_duration_minutes
		FROM route_waypoints
		WHERE route_id = $1
		ORDER BY sequence_order
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var wp Waypoint
		err := rows.Scan(
			&wp.ID,
			&wp.SequenceOrder,
			&wp.Point.Lat,
			&wp.Point.Lon,
			&wp.Name,
			&wp.Address,
			&wp.ServiceType,
			&wp.EstimatedServiceMinutes,
		)
		if err != nil {
			return nil, err
		}
		route.Waypoints = append(route.Waypoints, wp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &route, nil
}

// List retrieves an operator's routes, newest first, without waypoints.
func (r *PostgresRepository) List(ctx context.Context, operatorID string, limit int) ([]*Route, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, operator_id, name, distance_km, duration_minutes, optimized, created_at, updated_at
		FROM routes
		WHERE operator_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, operatorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*Route
	for rows.Next() {
		var route Route
		err := rows.Scan(
			&route.ID,
			&route.OperatorID,
			&route.Name,
			&route.DistanceKm,
			&route.DurationMinutes,
			&route.Optimized,
			&route.CreatedAt,
			&route.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		routes = append(routes, &route)
	}

	return routes, rows.Err()
}

// Delete removes a route and its waypoints.
func (r *PostgresRepository) Delete(ctx context.Context, operatorID, routeID string) error {
	// route_waypoints rows cascade on the route FK.
	result, err := r.pool.Exec(ctx, `
		DELETE FROM routes WHERE id = $1 AND operator_id = $2
	`, routeID, operatorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// ApplyOptimization replaces the route's waypoint sequence and metrics and
// sets optimized=true in one transaction. The caller persists the
// optimization history record before invoking this, so a crash between the
// two leaves optimized=false with stale-but-consistent metrics.
func (r *PostgresRepository) ApplyOptimization(ctx context.Context, routeID string, waypoints []Waypoint, distanceKm float64, durationMinutes int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	points := make([]geo.Point, len(waypoints))
	for i, wp := range waypoints {
		points[i] = wp.Point
	}

	result, err := tx.Exec(ctx, `
		UPDATE routes
		SET waypoints = ST_GeomFromText($1, 4326),
		    distance_km = $2,
		    duration_minutes = $3,
		    optimized = TRUE,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`, geo.LineStringWKT(points), distanceKm, durationMinutes, routeID)
	if err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrRouteNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM route_waypoints WHERE route_id = $1`, routeID); err != nil {
		return fmt.Errorf("clear waypoints: %w", err)
	}
	if err := insertWaypoints(ctx, tx, routeID, waypoints); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertWaypoints(ctx context.Context, tx pgx.Tx, routeID string, waypoints []Waypoint) error {
	for _, wp := range waypoints {
		_, err := tx.Exec(ctx, `
			INSERT INTO route_waypoints (id, route_id, sequence_order, location, name, address, service_type, estimated_duration_minutes)
			VALUES ($1, $2, $3, ST_GeomFromText($4, 4326), $5, $6, $7, $8)
		`,
			wp.ID,
			routeID,
			wp.SequenceOrder,
			wp.Point.WKT(),
			wp.Name,
			wp.Address,
			wp.ServiceType,
			wp.EstimatedServiceMinutes,
		)
		if err != nil {
			return fmt.Errorf("insert waypoint %d: %w", wp.SequenceOrder, err)
		}
	}
	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
