package pricing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL with PostGIS.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL pricing repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create appends a new observation.
func (r *PostgresRepository) Create(ctx context.Context, obs *Observation) error {
	query := `
		INSERT INTO pricing_observations (id, operator_id, job_type, price, location, observed_at)
		VALUES ($1, $2, $3, $4, ST_GeomFromText($5, 4326), $6)`

	_, err := r.pool.Exec(ctx, query,
		obs.ID, obs.OperatorID, obs.JobType, obs.Price, obs.Point.WKT(), obs.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting observation: %w", err)
	}
	return nil
}

// WithinRadius runs the spatial sample query. Distance filtering and ordering
// use geography casts so the radius is geodesic, not planar.
func (r *PostgresRepository) WithinRadius(ctx context.Context, q RadiusQuery) ([]*Observation, error) {
	query := `
		SELECT id, operator_id, job_type, price, ST_Y(location), ST_X(location), observed_at
		FROM pricing_observations
		WHERE job_type = $1
		  AND ST_DWithin(location::geography, ST_GeomFromText($2, 4326)::geography, $3)
		  AND ($4 = '' OR ($5 AND operator_id <> $4) OR (NOT $5 AND operator_id = $4))
		ORDER BY ST_Distance(location::geography, ST_GeomFromText($2, 4326)::geography) ASC,
		         observed_at DESC
		LIMIT $6`

	radiusMeters := q.RadiusKm * 1000
	rows, err := r.pool.Query(ctx, query,
		q.JobType, q.Center.WKT(), radiusMeters, q.OperatorID, q.ExcludeOperator, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	var observations []*Observation
	for rows.Next() {
		obs := &Observation{}
		if err := rows.Scan(&obs.ID, &obs.OperatorID, &obs.JobType, &obs.Price,
			&obs.Point.Lat, &obs.Point.Lon, &obs.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}

// ListByOperator returns an operator's own observations, newest first.
func (r *PostgresRepository) ListByOperator(ctx context.Context, operatorID string, limit int) ([]*Observation, error) {
	query := `
		SELECT id, operator_id, job_type, price, ST_Y(location), ST_X(location), observed_at
		FROM pricing_observations
		WHERE operator_id = $1
		ORDER BY observed_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, operatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	var observations []*Observation
	for rows.Next() {
		obs := &Observation{}
		if err := rows.Scan(&obs.ID, &obs.OperatorID, &obs.JobType, &obs.Price,
			&obs.Point.Lat, &obs.Point.Lon, &obs.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}
