package pricing

import "context"

// Repository defines storage operations for price observations.
type Repository interface {
	// Create appends a new observation.
	Create(ctx context.Context, obs *Observation) error

	// WithinRadius returns observations matching the query, ordered by
	// geodesic distance from the center ascending, then timestamp descending,
	// capped at the query limit.
	WithinRadius(ctx context.Context, q RadiusQuery) ([]*Observation, error)

	// ListByOperator returns an operator's own observations, newest first.
	ListByOperator(ctx context.Context, operatorID string, limit int) ([]*Observation, error)
}
