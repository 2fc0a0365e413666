package optimize

import "context"

// Repository defines the interface for optimization history and gap records.
type Repository interface {
	// CreateOptimization persists one immutable optimization record.
	CreateOptimization(ctx context.Context, record *RouteOptimization) error

	// ListOptimizations retrieves a route's optimization history, newest first.
	ListOptimizations(ctx context.Context, routeID string, limit int) ([]*RouteOptimization, error)

	// CreateGap persists one gap record.
	CreateGap(ctx context.Context, gap *GapAnalysis) error

	// ListGaps retrieves an operator's gap records ordered by potential
	// savings descending.
	ListGaps(ctx context.Context, operatorID string, limit int) ([]*GapAnalysis, error)
}
