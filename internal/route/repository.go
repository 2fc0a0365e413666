package route

import "context"

// Repository defines the interface for route persistence.
type Repository interface {
	// Create persists a route together with its waypoint sequence.
	Create(ctx context.Context, route *Route) error

	// GetByOperatorAndID retrieves a route and its ordered waypoints.
	// Returns ErrRouteNotFound if the route doesn't exist or doesn't belong
	// to the operator.
	GetByOperatorAndID(ctx context.Context, operatorID, routeID string) (*Route, error)

	// List retrieves an operator's routes, newest first, without waypoints.
	List(ctx context.Context, operatorID string, limit int) ([]*Route, error)

	// Delete removes a route and its waypoints.
	// Returns ErrRouteNotFound if the route doesn't exist or doesn't belong
	// to the operator.
	Delete(ctx context.Context, operatorID, routeID string) error

	// ApplyOptimization replaces the route's waypoint sequence and metrics
	// and sets optimized=true, as a single atomic transition. Returns
	// ErrRouteNotFound if the route no longer exists.
	ApplyOptimization(ctx context.Context, routeID string, waypoints []Waypoint, distanceKm float64, durationMinutes int) error
}
