package route

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	routes map[string]*Route
}

// NewInMemoryRepository creates a new in-memory route repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		routes: make(map[string]*Route),
	}
}

// Create persists a route together with its waypoint sequence.
func (r *InMemoryRepository) Create(_ context.Context, route *Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes[route.ID] = copyRoute(route)
	return nil
}

// GetByOperatorAndID retrieves a route and its ordered waypoints.
func (r *InMemoryRepository) GetByOperatorAndID(_ context.Context, operatorID, routeID string) (*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[routeID]
	if !ok || route.OperatorID != operatorID {
		return nil, ErrRouteNotFound
	}

	return copyRoute(route), nil
}

// List retrieves an operator's routes, newest first.
func (r *InMemoryRepository) List(_ context.Context, operatorID string, limit int) ([]*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	var routes []*Route
	for _, route := range r.routes {
		if route.OperatorID == operatorID {
			routes = append(routes, copyRoute(route))
		}
	}

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})

	if len(routes) > limit {
		routes = routes[:limit]
	}
	return routes, nil
}

// Delete removes a route.
func (r *InMemoryRepository) Delete(_ context.Context, operatorID, routeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	route, ok := r.routes[routeID]
	if !ok || route.OperatorID != operatorID {
		return ErrRouteNotFound
	}

	delete(r.routes, routeID)
	return nil
}

// ApplyOptimization replaces the route's sequence and metrics and sets
// optimized=true.
func (r *InMemoryRepository) ApplyOptimization(_ context.Context, routeID string, waypoints []Waypoint, distanceKm float64, durationMinutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	route, ok := r.routes[routeID]
	if !ok {
		return ErrRouteNotFound
	}

	route.Waypoints = append([]Waypoint(nil), waypoints...)
	route.DistanceKm = distanceKm
	route.DurationMinutes = durationMinutes
	route.Optimized = true
	route.UpdatedAt = time.Now()
	return nil
}

func copyRoute(route *Route) *Route {
	cpy := *route
	cpy.Waypoints = append([]Waypoint(nil), route.Waypoints...)
	return &cpy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
