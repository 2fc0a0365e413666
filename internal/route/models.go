// Package route provides route management: creation from uploaded files or
// manual waypoint lists, baseline metric computation, and persistence.
package route

import (
	"errors"
	"time"

	"github.com/routeops/routeops/internal/geo"
)

// Repository errors.
var (
	ErrRouteNotFound = errors.New("route not found")
)

// MinWaypoints is the smallest stop count that makes a valid route.
const MinWaypoints = 2

// Waypoint is one stop of a route. SequenceOrder values within a route form
// a dense 1..N range with no gaps or duplicates.
type Waypoint struct {
	ID                      string
	SequenceOrder           int
	Point                   geo.Point
	Name                    string
	Address                 string
	ServiceType             string
	EstimatedServiceMinutes *int
}

// Route owns an ordered sequence of waypoints plus derived metrics. A route
// is created with metrics already computed; Optimized flips true only after
// a successful optimization cycle has been reconciled.
type Route struct {
	ID              string
	OperatorID      string
	Name            string
	Waypoints       []Waypoint
	DistanceKm      float64
	DurationMinutes int
	Optimized       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Points returns the waypoint coordinates in sequence order.
func (r *Route) Points() []geo.Point {
	points := make([]geo.Point, len(r.Waypoints))
	for i, wp := range r.Waypoints {
		points[i] = wp.Point
	}
	return points
}
