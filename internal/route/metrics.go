package route

import (
	"math"

	"github.com/routeops/routeops/internal/geo"
)

// Metric defaults.
const (
	// DefaultAverageSpeedKmh is the assumed travel speed between stops.
	DefaultAverageSpeedKmh = 50.0

	// DefaultServiceMinutes is the service time assumed at a stop when no
	// estimate was declared.
	DefaultServiceMinutes = 30
)

// Distance returns the total geodesic distance of the stop sequence in
// kilometers, rounded to 2 decimal places once at the end. Per-segment
// rounding would compound error across long routes, so unrounded segment
// distances are summed first. Fewer than 2 stops yields 0.
func Distance(points []geo.Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var total float64
	for i := 0; i < len(points)-1; i++ {
		total += geo.DistanceKm(points[i], points[i+1])
	}

	return math.Round(total*100) / 100
}

// Duration returns the estimated total minutes for the stop sequence: travel
// time per segment at avgSpeedKmh plus service time at the destination stop
// of each segment. Service time models work performed after arrival, so the
// first stop contributes none. The result is rounded to the nearest whole
// minute once at the end. Fewer than 2 stops yields 0.
func Duration(waypoints []Waypoint, avgSpeedKmh float64) int {
	if len(waypoints) < 2 {
		return 0
	}
	if avgSpeedKmh <= 0 {
		avgSpeedKmh = DefaultAverageSpeedKmh
	}

	var total float64
	for i := 0; i < len(waypoints)-1; i++ {
		segmentKm := geo.DistanceKm(waypoints[i].Point, waypoints[i+1].Point)
		total += (segmentKm / avgSpeedKmh) * 60

		dest := waypoints[i+1]
		if dest.EstimatedServiceMinutes != nil && *dest.EstimatedServiceMinutes > 0 {
			total += float64(*dest.EstimatedServiceMinutes)
		} else {
			total += DefaultServiceMinutes
		}
	}

	return int(math.Round(total))
}
