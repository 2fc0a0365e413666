package models

import "time"

// OptimizeRequest is the request body for POST /v1/routes/{routeId}/optimize.
type OptimizeRequest struct {
	Algorithm string `json:"algorithm,omitempty"`
}

// Optimization is one immutable optimization attempt record.
type Optimization struct {
	ID                       string     `json:"id"`
	RouteID                  string     `json:"route_id"`
	Algorithm                string     `json:"algorithm"`
	OriginalDistanceKm       float64    `json:"original_distance_km"`
	OptimizedDistanceKm      float64    `json:"optimized_distance_km"`
	OriginalDurationMinutes  int        `json:"original_duration_minutes"`
	OptimizedDurationMinutes int        `json:"optimized_duration_minutes"`
	SavingsPercentage        float64    `json:"savings_percentage"`
	OptimizedPolyline        string     `json:"optimized_polyline,omitempty"`
	OptimizedWaypoints       []Waypoint `json:"optimized_waypoints"`
	CreatedAt                time.Time  `json:"created_at"`
}

// OptimizationList is the response for GET /v1/routes/{routeId}/optimizations.
type OptimizationList struct {
	Items []Optimization `json:"items"`
}

// Gap is one advisory gap-analysis record.
type Gap struct {
	ID                   string    `json:"id"`
	RouteID              string    `json:"route_id"`
	GapType              string    `json:"gap_type"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	Description          string    `json:"description"`
	SuggestedImprovement string    `json:"suggested_improvement"`
	PotentialSavings     float64   `json:"potential_savings"`
	CreatedAt            time.Time `json:"created_at"`
}

// GapList is the response for gap-analysis and suggestion endpoints.
type GapList struct {
	Items []Gap `json:"items"`
}
