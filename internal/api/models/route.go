package models

import "time"

// WaypointInput is one stop in a route creation request.
type WaypointInput struct {
	Latitude                float64 `json:"latitude"`
	Longitude               float64 `json:"longitude"`
	Name                    string  `json:"name,omitempty"`
	Address                 string  `json:"address,omitempty"`
	ServiceType             string  `json:"service_type,omitempty"`
	EstimatedServiceMinutes *int    `json:"estimated_service_minutes,omitempty"`
}

// RouteCreateRequest is the request body for POST /v1/routes.
type RouteCreateRequest struct {
	Name      string          `json:"name,omitempty"`
	Waypoints []WaypointInput `json:"waypoints"`
}

// Waypoint is one stop of a persisted route, ordered by sequence.
type Waypoint struct {
	ID                      string  `json:"id"`
	SequenceOrder           int     `json:"sequence_order"`
	Latitude                float64 `json:"latitude"`
	Longitude               float64 `json:"longitude"`
	Name                    string  `json:"name,omitempty"`
	Address                 string  `json:"address,omitempty"`
	ServiceType             string  `json:"service_type,omitempty"`
	EstimatedServiceMinutes *int    `json:"estimated_service_minutes,omitempty"`
}

// Route is a persisted route with derived metrics.
type Route struct {
	ID              string     `json:"id"`
	Name            string     `json:"name,omitempty"`
	DistanceKm      float64    `json:"distance_km"`
	DurationMinutes int        `json:"duration_minutes"`
	Optimized       bool       `json:"optimized"`
	Polyline        string     `json:"polyline,omitempty"`
	Waypoints       []Waypoint `json:"waypoints"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// RouteList is the response for GET /v1/routes.
type RouteList struct {
	Items []Route `json:"items"`
}
