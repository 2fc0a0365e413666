package engine

// wireWaypoint is one stop in the engine's request/response format.
type wireWaypoint struct {
	Latitude                 float64 `json:"latitude"`
	Longitude                float64 `json:"longitude"`
	Name                     string  `json:"name,omitempty"`
	Address                  string  `json:"address,omitempty"`
	ServiceType              string  `json:"service_type,omitempty"`
	EstimatedDurationMinutes *int    `json:"estimated_duration_minutes,omitempty"`
}

// optimizeRequest is the body for POST /optimize.
type optimizeRequest struct {
	Waypoints []wireWaypoint `json:"waypoints"`
	Algorithm string         `json:"algorithm"`
}

// optimizeResponse is the engine's reply to POST /optimize.
type optimizeResponse struct {
	OptimizedWaypoints []wireWaypoint `json:"optimized_waypoints"`
	DistanceKm         float64        `json:"distance_km"`
	DurationMinutes    int            `json:"duration_minutes"`
}

// gapAnalysisRequest is the body for POST /analyze-gaps.
type gapAnalysisRequest struct {
	RouteID    string `json:"route_id"`
	OperatorID string `json:"operator_id"`
}

// wireGap is one gap item in the engine's response.
type wireGap struct {
	GapType              string  `json:"gap_type"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	Description          string  `json:"description"`
	SuggestedImprovement string  `json:"suggested_improvement"`
	PotentialSavings     float64 `json:"potential_savings"`
}

// gapAnalysisResponse is the engine's reply to POST /gap-analysis.
type gapAnalysisResponse struct {
	Gaps []wireGap `json:"gaps"`
}

// errorResponse is the engine's error body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
