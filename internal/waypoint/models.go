// Package waypoint parses operator-supplied route files into an ordered
// sequence of waypoints. Supported formats are delimited text (CSV), GeoJSON
// and GPX, selected by filename extension.
package waypoint

import "github.com/routeops/routeops/internal/geo"

// Waypoint is a single parsed stop in file order. Ordinal position is the
// slice index; sequencing is assigned when a route is created.
type Waypoint struct {
	Point                   geo.Point
	Name                    string
	Address                 string
	ServiceType             string
	EstimatedServiceMinutes *int
}

// Reason classifies why a parse failed.
type Reason string

// Parse failure reasons.
const (
	ReasonUnsupportedFormat  Reason = "unsupported_format"
	ReasonMalformedFile      Reason = "malformed_file"
	ReasonInvalidCoordinates Reason = "invalid_coordinates"
	ReasonInvalidGeometry    Reason = "invalid_geometry"
	ReasonNoWaypoints        Reason = "no_waypoints_found"
)

// ParseError describes a parse failure with a machine-readable reason and a
// human-readable detail suitable for a 400-class response.
type ParseError struct {
	Reason Reason
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
