package waypoint

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/routeops/routeops/internal/geo"
)

// GeoJSON document shapes. Coordinates stay raw so a non-point geometry on a
// single feature is reported as invalid geometry rather than failing the
// whole document decode.
type geoJSONDocument struct {
	Type       string           `json:"type"`
	Features   []geoJSONFeature `json:"features"`
	Geometry   *geoJSONGeometry `json:"geometry"`
	Properties map[string]any   `json:"properties"`
}

type geoJSONFeature struct {
	Type       string           `json:"type"`
	Geometry   *geoJSONGeometry `json:"geometry"`
	Properties map[string]any   `json:"properties"`
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// parseGeoJSON accepts a single Feature or a FeatureCollection. Every feature
// must carry a point geometry with at least [longitude, latitude]; GeoJSON
// coordinate order, not [lat, lon].
func parseGeoJSON(data []byte) ([]Waypoint, error) {
	var doc geoJSONDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Reason: ReasonMalformedFile, Detail: "malformed GeoJSON file", Err: err}
	}

	switch doc.Type {
	case "FeatureCollection":
		if len(doc.Features) == 0 {
			return nil, &ParseError{Reason: ReasonNoWaypoints, Detail: "feature collection contains no features"}
		}
		waypoints := make([]Waypoint, 0, len(doc.Features))
		for i, feature := range doc.Features {
			wp, err := featureToWaypoint(feature.Geometry, feature.Properties, i)
			if err != nil {
				return nil, err
			}
			waypoints = append(waypoints, wp)
		}
		return waypoints, nil

	case "Feature":
		wp, err := featureToWaypoint(doc.Geometry, doc.Properties, 0)
		if err != nil {
			return nil, err
		}
		return []Waypoint{wp}, nil

	default:
		return nil, &ParseError{
			Reason: ReasonMalformedFile,
			Detail: "GeoJSON document must be a Feature or FeatureCollection",
		}
	}
}

func featureToWaypoint(geom *geoJSONGeometry, props map[string]any, idx int) (Waypoint, error) {
	invalid := &ParseError{
		Reason: ReasonInvalidGeometry,
		Detail: fmt.Sprintf("feature %d has no point geometry with [longitude, latitude] coordinates", idx),
	}

	if geom == nil {
		return Waypoint{}, invalid
	}

	var coords []float64
	if err := json.Unmarshal(geom.Coordinates, &coords); err != nil || len(coords) < 2 {
		return Waypoint{}, invalid
	}

	wp := Waypoint{
		// GeoJSON positions are [lon, lat].
		Point:       geo.Point{Lat: coords[1], Lon: coords[0]},
		Name:        propString(props, "name"),
		Address:     propString(props, "address", "name"),
		ServiceType: propString(props, "service_type", "type"),
	}
	if minutes, ok := propMinutes(props, "duration"); ok {
		wp.EstimatedServiceMinutes = &minutes
	}
	return wp, nil
}

func propString(props map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func propMinutes(props map[string]any, key string) (int, bool) {
	switch v := props[key].(type) {
	case float64:
		return int(v), true
	case string:
		if minutes, err := strconv.Atoi(v); err == nil {
			return minutes, true
		}
	}
	return 0, false
}
