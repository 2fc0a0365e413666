package waypoint

import (
	"path/filepath"
	"strings"
)

// Parse converts an uploaded file into waypoints in file order. The format is
// selected by the declared filename's extension, never by sniffing content.
// Callers are responsible for enforcing the minimum stop count for a valid
// route; Parse only guarantees the per-format policies documented on each
// parser.
func Parse(filename string, data []byte) ([]Waypoint, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(data)
	case ".json", ".geojson":
		return parseGeoJSON(data)
	case ".gpx":
		return parseGPX(data)
	default:
		return nil, &ParseError{
			Reason: ReasonUnsupportedFormat,
			Detail: "unsupported file format, expected .csv, .json, .geojson or .gpx",
		}
	}
}
