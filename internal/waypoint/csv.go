package waypoint

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/routeops/routeops/internal/geo"
)

// Header aliases accepted for the coordinate columns, matched case-insensitively.
var (
	latAliases = []string{"latitude", "lat", "y"}
	lonAliases = []string{"longitude", "lng", "lon", "x"}
)

// parseCSV parses delimited text with a header row. Every record must carry
// numeric latitude and longitude; a single malformed coordinate fails the
// whole parse so a bad file cannot silently produce a shorter route.
func parseCSV(data []byte) ([]Waypoint, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Reason: ReasonMalformedFile, Detail: "malformed CSV file", Err: err}
	}
	if len(records) < 2 {
		return nil, &ParseError{Reason: ReasonNoWaypoints, Detail: "CSV file contains no data rows"}
	}

	// Column lookup by lowercased header name.
	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	latCol, ok := findColumn(columns, latAliases)
	if !ok {
		return nil, &ParseError{Reason: ReasonInvalidCoordinates, Detail: "CSV file has no latitude column"}
	}
	lonCol, ok := findColumn(columns, lonAliases)
	if !ok {
		return nil, &ParseError{Reason: ReasonInvalidCoordinates, Detail: "CSV file has no longitude column"}
	}

	waypoints := make([]Waypoint, 0, len(records)-1)
	for rowIdx, record := range records[1:] {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(field(record, latCol)), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(field(record, lonCol)), 64)
		if latErr != nil || lonErr != nil {
			return nil, &ParseError{
				Reason: ReasonInvalidCoordinates,
				Detail: fmt.Sprintf("invalid coordinates in CSV row %d", rowIdx+2),
			}
		}

		wp := Waypoint{
			Point:       geo.Point{Lat: lat, Lon: lon},
			Name:        lookupField(columns, record, "name"),
			Address:     lookupField(columns, record, "address"),
			ServiceType: lookupField(columns, record, "service_type", "type"),
		}
		if raw := lookupField(columns, record, "duration"); raw != "" {
			if minutes, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				wp.EstimatedServiceMinutes = &minutes
			}
		}
		waypoints = append(waypoints, wp)
	}

	return waypoints, nil
}

func findColumn(columns map[string]int, aliases []string) (int, bool) {
	for _, alias := range aliases {
		if idx, ok := columns[alias]; ok {
			return idx, true
		}
	}
	return 0, false
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func lookupField(columns map[string]int, record []string, names ...string) string {
	for _, name := range names {
		if idx, ok := columns[name]; ok {
			if v := strings.TrimSpace(field(record, idx)); v != "" {
				return v
			}
		}
	}
	return ""
}
