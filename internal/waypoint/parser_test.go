package waypoint

import (
	"errors"
	"testing"
)

func parseErr(t *testing.T, err error) *ParseError {
	t.Helper()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	return pe
}

func TestParse_UnsupportedExtension(t *testing.T) {
	for _, name := range []string{"route.xlsx", "route.kml", "route", "route.csv.bak"} {
		_, err := Parse(name, []byte("whatever"))
		if pe := parseErr(t, err); pe.Reason != ReasonUnsupportedFormat {
			t.Errorf("Parse(%q) reason = %s, want %s", name, pe.Reason, ReasonUnsupportedFormat)
		}
	}
}

func TestParseCSV_AllRowsInFileOrder(t *testing.T) {
	data := []byte("latitude,longitude,address,service_type,duration,name\n" +
		"52.370216,4.895168,Dam Square,inspection,15,Stop A\n" +
		"52.090736,5.121420,Domplein,repair,45,Stop B\n" +
		"51.922500,4.479170,Coolsingel,,,Stop C\n")

	waypoints, err := Parse("route.csv", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(waypoints) != 3 {
		t.Fatalf("expected 3 waypoints, got %d", len(waypoints))
	}
	if waypoints[0].Point.Lat != 52.370216 || waypoints[0].Point.Lon != 4.895168 {
		t.Errorf("unexpected first point: %+v", waypoints[0].Point)
	}
	if waypoints[0].Address != "Dam Square" {
		t.Errorf("expected address to be lifted, got %q", waypoints[0].Address)
	}
	if waypoints[1].ServiceType != "repair" {
		t.Errorf("expected service_type to be lifted, got %q", waypoints[1].ServiceType)
	}
	if waypoints[0].EstimatedServiceMinutes == nil || *waypoints[0].EstimatedServiceMinutes != 15 {
		t.Errorf("expected duration 15, got %v", waypoints[0].EstimatedServiceMinutes)
	}
	if waypoints[2].EstimatedServiceMinutes != nil {
		t.Errorf("expected no duration on third row, got %v", *waypoints[2].EstimatedServiceMinutes)
	}
	if waypoints[2].Name != "Stop C" {
		t.Errorf("expected file order preserved, got %q last", waypoints[2].Name)
	}
}

func TestParseCSV_HeaderAliases(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"lat lng", "lat,lng\n52.1,4.2\n51.9,4.4\n"},
		{"y x", "Y,X\n52.1,4.2\n51.9,4.4\n"},
		{"mixed case", "Latitude,Lon\n52.1,4.2\n51.9,4.4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			waypoints, err := Parse("stops.csv", []byte(tt.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(waypoints) != 2 {
				t.Fatalf("expected 2 waypoints, got %d", len(waypoints))
			}
			if waypoints[0].Point.Lat != 52.1 || waypoints[0].Point.Lon != 4.2 {
				t.Errorf("unexpected point: %+v", waypoints[0].Point)
			}
		})
	}
}

func TestParseCSV_BadCoordinateFailsWholeParse(t *testing.T) {
	data := []byte("lat,lon\n52.1,4.2\nnot-a-number,4.4\n51.8,4.5\n")

	waypoints, err := Parse("route.csv", data)
	if waypoints != nil {
		t.Fatalf("expected no partial result, got %d waypoints", len(waypoints))
	}
	if pe := parseErr(t, err); pe.Reason != ReasonInvalidCoordinates {
		t.Errorf("reason = %s, want %s", pe.Reason, ReasonInvalidCoordinates)
	}
}

func TestParseCSV_MissingCoordinateColumn(t *testing.T) {
	data := []byte("name,address\nStop A,Somewhere\n")

	_, err := Parse("route.csv", data)
	if pe := parseErr(t, err); pe.Reason != ReasonInvalidCoordinates {
		t.Errorf("reason = %s, want %s", pe.Reason, ReasonInvalidCoordinates)
	}
}

func TestParseGeoJSON_FeatureCollection(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [4.895168, 52.370216]},
			 "properties": {"address": "Dam Square", "service_type": "inspection", "duration": 20}},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [5.121420, 52.090736]},
			 "properties": {"name": "Domplein", "type": "repair"}},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [4.479170, 51.922500]},
			 "properties": {}}
		]
	}`)

	waypoints, err := Parse("route.geojson", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(waypoints) != 3 {
		t.Fatalf("expected 3 waypoints, got %d", len(waypoints))
	}
	// GeoJSON positions are [lon, lat].
	if waypoints[0].Point.Lat != 52.370216 || waypoints[0].Point.Lon != 4.895168 {
		t.Errorf("coordinate order not [lon, lat]: %+v", waypoints[0].Point)
	}
	if waypoints[0].EstimatedServiceMinutes == nil || *waypoints[0].EstimatedServiceMinutes != 20 {
		t.Errorf("expected duration property lifted, got %v", waypoints[0].EstimatedServiceMinutes)
	}
	if waypoints[1].Address != "Domplein" {
		t.Errorf("expected name fallback for address, got %q", waypoints[1].Address)
	}
	if waypoints[1].ServiceType != "repair" {
		t.Errorf("expected type alias for service_type, got %q", waypoints[1].ServiceType)
	}
}

func TestParseGeoJSON_SingleFeature(t *testing.T) {
	data := []byte(`{"type": "Feature",
		"geometry": {"type": "Point", "coordinates": [4.9, 52.3]},
		"properties": {"address": "Hub"}}`)

	waypoints, err := Parse("stop.json", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) != 1 || waypoints[0].Address != "Hub" {
		t.Fatalf("unexpected result: %+v", waypoints)
	}
}

func TestParseGeoJSON_InvalidGeometry(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			"missing geometry",
			`{"type": "FeatureCollection", "features": [{"type": "Feature", "properties": {}}]}`,
		},
		{
			"too few coordinates",
			`{"type": "FeatureCollection", "features": [
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [4.9]}}]}`,
		},
		{
			"line geometry",
			`{"type": "FeatureCollection", "features": [
				{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[4.9, 52.3], [5.0, 52.4]]}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("route.geojson", []byte(tt.data))
			if pe := parseErr(t, err); pe.Reason != ReasonInvalidGeometry {
				t.Errorf("reason = %s, want %s", pe.Reason, ReasonInvalidGeometry)
			}
		})
	}
}

func TestParseGeoJSON_NotAFeature(t *testing.T) {
	_, err := Parse("route.geojson", []byte(`{"type": "GeometryCollection"}`))
	if pe := parseErr(t, err); pe.Reason != ReasonMalformedFile {
		t.Errorf("reason = %s, want %s", pe.Reason, ReasonMalformedFile)
	}
}

func TestParseGPX_SkipsCorruptPoints(t *testing.T) {
	// 5 track points, one with a corrupt latitude: expect 4 waypoints, no error.
	data := []byte(`<?xml version="1.0"?>
<gpx version="1.1" creator="test">
  <trk><trkseg>
    <trkpt lat="52.10" lon="4.20"><name>p1</name></trkpt>
    <trkpt lat="garbage" lon="4.25"><name>p2</name></trkpt>
    <trkpt lat="52.20" lon="4.30"><name>p3</name></trkpt>
    <trkpt lat="52.25" lon="4.35"><name>p4</name></trkpt>
    <trkpt lat="52.30" lon="4.40"><name>p5</name></trkpt>
  </trkseg></trk>
</gpx>`)

	waypoints, err := Parse("track.gpx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) != 4 {
		t.Fatalf("expected 4 waypoints, got %d", len(waypoints))
	}
	if waypoints[1].Name != "p3" {
		t.Errorf("expected corrupt point skipped in place, got %q second", waypoints[1].Name)
	}
}

func TestParseGPX_WaypointsBeforeTrackPoints(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<gpx version="1.1" creator="test">
  <wpt lat="52.00" lon="4.00"><name>standalone</name><desc>Depot</desc></wpt>
  <trk><trkseg>
    <trkpt lat="52.10" lon="4.20"><name>t1</name></trkpt>
  </trkseg></trk>
  <trk><trkseg>
    <trkpt lat="52.20" lon="4.30"><name>t2</name></trkpt>
  </trkseg></trk>
</gpx>`)

	waypoints, err := Parse("track.gpx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) != 3 {
		t.Fatalf("expected 3 waypoints, got %d", len(waypoints))
	}
	if waypoints[0].Name != "standalone" || waypoints[0].Address != "Depot" {
		t.Errorf("expected standalone waypoint first with desc lifted, got %+v", waypoints[0])
	}
	if waypoints[1].Name != "t1" || waypoints[2].Name != "t2" {
		t.Errorf("expected track points in document order, got %q, %q", waypoints[1].Name, waypoints[2].Name)
	}
}

func TestParseGPX_Empty(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<gpx version="1.1" creator="test">
  <trk><trkseg>
    <trkpt lat="bad" lon="bad"/>
  </trkseg></trk>
</gpx>`)

	_, err := Parse("track.gpx", data)
	if pe := parseErr(t, err); pe.Reason != ReasonNoWaypoints {
		t.Errorf("reason = %s, want %s", pe.Reason, ReasonNoWaypoints)
	}
}

func TestParseGPX_Malformed(t *testing.T) {
	_, err := Parse("track.gpx", []byte("<gpx><unclosed"))
	if pe := parseErr(t, err); pe.Reason != ReasonMalformedFile {
		t.Errorf("reason = %s, want %s", pe.Reason, ReasonMalformedFile)
	}
}
