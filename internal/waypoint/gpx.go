package waypoint

import (
	"encoding/xml"
	"strconv"

	"github.com/routeops/routeops/internal/geo"
)

// GPX document shapes. Coordinates are kept as string attributes so a single
// corrupt fix can be skipped without failing the whole document.
type gpxDocument struct {
	XMLName   xml.Name   `xml:"gpx"`
	Waypoints []gpxPoint `xml:"wpt"`
	Tracks    []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat         string `xml:"lat,attr"`
	Lon         string `xml:"lon,attr"`
	Name        string `xml:"name"`
	Comment     string `xml:"cmt"`
	Description string `xml:"desc"`
}

// parseGPX collects standalone waypoints first, then every track point across
// all tracks and segments in document order. Points with unparseable
// coordinates are skipped individually: exploratory GPS logs routinely carry
// a few corrupt fixes, and dropping those beats discarding the whole track.
// This is deliberately the opposite of the CSV fail-fast policy.
func parseGPX(data []byte) ([]Waypoint, error) {
	var doc gpxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Reason: ReasonMalformedFile, Detail: "malformed GPX file", Err: err}
	}

	var waypoints []Waypoint
	for _, pt := range doc.Waypoints {
		if wp, ok := gpxToWaypoint(pt); ok {
			waypoints = append(waypoints, wp)
		}
	}
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				if wp, ok := gpxToWaypoint(pt); ok {
					waypoints = append(waypoints, wp)
				}
			}
		}
	}

	if len(waypoints) == 0 {
		return nil, &ParseError{Reason: ReasonNoWaypoints, Detail: "no valid waypoints found in GPX file"}
	}

	return waypoints, nil
}

func gpxToWaypoint(pt gpxPoint) (Waypoint, bool) {
	lat, latErr := strconv.ParseFloat(pt.Lat, 64)
	lon, lonErr := strconv.ParseFloat(pt.Lon, 64)
	if latErr != nil || lonErr != nil {
		return Waypoint{}, false
	}

	name := pt.Name
	if name == "" {
		name = pt.Comment
	}

	return Waypoint{
		Point:   geo.Point{Lat: lat, Lon: lon},
		Name:    name,
		Address: pt.Description,
	}, true
}
