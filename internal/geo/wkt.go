package geo

import (
	"strconv"
	"strings"
)

// WKT returns the point as well-known text in (lon lat) order, the
// coordinate order PostGIS expects for SRID 4326 geometries.
func (p Point) WKT() string {
	var b strings.Builder
	b.WriteString("POINT(")
	writeCoord(&b, p)
	b.WriteString(")")
	return b.String()
}

// LineStringWKT returns the sequence as a well-known-text LINESTRING in
// (lon lat) order.
func LineStringWKT(points []Point) string {
	var b strings.Builder
	b.WriteString("LINESTRING(")
	for i, p := range points {
		if i > 0 {
			b.WriteString(", ")
		}
		writeCoord(&b, p)
	}
	b.WriteString(")")
	return b.String()
}

func writeCoord(b *strings.Builder, p Point) {
	b.WriteString(strconv.FormatFloat(p.Lon, 'f', -1, 64))
	b.WriteString(" ")
	b.WriteString(strconv.FormatFloat(p.Lat, 'f', -1, 64))
}
