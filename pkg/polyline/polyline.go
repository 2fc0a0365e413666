// Package polyline implements Google's encoded polyline algorithm at the
// standard 5-decimal precision. Routes carry their waypoint path in this
// format so clients can render geometry without re-fetching every stop.
// Algorithm reference: https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import "math"

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// Encode encodes an ordered list of points into a polyline string.
func Encode(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	buf := make([]byte, 0, len(points)*4)
	prevLat, prevLon := 0, 0

	for _, p := range points {
		lat := int(math.Round(p.Lat * 1e5))
		lon := int(math.Round(p.Lon * 1e5))

		buf = appendValue(buf, lat-prevLat)
		buf = appendValue(buf, lon-prevLon)

		prevLat, prevLon = lat, lon
	}

	return string(buf)
}

// Decode decodes a polyline string back into points. Malformed trailing
// bytes yield a truncated result rather than an error.
func Decode(encoded string) []Point {
	if encoded == "" {
		return nil
	}

	var points []Point
	index, lat, lon := 0, 0, 0

	for index < len(encoded) {
		latDelta, next := readValue(encoded, index)
		index = next
		lat += latDelta

		lonDelta, next := readValue(encoded, index)
		index = next
		lon += lonDelta

		points = append(points, Point{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return points
}

// appendValue encodes one signed delta in 5-bit chunks.
func appendValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	return append(buf, byte(value)+63)
}

// readValue decodes one signed delta starting at index and returns the
// delta together with the index of the next unread byte.
func readValue(encoded string, index int) (int, int) {
	shift, result := 0, 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}
