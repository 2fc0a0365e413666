package route

import (
	"math"
	"testing"

	"github.com/routeops/routeops/internal/geo"
)

func intPtr(v int) *int { return &v }

func TestDistance_FewerThanTwoStops(t *testing.T) {
	if got := Distance(nil); got != 0 {
		t.Errorf("Distance(nil) = %v, want 0", got)
	}
	if got := Distance([]geo.Point{{Lat: 52.0, Lon: 4.0}}); got != 0 {
		t.Errorf("Distance(single) = %v, want 0", got)
	}
}

func TestDistance_SymmetricUnderReversal(t *testing.T) {
	points := []geo.Point{
		{Lat: 52.370216, Lon: 4.895168},
		{Lat: 52.090736, Lon: 5.121420},
		{Lat: 51.922500, Lon: 4.479170},
	}
	reversed := []geo.Point{points[2], points[1], points[0]}

	if fwd, rev := Distance(points), Distance(reversed); fwd != rev {
		t.Errorf("distance not symmetric under reversal: %v vs %v", fwd, rev)
	}
}

func TestDistance_RepeatedPointIsZero(t *testing.T) {
	p := geo.Point{Lat: 52.0, Lon: 4.0}
	if got := Distance([]geo.Point{p, p, p}); got != 0 {
		t.Errorf("Distance(repeated point) = %v, want 0", got)
	}
}

func TestDistance_RoundedOnceToTwoDecimals(t *testing.T) {
	points := []geo.Point{
		{Lat: 52.370216, Lon: 4.895168},
		{Lat: 52.090736, Lon: 5.121420},
		{Lat: 51.922500, Lon: 4.479170},
	}

	got := Distance(points)
	if got != math.Round(got*100)/100 {
		t.Errorf("Distance() = %v, not rounded to 2 decimals", got)
	}

	// Round-once must equal the sum of unrounded segments, rounded at the end.
	want := math.Round((geo.DistanceKm(points[0], points[1])+geo.DistanceKm(points[1], points[2]))*100) / 100
	if got != want {
		t.Errorf("Distance() = %v, want %v", got, want)
	}
}

func TestDuration_FewerThanTwoStops(t *testing.T) {
	if got := Duration(nil, DefaultAverageSpeedKmh); got != 0 {
		t.Errorf("Duration(nil) = %v, want 0", got)
	}
	wps := []Waypoint{{Point: geo.Point{Lat: 52.0, Lon: 4.0}, EstimatedServiceMinutes: intPtr(45)}}
	if got := Duration(wps, DefaultAverageSpeedKmh); got != 0 {
		t.Errorf("Duration(single) = %v, want 0", got)
	}
}

func TestDuration_ServiceTimeAtDestinationOnly(t *testing.T) {
	// Two co-located stops: no travel time, service at destination only.
	p := geo.Point{Lat: 52.0, Lon: 4.0}

	tests := []struct {
		name      string
		waypoints []Waypoint
		want      int
	}{
		{
			name: "default service time at destination",
			waypoints: []Waypoint{
				{Point: p},
				{Point: p},
			},
			want: DefaultServiceMinutes,
		},
		{
			name: "declared service time at destination",
			waypoints: []Waypoint{
				{Point: p, EstimatedServiceMinutes: intPtr(90)}, // first stop contributes nothing
				{Point: p, EstimatedServiceMinutes: intPtr(15)},
			},
			want: 15,
		},
		{
			name: "mixed declared and default",
			waypoints: []Waypoint{
				{Point: p},
				{Point: p, EstimatedServiceMinutes: intPtr(10)},
				{Point: p},
			},
			want: 10 + DefaultServiceMinutes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(tt.waypoints, DefaultAverageSpeedKmh); got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDuration_TravelPlusService(t *testing.T) {
	a := geo.Point{Lat: 52.370216, Lon: 4.895168}
	b := geo.Point{Lat: 52.090736, Lon: 5.121420}

	waypoints := []Waypoint{
		{Point: a},
		{Point: b, EstimatedServiceMinutes: intPtr(20)},
	}

	travel := (geo.DistanceKm(a, b) / DefaultAverageSpeedKmh) * 60
	want := int(math.Round(travel + 20))

	if got := Duration(waypoints, DefaultAverageSpeedKmh); got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
}
