package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		wantKm float64
		tolKm  float64
	}{
		{
			name:   "same point",
			a:      Point{Lat: 52.370216, Lon: 4.895168},
			b:      Point{Lat: 52.370216, Lon: 4.895168},
			wantKm: 0,
			tolKm:  0.0001,
		},
		{
			name:   "amsterdam to utrecht",
			a:      Point{Lat: 52.3676, Lon: 4.9041},
			b:      Point{Lat: 52.0907, Lon: 5.1214},
			wantKm: 34.2,
			tolKm:  1.0,
		},
		{
			name:   "across the equator",
			a:      Point{Lat: 1.0, Lon: 0.0},
			b:      Point{Lat: -1.0, Lon: 0.0},
			wantKm: 222.4,
			tolKm:  0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("DistanceKm() = %v, want %v ± %v", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Point{Lat: 48.8566, Lon: 2.3522}
	b := Point{Lat: 51.5074, Lon: -0.1278}

	if got, rev := DistanceKm(a, b), DistanceKm(b, a); got != rev {
		t.Errorf("distance not symmetric: %v vs %v", got, rev)
	}
}

func TestPoint_Validate(t *testing.T) {
	tests := []struct {
		name    string
		point   Point
		wantErr bool
	}{
		{"valid", Point{Lat: 52.0, Lon: 4.0}, false},
		{"lat boundary", Point{Lat: 90, Lon: 180}, false},
		{"lat too high", Point{Lat: 90.0001, Lon: 0}, true},
		{"lat too low", Point{Lat: -91, Lon: 0}, true},
		{"lon too high", Point{Lat: 0, Lon: 180.5}, true},
		{"lon too low", Point{Lat: 0, Lon: -181}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.point.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
