package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/routeops/routeops/internal/geo"
	"github.com/routeops/routeops/internal/optimize"
)

// mockHTTPClient wraps the httptest server client to satisfy HTTPDoer.
type mockHTTPClient struct {
	client *http.Client
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.client.Do(req)
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})
}

func TestClient_Optimize_Success(t *testing.T) {
	minutes := 15
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/optimize" {
			t.Errorf("expected path /optimize, got %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type 'application/json', got '%s'", r.Header.Get("Content-Type"))
		}

		var req optimizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Algorithm != "nearest_neighbor" {
			t.Errorf("expected algorithm nearest_neighbor, got %s", req.Algorithm)
		}
		if len(req.Waypoints) != 2 {
			t.Fatalf("expected 2 waypoints, got %d", len(req.Waypoints))
		}
		if req.Waypoints[0].Latitude != 52.3702 || req.Waypoints[0].Longitude != 4.8952 {
			t.Errorf("first waypoint coordinates wrong: %+v", req.Waypoints[0])
		}
		if req.Waypoints[1].EstimatedDurationMinutes == nil || *req.Waypoints[1].EstimatedDurationMinutes != 15 {
			t.Errorf("service minutes not carried through: %+v", req.Waypoints[1])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"optimized_waypoints": [
				{"latitude": 52.0907, "longitude": 5.1214, "name": "Drop 1", "estimated_duration_minutes": 15},
				{"latitude": 52.3702, "longitude": 4.8952, "name": "Depot"}
			],
			"distance_km": 34.21,
			"duration_minutes": 56
		}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	result, err := client.Optimize(context.Background(), optimize.OptimizeRequest{
		Waypoints: []optimize.Stop{
			{Point: geo.Point{Lat: 52.3702, Lon: 4.8952}, Name: "Depot"},
			{Point: geo.Point{Lat: 52.0907, Lon: 5.1214}, Name: "Drop 1", EstimatedServiceMinutes: &minutes},
		},
		Algorithm: optimize.AlgorithmNearestNeighbor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.DistanceKm != 34.21 {
		t.Errorf("expected distance 34.21, got %v", result.DistanceKm)
	}
	if result.DurationMinutes != 56 {
		t.Errorf("expected duration 56, got %d", result.DurationMinutes)
	}
	if len(result.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(result.Waypoints))
	}
	if result.Waypoints[0].Name != "Drop 1" {
		t.Errorf("expected engine ordering preserved, first stop %q", result.Waypoints[0].Name)
	}
	if result.Waypoints[0].Point.Lat != 52.0907 || result.Waypoints[0].Point.Lon != 5.1214 {
		t.Errorf("first waypoint coordinates wrong: %+v", result.Waypoints[0].Point)
	}
	if result.Waypoints[0].EstimatedServiceMinutes == nil || *result.Waypoints[0].EstimatedServiceMinutes != 15 {
		t.Errorf("service minutes not round-tripped: %+v", result.Waypoints[0])
	}
}

func TestClient_Optimize_BadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_request", "message": "at least 2 waypoints required"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Optimize(context.Background(), optimize.OptimizeRequest{
		Algorithm: optimize.AlgorithmNearestNeighbor,
	})

	var engineErr *optimize.EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("expected EngineError, got %v", err)
	}
	if engineErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", engineErr.StatusCode)
	}
	if engineErr.Message != "at least 2 waypoints required" {
		t.Errorf("expected engine message carried through, got %q", engineErr.Message)
	}
}

func TestClient_Optimize_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "solver_crashed"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Optimize(context.Background(), optimize.OptimizeRequest{
		Algorithm: optimize.AlgorithmNearestNeighbor,
	})

	if !errors.Is(err, optimize.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable for 5xx, got %v", err)
	}
}

func TestClient_Optimize_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from now on

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: http.DefaultClient},
		Logger:     zerolog.Nop(),
	})

	_, err := client.Optimize(context.Background(), optimize.OptimizeRequest{
		Algorithm: optimize.AlgorithmNearestNeighbor,
	})
	if !errors.Is(err, optimize.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable for network failure, got %v", err)
	}
}

func TestClient_AnalyzeGaps_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze-gaps" {
			t.Errorf("expected path /analyze-gaps, got %s", r.URL.Path)
		}

		var req gapAnalysisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.RouteID != "rt_abc" || req.OperatorID != "op_1" {
			t.Errorf("request identifiers wrong: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"gaps": [
				{
					"gap_type": "coverage",
					"latitude": 52.1,
					"longitude": 4.9,
					"description": "Unserved residential cluster",
					"suggested_improvement": "Add a stop near Leiden Noord",
					"potential_savings": 12.5
				}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	items, err := client.AnalyzeGaps(context.Background(), optimize.GapAnalysisRequest{
		RouteID:    "rt_abc",
		OperatorID: "op_1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(items))
	}
	gap := items[0]
	if gap.GapType != "coverage" {
		t.Errorf("expected gap_type coverage, got %s", gap.GapType)
	}
	if gap.Point.Lat != 52.1 || gap.Point.Lon != 4.9 {
		t.Errorf("gap coordinates wrong: %+v", gap.Point)
	}
	if gap.PotentialSavings != 12.5 {
		t.Errorf("expected savings 12.5, got %v", gap.PotentialSavings)
	}
}

func TestClient_AnalyzeGaps_EmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"gaps": []}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	items, err := client.AnalyzeGaps(context.Background(), optimize.GapAnalysisRequest{
		RouteID:    "rt_abc",
		OperatorID: "op_1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no gaps, got %d", len(items))
	}
}
