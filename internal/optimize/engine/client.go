// Package engine provides an HTTP client for the external route optimization
// engine.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/routeops/routeops/internal/api/middleware"
	"github.com/routeops/routeops/internal/geo"
	"github.com/routeops/routeops/internal/optimize"
	"github.com/routeops/routeops/internal/upstream"
)

const (
	// ClientName identifies this client for circuit breaker naming.
	ClientName = "optimization-engine"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the engine client.
type ClientConfig struct {
	// BaseURL is the engine's base URL (required).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Metrics records per-call duration and outcome (optional).
	Metrics *middleware.EngineMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client calls the external optimization engine over HTTP.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	metrics    *middleware.EngineMetrics
	logger     zerolog.Logger
}

var _ optimize.Engine = (*Client)(nil)

// NewClient creates a new optimization engine client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = upstream.NewClient(upstream.ClientConfig{
			Name:    ClientName,
			Timeout: timeout,
		})
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Optimize submits a stop sequence to the engine and returns the reordered
// sequence with the engine's own metrics. The engine's output is trusted
// verbatim; no local recomputation happens here.
func (c *Client) Optimize(ctx context.Context, req optimize.OptimizeRequest) (*optimize.OptimizeResult, error) {
	wireReq := optimizeRequest{
		Waypoints: make([]wireWaypoint, len(req.Waypoints)),
		Algorithm: string(req.Algorithm),
	}
	for i, stop := range req.Waypoints {
		wireReq.Waypoints[i] = wireWaypoint{
			Latitude:                 stop.Point.Lat,
			Longitude:                stop.Point.Lon,
			Name:                     stop.Name,
			Address:                  stop.Address,
			ServiceType:              stop.ServiceType,
			EstimatedDurationMinutes: stop.EstimatedServiceMinutes,
		}
	}

	c.logger.Debug().
		Int("waypoints", len(req.Waypoints)).
		Str("algorithm", string(req.Algorithm)).
		Msg("requesting optimization from engine")

	var wireResp optimizeResponse
	if err := c.post(ctx, "/optimize", wireReq, &wireResp); err != nil {
		return nil, err
	}

	result := &optimize.OptimizeResult{
		Waypoints:       make([]optimize.Stop, len(wireResp.OptimizedWaypoints)),
		DistanceKm:      wireResp.DistanceKm,
		DurationMinutes: wireResp.DurationMinutes,
	}
	for i, wp := range wireResp.OptimizedWaypoints {
		result.Waypoints[i] = optimize.Stop{
			Point:                   geo.Point{Lat: wp.Latitude, Lon: wp.Longitude},
			Name:                    wp.Name,
			Address:                 wp.Address,
			ServiceType:             wp.ServiceType,
			EstimatedServiceMinutes: wp.EstimatedDurationMinutes,
		}
	}

	c.logger.Debug().
		Float64("distance_km", result.DistanceKm).
		Int("duration_minutes", result.DurationMinutes).
		Msg("received optimization from engine")

	return result, nil
}

// AnalyzeGaps asks the engine for coverage and efficiency gaps.
func (c *Client) AnalyzeGaps(ctx context.Context, req optimize.GapAnalysisRequest) ([]optimize.GapItem, error) {
	wireReq := gapAnalysisRequest{
		RouteID:    req.RouteID,
		OperatorID: req.OperatorID,
	}

	var wireResp gapAnalysisResponse
	if err := c.post(ctx, "/analyze-gaps", wireReq, &wireResp); err != nil {
		return nil, err
	}

	items := make([]optimize.GapItem, len(wireResp.Gaps))
	for i, gap := range wireResp.Gaps {
		items[i] = optimize.GapItem{
			GapType:              gap.GapType,
			Point:                geo.Point{Lat: gap.Latitude, Lon: gap.Longitude},
			Description:          gap.Description,
			SuggestedImprovement: gap.SuggestedImprovement,
			PotentialSavings:     gap.PotentialSavings,
		}
	}
	return items, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) (err error) {
	if c.metrics != nil {
		start := time.Now()
		defer func() {
			c.metrics.RecordRequest(path, time.Since(start), err)
		}()
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("engine request failed")
		return fmt.Errorf("%w: %v", optimize.ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, respBody); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// handleErrorResponse maps engine error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("engine returned status %d", statusCode)

	var engineErr errorResponse
	if err := json.Unmarshal(body, &engineErr); err == nil {
		if engineErr.Message != "" {
			message = engineErr.Message
		} else if engineErr.Error != "" {
			message = engineErr.Error
		}
	}

	if statusCode >= 500 {
		return fmt.Errorf("%w: %s", optimize.ErrEngineUnavailable, message)
	}
	return &optimize.EngineError{
		StatusCode: statusCode,
		Message:    message,
	}
}
