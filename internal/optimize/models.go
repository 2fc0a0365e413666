// Package optimize coordinates route optimization with the external
// optimization engine and reconciles results into persisted state.
package optimize

import (
	"context"
	"errors"
	"time"

	"github.com/routeops/routeops/internal/geo"
)

// Sentinel errors for optimization operations.
var (
	// ErrEngineUnavailable indicates the optimization engine could not be
	// reached (connection failure, timeout, or open circuit). Callers may
	// treat this as transient and retry.
	ErrEngineUnavailable = errors.New("optimization engine unavailable")

	// ErrInvalidAlgorithm indicates an algorithm the engine does not support.
	ErrInvalidAlgorithm = errors.New("unsupported optimization algorithm")
)

// EngineError is a service-level error payload returned by the engine.
// Unlike ErrEngineUnavailable it is not retryable: the engine received the
// request and rejected it.
type EngineError struct {
	StatusCode int
	Message    string
}

func (e *EngineError) Error() string {
	return "optimization engine error: " + e.Message
}

// Algorithm identifies a reordering strategy owned by the engine.
type Algorithm string

// Supported algorithms. The engine owns the implementations; this service
// treats them as opaque names.
const (
	AlgorithmNearestNeighbor    Algorithm = "nearest_neighbor"
	AlgorithmGenetic            Algorithm = "genetic"
	AlgorithmSimulatedAnnealing Algorithm = "simulated_annealing"

	DefaultAlgorithm = AlgorithmNearestNeighbor
)

// ValidAlgorithm reports whether name is a known algorithm.
func ValidAlgorithm(name Algorithm) bool {
	switch name {
	case AlgorithmNearestNeighbor, AlgorithmGenetic, AlgorithmSimulatedAnnealing:
		return true
	}
	return false
}

// Stop is one waypoint exchanged with the optimization engine.
type Stop struct {
	Point                   geo.Point
	Name                    string
	Address                 string
	ServiceType             string
	EstimatedServiceMinutes *int
}

// OptimizeRequest is the payload submitted to the engine.
type OptimizeRequest struct {
	Waypoints []Stop
	Algorithm Algorithm
}

// OptimizeResult is the engine's reordered sequence plus its metrics.
type OptimizeResult struct {
	Waypoints       []Stop
	DistanceKm      float64
	DurationMinutes int
}

// GapAnalysisRequest asks the engine for coverage/routing gaps.
type GapAnalysisRequest struct {
	RouteID    string
	OperatorID string
}

// GapItem is one gap surfaced by the engine.
type GapItem struct {
	GapType              string
	Point                geo.Point
	Description          string
	SuggestedImprovement string
	PotentialSavings     float64
}

// Engine is the external optimization service. The production implementation
// is an HTTP client; tests use an in-memory stub.
type Engine interface {
	// Optimize submits a stop sequence and returns the reordered sequence
	// with the engine's metrics.
	Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error)

	// AnalyzeGaps returns advisory gap items for a route.
	AnalyzeGaps(ctx context.Context, req GapAnalysisRequest) ([]GapItem, error)
}

// RouteOptimization is one immutable optimization attempt. Records are never
// mutated after creation; corrections require a new record.
type RouteOptimization struct {
	ID                       string
	RouteID                  string
	Algorithm                Algorithm
	OriginalDistanceKm       float64
	OptimizedDistanceKm      float64
	OriginalDurationMinutes  int
	OptimizedDurationMinutes int
	SavingsPercentage        float64
	OptimizedPath            []geo.Point
	CreatedAt                time.Time
}

// GapAnalysis is one persisted gap record, written verbatim per engine item.
type GapAnalysis struct {
	ID                   string
	OperatorID           string
	RouteID              string
	GapType              string
	Point                geo.Point
	Description          string
	SuggestedImprovement string
	PotentialSavings     float64
	CreatedAt            time.Time
}

// SavingsPercentage computes the distance saving of an optimization run.
// Defined as 0 when the original distance is 0 to avoid division by zero.
func SavingsPercentage(originalKm, optimizedKm float64) float64 {
	if originalKm == 0 {
		return 0
	}
	return (originalKm - optimizedKm) / originalKm * 100
}
