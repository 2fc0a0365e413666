// Package pricing computes descriptive statistics and market comparisons over
// historical price observations.
package pricing

import (
	"time"

	"github.com/routeops/routeops/internal/geo"
)

const (
	// DefaultRadiusKm is the geodesic radius of the spatial sample query.
	DefaultRadiusKm = 50.0

	// MaxSampleSize caps the number of observations per query.
	MaxSampleSize = 100

	// Market comparison bands. An operator averaging more than 10% above the
	// market is "prices high", more than 10% below is "prices low". Fixed
	// policy constants.
	highBandRatio = 1.10
	lowBandRatio  = 0.90
)

// Recommendation bands returned by Compare.
const (
	RecommendationHigh        = "prices high"
	RecommendationLow         = "prices low"
	RecommendationCompetitive = "competitive"
)

// Observation is one append-only price observation. Observations are never
// mutated or deleted.
type Observation struct {
	ID         string
	OperatorID string
	JobType    string
	Price      float64
	Point      geo.Point
	Timestamp  time.Time
}

// RadiusQuery describes a spatial sample of observations: all records of the
// given job type within RadiusKm of Center, ordered by distance ascending then
// timestamp descending, capped at Limit.
type RadiusQuery struct {
	JobType  string
	Center   geo.Point
	RadiusKm float64
	Limit    int

	// OperatorID scopes the query to one operator's own observations when
	// ExcludeOperator is false, or to everyone else's when true. Empty
	// OperatorID means no operator filter.
	OperatorID      string
	ExcludeOperator bool
}
