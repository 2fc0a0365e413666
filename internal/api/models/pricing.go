package models

import "time"

// ObservationCreateRequest is the request body for POST /v1/pricing/observations.
type ObservationCreateRequest struct {
	JobType   string  `json:"job_type"`
	Price     float64 `json:"price"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Observation is one historical price observation.
type Observation struct {
	ID        string    `json:"id"`
	JobType   string    `json:"job_type"`
	Price     float64   `json:"price"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// ObservationList is the response for GET /v1/pricing/history.
type ObservationList struct {
	Items []Observation `json:"items"`
}

// PriceStats holds descriptive statistics over a price sample.
type PriceStats struct {
	Average    float64 `json:"average"`
	Median     float64 `json:"median"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	SampleSize int     `json:"sample_size"`
}

// PricingRecommendation is the response for GET /v1/pricing/recommendations.
// Recommendation is null when no observations fall within the query radius.
type PricingRecommendation struct {
	Recommendation *PriceStats `json:"recommendation"`
	Message        string      `json:"message,omitempty"`
}

// CompareRequest is the request body for POST /v1/pricing/analyze.
type CompareRequest struct {
	JobType   string  `json:"job_type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GroupAverage is the per-group result of a market comparison. Average is
// null when the group has no observations in range.
type GroupAverage struct {
	Average    *float64 `json:"average"`
	SampleSize int      `json:"sample_size"`
}

// PricingComparison is the response for POST /v1/pricing/analyze.
type PricingComparison struct {
	Operator       GroupAverage `json:"operator_pricing"`
	Market         GroupAverage `json:"market_pricing"`
	Recommendation string       `json:"recommendation,omitempty"`
}
