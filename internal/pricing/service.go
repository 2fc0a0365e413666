package pricing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/routeops/routeops/internal/api/models"
	"github.com/routeops/routeops/internal/geo"
)

// Service computes pricing statistics and market comparisons.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService creates a new pricing service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Record stores a new price observation for an operator.
func (s *Service) Record(ctx context.Context, operatorID string, req models.ObservationCreateRequest) (*models.Observation, error) {
	point := geo.Point{Lat: req.Latitude, Lon: req.Longitude}
	if err := point.Validate(); err != nil {
		return nil, &ValidationError{Field: "location", Message: err.Error()}
	}
	if req.JobType == "" {
		return nil, &ValidationError{Field: "job_type", Message: "job_type is required"}
	}
	if req.Price <= 0 {
		return nil, &ValidationError{Field: "price", Message: "price must be positive"}
	}

	obs := &Observation{
		ID:         "obs_" + uuid.New().String()[:22],
		OperatorID: operatorID,
		JobType:    req.JobType,
		Price:      req.Price,
		Point:      point,
		Timestamp:  time.Now(),
	}
	if err := s.repo.Create(ctx, obs); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("operator_id", operatorID).
		Str("job_type", req.JobType).
		Float64("price", req.Price).
		Msg("price observation recorded")

	return toAPIObservation(obs), nil
}

// Recommend returns descriptive statistics over all observations of a job
// type within the default radius of the target point. An empty sample yields
// a null recommendation, not an error.
func (s *Service) Recommend(ctx context.Context, jobType string, center geo.Point) (*models.PricingRecommendation, error) {
	if err := center.Validate(); err != nil {
		return nil, &ValidationError{Field: "location", Message: err.Error()}
	}
	if jobType == "" {
		return nil, &ValidationError{Field: "job_type", Message: "job_type is required"}
	}

	observations, err := s.repo.WithinRadius(ctx, RadiusQuery{
		JobType:  jobType,
		Center:   center,
		RadiusKm: DefaultRadiusKm,
		Limit:    MaxSampleSize,
	})
	if err != nil {
		return nil, err
	}

	if len(observations) == 0 {
		return &models.PricingRecommendation{
			Recommendation: nil,
			Message:        "no pricing data available for this job type in this area",
		}, nil
	}

	prices := make([]float64, len(observations))
	for i, obs := range observations {
		prices[i] = obs.Price
	}

	return &models.PricingRecommendation{
		Recommendation: &models.PriceStats{
			Average:    mean(prices),
			Median:     median(prices),
			Min:        minOf(prices),
			Max:        maxOf(prices),
			SampleSize: len(prices),
		},
	}, nil
}

// Compare splits the radius sample into the operator's own observations and
// everyone else's, and bands the operator's average against the market.
func (s *Service) Compare(ctx context.Context, operatorID string, req models.CompareRequest) (*models.PricingComparison, error) {
	center := geo.Point{Lat: req.Latitude, Lon: req.Longitude}
	if err := center.Validate(); err != nil {
		return nil, &ValidationError{Field: "location", Message: err.Error()}
	}
	if req.JobType == "" {
		return nil, &ValidationError{Field: "job_type", Message: "job_type is required"}
	}

	own, err := s.repo.WithinRadius(ctx, RadiusQuery{
		JobType:    req.JobType,
		Center:     center,
		RadiusKm:   DefaultRadiusKm,
		Limit:      MaxSampleSize,
		OperatorID: operatorID,
	})
	if err != nil {
		return nil, err
	}

	market, err := s.repo.WithinRadius(ctx, RadiusQuery{
		JobType:         req.JobType,
		Center:          center,
		RadiusKm:        DefaultRadiusKm,
		Limit:           MaxSampleSize,
		OperatorID:      operatorID,
		ExcludeOperator: true,
	})
	if err != nil {
		return nil, err
	}

	result := &models.PricingComparison{
		Operator: groupAverage(own),
		Market:   groupAverage(market),
	}

	if result.Operator.Average != nil && result.Market.Average != nil {
		ownAvg, marketAvg := *result.Operator.Average, *result.Market.Average
		switch {
		case ownAvg > marketAvg*highBandRatio:
			result.Recommendation = RecommendationHigh
		case ownAvg < marketAvg*lowBandRatio:
			result.Recommendation = RecommendationLow
		default:
			result.Recommendation = RecommendationCompetitive
		}
	}

	return result, nil
}

// History lists an operator's own observations, newest first.
func (s *Service) History(ctx context.Context, operatorID string, limit int) (*models.ObservationList, error) {
	if limit <= 0 {
		limit = MaxSampleSize
	}
	observations, err := s.repo.ListByOperator(ctx, operatorID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]models.Observation, 0, len(observations))
	for _, obs := range observations {
		items = append(items, *toAPIObservation(obs))
	}
	return &models.ObservationList{Items: items}, nil
}

// ValidationError reports a user-correctable input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func groupAverage(observations []*Observation) models.GroupAverage {
	if len(observations) == 0 {
		return models.GroupAverage{Average: nil, SampleSize: 0}
	}
	prices := make([]float64, len(observations))
	for i, obs := range observations {
		prices[i] = obs.Price
	}
	avg := mean(prices)
	return models.GroupAverage{Average: &avg, SampleSize: len(prices)}
}

func mean(prices []float64) float64 {
	var sum float64
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

// median uses the midpoint-average rule for even-length samples.
func median(prices []float64) float64 {
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minOf(prices []float64) float64 {
	m := prices[0]
	for _, p := range prices[1:] {
		if p < m {
			m = p
		}
	}
	return m
}

func maxOf(prices []float64) float64 {
	m := prices[0]
	for _, p := range prices[1:] {
		if p > m {
			m = p
		}
	}
	return m
}

func toAPIObservation(obs *Observation) *models.Observation {
	return &models.Observation{
		ID:        obs.ID,
		JobType:   obs.JobType,
		Price:     obs.Price,
		Latitude:  obs.Point.Lat,
		Longitude: obs.Point.Lon,
		Timestamp: obs.Timestamp,
	}
}
