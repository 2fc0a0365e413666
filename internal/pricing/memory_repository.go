package pricing

import (
	"context"
	"sort"
	"sync"

	"github.com/routeops/routeops/internal/geo"
)

// InMemoryRepository implements Repository using in-memory storage.
// Used for testing.
type InMemoryRepository struct {
	mu           sync.RWMutex
	observations []*Observation
}

// NewInMemoryRepository creates a new in-memory pricing repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Create appends a new observation.
func (r *InMemoryRepository) Create(_ context.Context, obs *Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *obs
	r.observations = append(r.observations, &stored)
	return nil
}

// WithinRadius filters, orders, and caps observations per the query.
func (r *InMemoryRepository) WithinRadius(_ context.Context, q RadiusQuery) ([]*Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		obs      *Observation
		distance float64
	}

	var matched []scored
	for _, obs := range r.observations {
		if obs.JobType != q.JobType {
			continue
		}
		if q.OperatorID != "" {
			if q.ExcludeOperator && obs.OperatorID == q.OperatorID {
				continue
			}
			if !q.ExcludeOperator && obs.OperatorID != q.OperatorID {
				continue
			}
		}
		d := geo.DistanceKm(q.Center, obs.Point)
		if d > q.RadiusKm {
			continue
		}
		matched = append(matched, scored{obs: obs, distance: d})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].distance != matched[j].distance {
			return matched[i].distance < matched[j].distance
		}
		return matched[i].obs.Timestamp.After(matched[j].obs.Timestamp)
	})

	limit := q.Limit
	if limit <= 0 || limit > len(matched) {
		limit = len(matched)
	}

	result := make([]*Observation, 0, limit)
	for _, m := range matched[:limit] {
		copied := *m.obs
		result = append(result, &copied)
	}
	return result, nil
}

// ListByOperator returns an operator's observations, newest first.
func (r *InMemoryRepository) ListByOperator(_ context.Context, operatorID string, limit int) ([]*Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Observation
	for _, obs := range r.observations {
		if obs.OperatorID == operatorID {
			copied := *obs
			matched = append(matched, &copied)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}
