package optimize

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu            sync.RWMutex
	optimizations []*RouteOptimization
	gaps          []*GapAnalysis

	// FailGapAfter, when non-negative, makes CreateGap fail once that many
	// gaps have been stored. Used to exercise partial-failure behavior.
	FailGapAfter int
	GapError     error
}

// NewInMemoryRepository creates a new in-memory optimization repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{FailGapAfter: -1}
}

// CreateOptimization persists one immutable optimization record.
func (r *InMemoryRepository) CreateOptimization(_ context.Context, record *RouteOptimization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *record
	r.optimizations = append(r.optimizations, &cpy)
	return nil
}

// ListOptimizations retrieves a route's optimization history, newest first.
func (r *InMemoryRepository) ListOptimizations(_ context.Context, routeID string, limit int) ([]*RouteOptimization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var records []*RouteOptimization
	for _, record := range r.optimizations {
		if record.RouteID == routeID {
			cpy := *record
			records = append(records, &cpy)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// CreateGap persists one gap record.
func (r *InMemoryRepository) CreateGap(_ context.Context, gap *GapAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailGapAfter >= 0 && len(r.gaps) >= r.FailGapAfter {
		return r.GapError
	}

	cpy := *gap
	r.gaps = append(r.gaps, &cpy)
	return nil
}

// ListGaps retrieves an operator's gap records by potential savings descending.
func (r *InMemoryRepository) ListGaps(_ context.Context, operatorID string, limit int) ([]*GapAnalysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var gaps []*GapAnalysis
	for _, gap := range r.gaps {
		if gap.OperatorID == operatorID {
			cpy := *gap
			gaps = append(gaps, &cpy)
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].PotentialSavings > gaps[j].PotentialSavings
	})

	if len(gaps) > limit {
		gaps = gaps[:limit]
	}
	return gaps, nil
}

// GapCount returns the number of stored gap records.
func (r *InMemoryRepository) GapCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.gaps)
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
