package repository

import (
	"context"
	"sort"
	"sync"

	"venue-pulse/backend/internal/location/domain"
)

// MemoryRepository is an in-memory Repository for tests and local runs.
type MemoryRepository struct {
	mu sync.RWMutex
	m  map[string]*domain.Location
}

// NewMemoryRepository returns an empty in-memory location repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{m: make(map[string]*domain.Location)}
}

// GetByID returns the location for id, or nil if not found.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	copied := *loc
	return &copied, nil
}

// List returns all locations ordered by name.
func (r *MemoryRepository) List(ctx context.Context) ([]*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Location, 0, len(r.m))
	for _, loc := range r.m {
		copied := *loc
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Create stores the location unless its ID already exists.
func (r *MemoryRepository) Create(ctx context.Context, loc *domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.m[loc.ID]; dup {
		return nil
	}
	copied := *loc
	r.m[copied.ID] = &copied
	return nil
}
