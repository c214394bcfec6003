package repository

import (
	"context"
	"sync"
	"time"

	"venue-pulse/backend/internal/entry/domain"
)

// MemoryRepository is an in-memory Repository used by tests and local runs
// without a database. Appends serialize on a mutex, preserving per-location
// event order for deterministic replay.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Entry
	entries []*domain.Entry
}

// NewMemoryRepository returns an empty in-memory ledger.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*domain.Entry)}
}

// Append stores the entry unless its ID was already appended.
func (r *MemoryRepository) Append(ctx context.Context, e *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byID[e.ID]; dup {
		return nil
	}
	stored := *e
	r.byID[stored.ID] = &stored
	r.entries = append(r.entries, &stored)
	return nil
}

// Fetch returns matching entries sorted by (timestamp, id).
func (r *MemoryRepository) Fetch(ctx context.Context, rng domain.TimeRange, locationID, deviceID string) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Entry
	for _, e := range r.entries {
		if !rng.Contains(e.Timestamp) {
			continue
		}
		if locationID != "" && e.LocationID != locationID {
			continue
		}
		if deviceID != "" && e.DeviceID != deviceID {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	domain.SortChronological(out)
	return out, nil
}

// LastSeen returns the newest event timestamp for the filters, or nil when
// nothing matches.
func (r *MemoryRepository) LastSeen(ctx context.Context, locationID, deviceID string) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last *time.Time
	for _, e := range r.entries {
		if locationID != "" && e.LocationID != locationID {
			continue
		}
		if deviceID != "" && e.DeviceID != deviceID {
			continue
		}
		if last == nil || e.Timestamp.After(*last) {
			ts := e.Timestamp
			last = &ts
		}
	}
	return last, nil
}
