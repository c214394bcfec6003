package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"venue-pulse/backend/internal/device/domain"
)

// MemoryRepository is an in-memory Repository used by tests and local runs
// without a database.
type MemoryRepository struct {
	mu      sync.RWMutex
	devices map[string]*domain.Device
}

// NewMemoryRepository returns an empty in-memory device registry.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{devices: make(map[string]*domain.Device)}
}

// GetByID returns the device for id, or nil if not found.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[id]
	if !ok {
		return nil, nil
	}
	return copyDevice(d), nil
}

// ListByLocation returns all devices assigned to the given location, ordered by id.
func (r *MemoryRepository) ListByLocation(ctx context.Context, locationID string) ([]*domain.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Device
	for _, d := range r.devices {
		if d.LocationID != locationID {
			continue
		}
		out = append(out, copyDevice(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Save upserts the device by ID.
func (r *MemoryRepository) Save(ctx context.Context, d *domain.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[d.ID] = copyDevice(d)
	return nil
}

// Touch upserts the device and moves LastSeenAt forward, ignoring timestamps
// older than the stored value.
func (r *MemoryRepository) Touch(ctx context.Context, id, locationID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		ts := at
		r.devices[id] = &domain.Device{ID: id, LocationID: locationID, LastSeenAt: &ts, CreatedAt: at}
		return nil
	}
	if d.LastSeenAt == nil || at.After(*d.LastSeenAt) {
		ts := at
		d.LastSeenAt = &ts
	}
	return nil
}

func copyDevice(d *domain.Device) *domain.Device {
	copied := *d
	if d.LastSeenAt != nil {
		ts := *d.LastSeenAt
		copied.LastSeenAt = &ts
	}
	return &copied
}
