// Package repository persists counting devices.
package repository

import (
	"context"
	"time"

	"venue-pulse/backend/internal/device/domain"
)

// Repository stores counting devices. GetByID returns (nil, nil) when not
// found; errors are storage failures only.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Device, error)
	ListByLocation(ctx context.Context, locationID string) ([]*domain.Device, error)
	// Save upserts the device by ID.
	Save(ctx context.Context, d *domain.Device) error
	// Touch upserts the device and bumps LastSeenAt when at is newer than the
	// stored value. The live pipeline calls it for every consumed entry, so
	// unregistered devices self-register on first sight.
	Touch(ctx context.Context, id, locationID string, at time.Time) error
}
