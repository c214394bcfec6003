// Package repository persists venue locations.
package repository

import (
	"context"

	"venue-pulse/backend/internal/location/domain"
)

// Repository stores locations. GetByID returns (nil, nil) when not found;
// errors are storage failures only.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	List(ctx context.Context) ([]*domain.Location, error)
	Create(ctx context.Context, loc *domain.Location) error
}
