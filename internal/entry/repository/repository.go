// Package repository persists the append-only entry ledger.
package repository

import (
	"context"
	"time"

	"venue-pulse/backend/internal/entry/domain"
)

// Repository is the append-only, sorted-on-read entry ledger. Append is the
// only write path; past entries are never mutated.
type Repository interface {
	// Append stores the entry. Idempotent by ID: appending an entry whose ID
	// already exists is a no-op, not an error.
	Append(ctx context.Context, e *domain.Entry) error
	// Fetch returns the entries inside the half-open range [rng.Start,
	// rng.End), sorted by (timestamp, id). locationID and deviceID filter
	// when non-empty.
	Fetch(ctx context.Context, rng domain.TimeRange, locationID, deviceID string) ([]*domain.Entry, error)
	// LastSeen returns the newest event timestamp for a location (and
	// optionally one device), or nil when none was ever recorded. It returns
	// an error only for storage failures.
	LastSeen(ctx context.Context, locationID, deviceID string) (*time.Time, error)
}
