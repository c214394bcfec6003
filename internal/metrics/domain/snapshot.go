// Package domain holds the aggregated occupancy snapshot value object.
package domain

import (
	"time"

	entrydomain "venue-pulse/backend/internal/entry/domain"
)

// MetricsSnapshot is an immutable aggregate over one time range. It is
// produced fresh on each query; the entry ledger stays the source of truth.
type MetricsSnapshot struct {
	LocationID string
	Range      entrydomain.TimeRange
	// TotalIn and TotalOut count entry and exit events inside the range.
	TotalIn  int
	TotalOut int
	// NetChange is TotalIn - TotalOut; it may be negative on drain-heavy data.
	NetChange int
	// DaysCovered is the number of distinct calendar days (in each event's
	// local zone) touched by at least one event.
	DaysCovered int
	// AvgEntriesPerDay is TotalIn / DaysCovered, 0 when no day was covered.
	AvgEntriesPerDay float64
	// AvgOccupancy is the time-weighted occupancy ratio in [0.0, 1.0].
	// It is a ratio, not a percentage.
	AvgOccupancy float64
	// PeakCount is the maximum occupancy seen at any point, clamped to
	// capacity. PeakAt is the first timestamp that reached it; nil when the
	// range has no events.
	PeakCount int
	PeakAt    *time.Time
}
