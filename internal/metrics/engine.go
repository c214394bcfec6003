// Package metrics replays a period of entry events into time-weighted
// occupancy statistics. Compute is a pure function; callers may run it
// concurrently on their own entry slices.
package metrics

import (
	"math"
	"time"

	entrydomain "venue-pulse/backend/internal/entry/domain"
	"venue-pulse/backend/internal/metrics/domain"
)

const (
	// hardIdleThreshold marks a segment inactive regardless of occupancy.
	hardIdleThreshold = 6 * time.Hour
	// softIdleThreshold marks a segment inactive when the venue is near empty.
	softIdleThreshold = 2 * time.Hour
	// idleOccupancyLimit is the bounded count at or below which a soft-idle
	// segment counts as inactive.
	idleOccupancyLimit = 10
)

// Compute replays entries over rng and returns the aggregated snapshot.
// Degenerate inputs (capacity <= 0, no entries in range, zero or negative
// range duration) degrade to a zeroed snapshot instead of failing.
//
// Inactive stretches (>= 6h, or >= 2h with at most 10 people counted) are
// treated as not observed: they contribute to neither the occupancy numerator
// nor the denominator.
func Compute(entries []*entrydomain.Entry, rng entrydomain.TimeRange, capacity int, locationID string) domain.MetricsSnapshot {
	snapshot := domain.MetricsSnapshot{LocationID: locationID, Range: rng}
	if capacity <= 0 || rng.Duration() <= 0 {
		return snapshot
	}

	sorted := make([]*entrydomain.Entry, 0, len(entries))
	for _, e := range entrydomain.Sorted(entries) {
		if rng.Contains(e.Timestamp) {
			sorted = append(sorted, e)
		}
	}
	if len(sorted) == 0 {
		return snapshot
	}

	var (
		count         int // running count, unclamped; ratios and peak use a bounded view
		weightedRatio float64
		activeSeconds float64
		peak          int
		peakAt        *time.Time
		days          = map[string]struct{}{}
	)

	prev := rng.Start
	for _, e := range sorted {
		accumulateSegment(&weightedRatio, &activeSeconds, bound(count, capacity), capacity, e.Timestamp.Sub(prev))
		prev = e.Timestamp

		switch e.Kind {
		case entrydomain.KindIn:
			snapshot.TotalIn++
		case entrydomain.KindOut:
			snapshot.TotalOut++
		}
		count += e.Delta
		if bounded := bound(count, capacity); bounded > peak {
			peak = bounded
			at := e.Timestamp
			peakAt = &at
		}
		days[e.Timestamp.Format("2006-01-02")] = struct{}{}
	}
	accumulateSegment(&weightedRatio, &activeSeconds, bound(count, capacity), capacity, rng.End.Sub(prev))

	snapshot.NetChange = snapshot.TotalIn - snapshot.TotalOut
	snapshot.DaysCovered = len(days)
	if snapshot.DaysCovered > 0 {
		snapshot.AvgEntriesPerDay = float64(snapshot.TotalIn) / float64(snapshot.DaysCovered)
	}
	snapshot.PeakCount = peak
	snapshot.PeakAt = peakAt

	if activeSeconds > 0 {
		snapshot.AvgOccupancy = weightedRatio / activeSeconds
	}
	if math.IsNaN(snapshot.AvgOccupancy) || math.IsInf(snapshot.AvgOccupancy, 0) {
		snapshot.AvgOccupancy = 0
	}
	if snapshot.AvgOccupancy < 0 {
		snapshot.AvgOccupancy = 0
	}
	if snapshot.AvgOccupancy > 1 {
		snapshot.AvgOccupancy = 1
	}
	return snapshot
}

// accumulateSegment adds one inter-event segment to the occupancy average
// unless the segment classifies as inactive.
func accumulateSegment(weightedRatio, activeSeconds *float64, count, capacity int, d time.Duration) {
	if d <= 0 {
		return
	}
	if d >= hardIdleThreshold {
		return
	}
	if d >= softIdleThreshold && count <= idleOccupancyLimit {
		return
	}
	secs := d.Seconds()
	*weightedRatio += float64(count) / float64(capacity) * secs
	*activeSeconds += secs
}

// bound is the [0, capacity] view of the unclamped running count.
func bound(count, capacity int) int {
	if count < 0 {
		return 0
	}
	if count > capacity {
		return capacity
	}
	return count
}
