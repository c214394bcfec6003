// Package domain holds the live counter snapshot value object.
package domain

import (
	"time"

	integritydomain "venue-pulse/backend/internal/integrity/domain"
)

// Status grades how close a venue is to capacity.
type Status string

const (
	StatusOk      Status = "ok"
	StatusWarning Status = "warning"
	StatusFull    Status = "full"
)

// CounterState is one immutable emission of the live aggregator. Consumers
// may hold on to any number of them; later emissions never mutate earlier
// ones.
type CounterState struct {
	LocationID string
	// CurrentCount is the live occupancy, clamped at zero.
	CurrentCount int
	Capacity     int
	// OccupancyRatio is CurrentCount / Capacity, 0 when capacity is unset.
	OccupancyRatio float64
	Status         Status
	LastEventAt    *time.Time

	// WindowEntries, WindowExits, and WindowNet aggregate the rolling window.
	WindowEntries int
	WindowExits   int
	WindowNet     int

	// Issues, Signals, and Coverage are classified over the rolling window
	// only, not full history.
	Issues   []integritydomain.DataIntegrityIssue
	Signals  []integritydomain.DataFlowSignal
	Coverage integritydomain.CoverageWindow
}
