package domain

import (
	"time"

	entrydomain "venue-pulse/backend/internal/entry/domain"
)

// SignalKind identifies a soft data-flow signal.
type SignalKind string

const (
	// SignalNegativeDrain means markedly more exits than entries over the
	// range, usually unpaired exit sensors rather than corruption.
	SignalNegativeDrain SignalKind = "negative_drain"
	// SignalInactivityPeriod surfaces an inactivity-classified gap.
	SignalInactivityPeriod SignalKind = "inactivity_period"
	// SignalHighActivity flags unusually dense entry volume.
	SignalHighActivity SignalKind = "high_activity"
)

// DataFlowSignal is a contextual, non-alarming observation about the event
// stream. Signals are never surfaced as alerts.
type DataFlowSignal struct {
	Kind          SignalKind
	Message       string
	DetectedAt    time.Time
	AffectedRange entrydomain.TimeRange
}
