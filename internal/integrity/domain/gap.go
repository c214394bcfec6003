package domain

import (
	"time"

	entrydomain "venue-pulse/backend/internal/entry/domain"
)

// ClassifiedGap is the interval between two consecutive events, graded by its
// duration.
type ClassifiedGap struct {
	Interval entrydomain.TimeRange
	Duration time.Duration
	Severity Severity
}

// CoverageWindow describes how well a period is covered by events: the span
// between the first and last event, and the gaps worth surfacing as coverage
// problems (warning and critical only).
type CoverageWindow struct {
	Start time.Time
	End   time.Time
	Gaps  []ClassifiedGap
}
