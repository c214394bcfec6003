package domain

import "time"

// RangeKind is the preset a time range was built from. It drives bucket
// granularity when periods are compared (hour buckets for a day, day buckets
// for a week or month, month buckets for a year).
type RangeKind string

const (
	RangeDay    RangeKind = "day"
	RangeWeek   RangeKind = "week"
	RangeMonth  RangeKind = "month"
	RangeYear   RangeKind = "year"
	RangeCustom RangeKind = "custom"
)

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Kind  RangeKind
	Start time.Time
	End   time.Time
}

// Duration returns End - Start. Zero or negative means the range is degenerate.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Contains reports whether t falls inside [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// PreviousPeriod returns the same-duration window ending exactly where this
// one starts, keeping the preset kind.
func (r TimeRange) PreviousPeriod() TimeRange {
	d := r.Duration()
	return TimeRange{Kind: r.Kind, Start: r.Start.Add(-d), End: r.Start}
}

// RangeForKind builds the preset window of the given kind ending at now.
// Custom falls back to a day.
func RangeForKind(kind RangeKind, now time.Time) TimeRange {
	var d time.Duration
	switch kind {
	case RangeWeek:
		d = 7 * 24 * time.Hour
	case RangeMonth:
		d = 30 * 24 * time.Hour
	case RangeYear:
		d = 365 * 24 * time.Hour
	default:
		d = 24 * time.Hour
	}
	return TimeRange{Kind: kind, Start: now.Add(-d), End: now}
}
