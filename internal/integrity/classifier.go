// Package integrity classifies entry streams into hard issues (proven data
// corruption) and soft signals (benign operational patterns). All functions
// are pure and share the (timestamp, id) ordering rule of the replay engine.
package integrity

import (
	"fmt"
	"time"

	entrydomain "venue-pulse/backend/internal/entry/domain"
	"venue-pulse/backend/internal/integrity/domain"
)

const (
	// hardNegativeThreshold is the unclamped running count at or below which
	// a negative excursion counts as proven corruption rather than noise.
	hardNegativeThreshold = -5
	// negativeDrainThreshold is the net change below which a drain signal is
	// emitted.
	negativeDrainThreshold = -10
)

// Validate replays the unclamped running count over entries in rng and
// returns one critical negative-count issue per excursion at or below the
// hard threshold. After each issue the count resets to zero and
// classification continues; this recovery is deliberate and can mask a
// smaller excursion right after a large one. Dips between -1 and -4 are
// transient sensor noise: nothing is emitted and downstream occupancy views
// clamp them to zero.
func Validate(entries []*entrydomain.Entry, rng entrydomain.TimeRange) []domain.DataIntegrityIssue {
	var issues []domain.DataIntegrityIssue

	count := 0
	for _, e := range inRange(entries, rng) {
		count += e.Delta
		if count <= hardNegativeThreshold {
			issues = append(issues, domain.DataIntegrityIssue{
				Kind:       domain.IssueNegativeCount,
				Severity:   domain.SeverityCritical,
				Message:    fmt.Sprintf("occupancy count dropped to %d at device %s", count, e.DeviceID),
				DetectedAt: e.Timestamp,
			})
			count = 0
		}
	}
	return issues
}

// AnalyzeFlowSignals returns the soft signals for entries in rng: a drain
// signal when exits outnumber entries past the threshold, an inactivity
// signal per inactivity-classified gap, and a high-activity signal when the
// configured volume is reached.
func AnalyzeFlowSignals(entries []*entrydomain.Entry, rng entrydomain.TimeRange, cfg domain.Config) []domain.DataFlowSignal {
	var signals []domain.DataFlowSignal

	scoped := inRange(entries, rng)

	totalIn, totalOut := 0, 0
	var lastAt time.Time
	for _, e := range scoped {
		switch e.Kind {
		case entrydomain.KindIn:
			totalIn++
		case entrydomain.KindOut:
			totalOut++
		}
		lastAt = e.Timestamp
	}

	if net := totalIn - totalOut; net < negativeDrainThreshold {
		signals = append(signals, domain.DataFlowSignal{
			Kind:          domain.SignalNegativeDrain,
			Message:       fmt.Sprintf("%d more exits than entries over the period", -net),
			DetectedAt:    lastAt,
			AffectedRange: rng,
		})
	}

	for _, gap := range DetectGapsWithClassification(scoped, cfg) {
		if gap.Severity != domain.SeverityInactivity {
			continue
		}
		signals = append(signals, domain.DataFlowSignal{
			Kind:          domain.SignalInactivityPeriod,
			Message:       fmt.Sprintf("no events for %s", gap.Duration),
			DetectedAt:    gap.Interval.End,
			AffectedRange: gap.Interval,
		})
	}

	if cfg.HighActivityVolume > 0 && totalIn >= cfg.HighActivityVolume {
		signals = append(signals, domain.DataFlowSignal{
			Kind:          domain.SignalHighActivity,
			Message:       fmt.Sprintf("%d entries over the period", totalIn),
			DetectedAt:    lastAt,
			AffectedRange: rng,
		})
	}

	return signals
}

// inRange returns the entries inside rng, sorted chronologically. The input
// slice is left untouched.
func inRange(entries []*entrydomain.Entry, rng entrydomain.TimeRange) []*entrydomain.Entry {
	out := make([]*entrydomain.Entry, 0, len(entries))
	for _, e := range entrydomain.Sorted(entries) {
		if rng.Contains(e.Timestamp) {
			out = append(out, e)
		}
	}
	return out
}
