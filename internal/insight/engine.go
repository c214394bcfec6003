// Package insight compares two periods of occupancy data and emits up to
// three independently gated, explainable insights. Generate is pure; it may
// run concurrently with other analytics on the same fetched entries.
package insight

import (
	"fmt"
	"math"
	"strings"

	entrydomain "venue-pulse/backend/internal/entry/domain"
	"venue-pulse/backend/internal/insight/domain"
	metricsdomain "venue-pulse/backend/internal/metrics/domain"
)

const (
	// stableVolumeTolerance is how close (fractionally) the two period
	// totals must be for the concentration rule to apply.
	stableVolumeTolerance = 0.05
	// concentrationDelta is the minimum top-quartile share increase, in
	// share points, for the concentration rule to fire.
	concentrationDelta = 0.10
	// shareEpsilon absorbs float error at the concentration boundary so an
	// exact 10-point increase fires and 9.9 points does not.
	shareEpsilon = 1e-9
)

// Generate compares the current period against the previous one and returns
// at most three insights in fixed order: entries delta, peak shift,
// concentration. Each rule gates independently; a missing previous snapshot
// only disables the rules that need it.
func Generate(current metricsdomain.MetricsSnapshot, previous *metricsdomain.MetricsSnapshot,
	curEntries, prevEntries []*entrydomain.Entry, curRange, prevRange entrydomain.TimeRange) []domain.Insight {

	insights := make([]domain.Insight, 0, 3)

	if in := entriesDelta(current, previous); in != nil {
		insights = append(insights, *in)
	}
	if in := peakShift(curEntries, prevEntries, curRange, prevRange); in != nil {
		insights = append(insights, *in)
	}
	if in := concentration(current, previous, curEntries, prevEntries, curRange, prevRange); in != nil {
		insights = append(insights, *in)
	}
	return insights
}

// entriesDelta reports how entry volume changed against the previous period.
// A stable (zero-delta) result is still emitted; only a missing or empty
// previous period suppresses the rule.
func entriesDelta(current metricsdomain.MetricsSnapshot, previous *metricsdomain.MetricsSnapshot) *domain.Insight {
	if previous == nil || previous.TotalIn <= 0 {
		return nil
	}

	delta := current.TotalIn - previous.TotalIn
	percent := float64(delta) / float64(previous.TotalIn) * 100

	direction := "stable"
	if delta > 0 {
		direction = "increase"
	} else if delta < 0 {
		direction = "decrease"
	}

	return &domain.Insight{
		Title:           fmt.Sprintf("Entry volume %s: %s%% vs previous period", direction, formatSigned(percent)),
		RuleDescription: "Compares total entries against the previous period of equal length.",
		InputValues: map[string]float64{
			"current_total_in":  float64(current.TotalIn),
			"previous_total_in": float64(previous.TotalIn),
			"delta":             float64(delta),
			"percent":           percent,
		},
		Thresholds: map[string]float64{
			"previous_total_in_min": 1,
		},
	}
}

// peakShift reports when the busiest bucket moved to a different position in
// the period. Either period peaking at zero suppresses the rule.
func peakShift(curEntries, prevEntries []*entrydomain.Entry, curRange, prevRange entrydomain.TimeRange) *domain.Insight {
	if len(curEntries) == 0 || len(prevEntries) == 0 {
		return nil
	}

	curIdx, curCount, curOK := peakBucket(bucketize(curEntries, curRange))
	prevIdx, prevCount, prevOK := peakBucket(bucketize(prevEntries, prevRange))
	if !curOK || !prevOK || curCount == 0 || prevCount == 0 {
		return nil
	}
	if curIdx == prevIdx {
		return nil
	}

	direction := "later"
	if curIdx < prevIdx {
		direction = "earlier"
	}

	return &domain.Insight{
		Title:           fmt.Sprintf("Peak activity shifted %s in the period", direction),
		RuleDescription: "Finds the busiest time bucket of each period and reports when it moved.",
		InputValues: map[string]float64{
			"current_peak_bucket":  float64(curIdx),
			"previous_peak_bucket": float64(prevIdx),
			"current_peak_count":   float64(curCount),
			"previous_peak_count":  float64(prevCount),
		},
		Thresholds: map[string]float64{
			"peak_count_min": 1,
		},
	}
}

// concentration reports when roughly the same volume packed itself into a
// smaller slice of the period. It only applies when totals are stable
// (within ±5%); otherwise the volume rule already explains the change.
func concentration(current metricsdomain.MetricsSnapshot, previous *metricsdomain.MetricsSnapshot,
	curEntries, prevEntries []*entrydomain.Entry, curRange, prevRange entrydomain.TimeRange) *domain.Insight {
	if previous == nil || previous.TotalIn <= 0 {
		return nil
	}
	volumeDrift := math.Abs(float64(current.TotalIn-previous.TotalIn)) / float64(previous.TotalIn)
	if volumeDrift > stableVolumeTolerance {
		return nil
	}

	curShare := topQuartileShare(bucketize(curEntries, curRange))
	prevShare := topQuartileShare(bucketize(prevEntries, prevRange))
	deltaPoints := curShare - prevShare
	if deltaPoints+shareEpsilon < concentrationDelta {
		return nil
	}

	return &domain.Insight{
		Title:           fmt.Sprintf("Activity more concentrated: top quarter share %s points up", formatSigned(deltaPoints*100)),
		RuleDescription: "With stable volume, compares how much of each period is packed into its busiest quarter of time buckets.",
		InputValues: map[string]float64{
			"current_share":     curShare,
			"previous_share":    prevShare,
			"delta_points":      deltaPoints * 100,
			"current_total_in":  float64(current.TotalIn),
			"previous_total_in": float64(previous.TotalIn),
		},
		Thresholds: map[string]float64{
			"volume_tolerance": stableVolumeTolerance,
			"delta_points_min": concentrationDelta * 100,
		},
	}
}

// formatSigned renders a signed value to one decimal with a comma decimal
// separator, matching how downstream dashboards display deltas.
func formatSigned(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%+.1f", v), ".", ",")
}
