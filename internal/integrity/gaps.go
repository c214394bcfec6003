package integrity

import (
	"time"

	entrydomain "venue-pulse/backend/internal/entry/domain"
	"venue-pulse/backend/internal/integrity/domain"
)

// criticalGapThreshold separates warning gaps from critical ones.
const criticalGapThreshold = 3 * time.Hour

// DetectGapsWithClassification grades the spacing between consecutive
// entries. Gaps shorter than the display threshold are dropped; the rest
// classify as info, warning, critical, or inactivity by duration.
func DetectGapsWithClassification(entries []*entrydomain.Entry, cfg domain.Config) []domain.ClassifiedGap {
	sorted := entrydomain.Sorted(entries)

	var gaps []domain.ClassifiedGap
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		d := cur.Timestamp.Sub(prev.Timestamp)
		if d < cfg.DisplayThreshold {
			continue
		}
		gaps = append(gaps, domain.ClassifiedGap{
			Interval: entrydomain.TimeRange{Kind: entrydomain.RangeCustom, Start: prev.Timestamp, End: cur.Timestamp},
			Duration: d,
			Severity: classifyGap(d, cfg),
		})
	}
	return gaps
}

func classifyGap(d time.Duration, cfg domain.Config) domain.Severity {
	switch {
	case d >= cfg.InactivityThreshold:
		return domain.SeverityInactivity
	case d >= criticalGapThreshold:
		return domain.SeverityCritical
	case d >= cfg.IssueThreshold:
		return domain.SeverityWarning
	default:
		return domain.SeverityInfo
	}
}

// ComputeCoverageWindow returns the observed span of entries plus the gaps
// worth surfacing as coverage problems. Info gaps are cosmetic and
// inactivity gaps are expected downtime, so only warning and critical gaps
// are included.
func ComputeCoverageWindow(entries []*entrydomain.Entry, cfg domain.Config) domain.CoverageWindow {
	sorted := entrydomain.Sorted(entries)
	if len(sorted) == 0 {
		return domain.CoverageWindow{}
	}

	win := domain.CoverageWindow{
		Start: sorted[0].Timestamp,
		End:   sorted[len(sorted)-1].Timestamp,
	}
	for _, gap := range DetectGapsWithClassification(sorted, cfg) {
		if gap.Severity == domain.SeverityWarning || gap.Severity == domain.SeverityCritical {
			win.Gaps = append(win.Gaps, gap)
		}
	}
	return win
}
