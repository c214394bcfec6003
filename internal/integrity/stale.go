package integrity

import (
	"fmt"
	"time"

	"venue-pulse/backend/internal/integrity/domain"
)

// staleCriticalCutoff is how far past the freshness threshold a source may be
// before staleness escalates from warning to critical.
const staleCriticalCutoff = 30 * time.Minute

// DetectStaleSource checks whether a device reported recently enough.
// It returns nil when lastSeenAt is within threshold of now. A source that
// was never seen always yields a critical issue.
func DetectStaleSource(lastSeenAt *time.Time, threshold time.Duration, now time.Time) *domain.DataIntegrityIssue {
	if lastSeenAt == nil {
		return &domain.DataIntegrityIssue{
			Kind:       domain.IssueStaleSource,
			Severity:   domain.SeverityCritical,
			Message:    "source has never reported an event",
			DetectedAt: now,
		}
	}

	stale := now.Sub(*lastSeenAt) - threshold
	if stale <= 0 {
		return nil
	}

	severity := domain.SeverityWarning
	if stale > staleCriticalCutoff {
		severity = domain.SeverityCritical
	}
	return &domain.DataIntegrityIssue{
		Kind:       domain.IssueStaleSource,
		Severity:   severity,
		Message:    fmt.Sprintf("source last reported %s ago", now.Sub(*lastSeenAt).Round(time.Second)),
		DetectedAt: now,
	}
}
