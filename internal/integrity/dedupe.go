package integrity

import (
	"sort"

	"venue-pulse/backend/internal/integrity/domain"
)

// defaultDisplayLimit caps how many issues are surfaced to a consumer.
const defaultDisplayLimit = 3

// DedupeForDisplay sorts issues by recency (newest first), drops duplicates
// with the same kind and detection time, and caps the result. limit <= 0
// uses the default of 3. This is a presentation courtesy only; it does not
// change what was classified.
func DedupeForDisplay(issues []domain.DataIntegrityIssue, limit int) []domain.DataIntegrityIssue {
	if limit <= 0 {
		limit = defaultDisplayLimit
	}

	sorted := make([]domain.DataIntegrityIssue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DetectedAt.After(sorted[j].DetectedAt)
	})

	type key struct {
		kind domain.IssueKind
		at   int64
	}
	seen := make(map[key]struct{}, len(sorted))
	out := make([]domain.DataIntegrityIssue, 0, limit)
	for _, issue := range sorted {
		k := key{kind: issue.Kind, at: issue.DetectedAt.UnixNano()}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, issue)
		if len(out) == limit {
			break
		}
	}
	return out
}
