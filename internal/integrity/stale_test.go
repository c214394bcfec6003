package integrity

import (
	"testing"
	"time"

	"venue-pulse/backend/internal/integrity/domain"
)

func TestDetectStaleSource_FreshSourceIsNil(t *testing.T) {
	now := base.Add(time.Hour)
	seen := now.Add(-5 * time.Minute)
	if issue := DetectStaleSource(&seen, 10*time.Minute, now); issue != nil {
		t.Errorf("fresh source produced issue %+v", issue)
	}
}

func TestDetectStaleSource_NeverSeen(t *testing.T) {
	issue := DetectStaleSource(nil, 10*time.Minute, base)
	if issue == nil {
		t.Fatal("never-seen source must yield an issue")
	}
	if issue.Kind != domain.IssueStaleSource || issue.Severity != domain.SeverityCritical {
		t.Errorf("issue = %s/%s, want stale_source/critical", issue.Kind, issue.Severity)
	}
}

func TestDetectStaleSource_Severity(t *testing.T) {
	now := base.Add(2 * time.Hour)
	threshold := 10 * time.Minute

	// 20 minutes past the threshold: warning.
	seen := now.Add(-30 * time.Minute)
	issue := DetectStaleSource(&seen, threshold, now)
	if issue == nil || issue.Severity != domain.SeverityWarning {
		t.Errorf("30m stale = %+v, want warning", issue)
	}

	// 50 minutes past the threshold: critical.
	seen = now.Add(-time.Hour)
	issue = DetectStaleSource(&seen, threshold, now)
	if issue == nil || issue.Severity != domain.SeverityCritical {
		t.Errorf("1h stale = %+v, want critical", issue)
	}
}

func TestDedupeForDisplay(t *testing.T) {
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }
	issues := []domain.DataIntegrityIssue{
		{Kind: domain.IssueNegativeCount, DetectedAt: at(1)},
		{Kind: domain.IssueNegativeCount, DetectedAt: at(3)},
		{Kind: domain.IssueNegativeCount, DetectedAt: at(3)}, // duplicate
		{Kind: domain.IssueStaleSource, DetectedAt: at(2)},
		{Kind: domain.IssueNegativeCount, DetectedAt: at(0)},
	}

	got := DedupeForDisplay(issues, 0)
	if len(got) != 3 {
		t.Fatalf("len = %d, want default cap 3", len(got))
	}
	if !got[0].DetectedAt.Equal(at(3)) || !got[1].DetectedAt.Equal(at(2)) || !got[2].DetectedAt.Equal(at(1)) {
		t.Errorf("order = %v, %v, %v, want newest first with duplicate dropped",
			got[0].DetectedAt, got[1].DetectedAt, got[2].DetectedAt)
	}
}

func TestDedupeForDisplay_DoesNotMutateInput(t *testing.T) {
	issues := []domain.DataIntegrityIssue{
		{Kind: domain.IssueNegativeCount, DetectedAt: base},
		{Kind: domain.IssueNegativeCount, DetectedAt: base.Add(time.Minute)},
	}
	DedupeForDisplay(issues, 1)
	if !issues[0].DetectedAt.Equal(base) {
		t.Error("input slice was reordered")
	}
}
