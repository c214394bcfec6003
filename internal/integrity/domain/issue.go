// Package domain holds the integrity finding value objects: hard issues for
// proven corruption, soft signals for benign operational patterns, and the
// gap/coverage types derived from event spacing.
package domain

import "time"

// Severity grades gaps and issues.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	// SeverityInactivity marks expected downtime (overnight, closed days)
	// rather than a data problem.
	SeverityInactivity Severity = "inactivity"
)

// IssueKind identifies a hard data-integrity issue.
type IssueKind string

const (
	// IssueNegativeCount means the unclamped running count fell past the
	// noise threshold, a provably impossible occupancy.
	IssueNegativeCount IssueKind = "negative_count"
	// IssueStaleSource means a device has not reported within its freshness
	// threshold.
	IssueStaleSource IssueKind = "stale_source"
)

// DataIntegrityIssue is a proven impossible state found in the event stream.
// It is a reported finding, not a control-flow error: detection triggers a
// local recovery so classification continues past it.
type DataIntegrityIssue struct {
	Kind       IssueKind
	Severity   Severity
	Message    string
	DetectedAt time.Time
}
