package domain

import "time"

// Config holds the gap classification thresholds. The zero value is not
// usable; start from DefaultConfig or WindowConfig.
type Config struct {
	// DisplayThreshold is the shortest gap worth reporting at all.
	DisplayThreshold time.Duration
	// IssueThreshold is the shortest gap graded warning.
	IssueThreshold time.Duration
	// InactivityThreshold is the shortest gap treated as expected downtime.
	InactivityThreshold time.Duration
	// HighActivityVolume is the entry count per range at or above which a
	// high-activity signal is emitted. Zero disables the signal.
	HighActivityVolume int
}

// DefaultConfig returns the batch-analysis thresholds: ignore gaps under
// 20 minutes, warn from 1 hour, treat 6 hours and up as inactivity.
func DefaultConfig() Config {
	return Config{
		DisplayThreshold:    20 * time.Minute,
		IssueThreshold:      time.Hour,
		InactivityThreshold: 6 * time.Hour,
	}
}

// WindowConfig returns thresholds scoped to a rolling live window: the issue
// threshold stretches to the window length so a quiet window is not itself a
// coverage problem.
func WindowConfig(window time.Duration) Config {
	cfg := DefaultConfig()
	if window > 0 {
		cfg.IssueThreshold = window
	}
	return cfg
}
