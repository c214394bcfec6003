// Package domain holds the venue location model.
package domain

import "time"

// Location is one tracked venue. Capacity feeds occupancy ratios and peak
// clamping; TimeZone is the IANA zone its presets are anchored to.
type Location struct {
	ID        string
	Name      string
	Capacity  int
	TimeZone  string
	CreatedAt time.Time
}
