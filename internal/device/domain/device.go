// Package domain holds the counting device model.
package domain

import "time"

// Device is one registered counting source at a location (turnstile, door
// sensor, manual tally station). LastSeenAt is bumped by the live pipeline
// and drives the stale source checks.
type Device struct {
	ID         string
	LocationID string
	Name       string
	LastSeenAt *time.Time
	CreatedAt  time.Time
}
