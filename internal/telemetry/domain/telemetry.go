package domain

import "time"

// Event represents a telemetry event (location-scoped, optional device).
type Event struct {
	LocationID string
	DeviceID   string // empty if not set
	EventType  string
	Source     string
	Metadata   []byte // JSON
	CreatedAt  time.Time
}
