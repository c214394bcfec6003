// Package source feeds the live aggregators with entry events consumed from Kafka.
package source

import (
	"encoding/json"
	"fmt"
	"time"

	"venue-pulse/backend/internal/entry/domain"
)

// wireEntry is the JSON form of an entry event on the Kafka topic.
type wireEntry struct {
	ID             string    `json:"id"`
	LocationID     string    `json:"location_id"`
	UserID         string    `json:"user_id,omitempty"`
	Timestamp      time.Time `json:"ts"`
	Kind           string    `json:"kind"`
	Delta          int       `json:"delta"`
	DeviceID       string    `json:"device_id"`
	Source         string    `json:"source"`
	SequenceNumber *int64    `json:"sequence_number,omitempty"`
}

// EncodeEntry serializes an entry for the Kafka topic.
func EncodeEntry(e *domain.Entry) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("source: nil entry")
	}
	return json.Marshal(wireEntry{
		ID:             e.ID,
		LocationID:     e.LocationID,
		UserID:         e.UserID,
		Timestamp:      e.Timestamp,
		Kind:           string(e.Kind),
		Delta:          e.Delta,
		DeviceID:       e.DeviceID,
		Source:         string(e.Source),
		SequenceNumber: e.SequenceNumber,
	})
}

// DecodeEntry parses one Kafka message payload into an entry event.
// Delta is derived from the kind when the payload omits it.
func DecodeEntry(payload []byte) (*domain.Entry, error) {
	var w wireEntry
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("source: decode entry: %w", err)
	}
	if w.ID == "" {
		return nil, fmt.Errorf("source: entry id is empty")
	}
	if w.LocationID == "" {
		return nil, fmt.Errorf("source: entry %s has no location", w.ID)
	}
	kind := domain.EventKind(w.Kind)
	if kind != domain.KindIn && kind != domain.KindOut {
		return nil, fmt.Errorf("source: entry %s has unknown kind %q", w.ID, w.Kind)
	}
	delta := w.Delta
	if delta == 0 {
		delta = kind.Delta()
	}
	if delta != kind.Delta() {
		return nil, fmt.Errorf("source: entry %s delta %d does not match kind %q", w.ID, delta, w.Kind)
	}
	return &domain.Entry{
		ID:             w.ID,
		LocationID:     w.LocationID,
		UserID:         w.UserID,
		Timestamp:      w.Timestamp,
		Kind:           kind,
		Delta:          delta,
		DeviceID:       w.DeviceID,
		Source:         domain.EventSource(w.Source),
		SequenceNumber: w.SequenceNumber,
	}, nil
}
