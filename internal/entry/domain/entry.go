// Package domain holds the entry event model shared by the ledger, the replay
// engine, the integrity classifier, and the live aggregator.
package domain

import (
	"sort"
	"time"
)

// EventKind says whether an entry is a person entering or leaving.
type EventKind string

const (
	KindIn  EventKind = "in"
	KindOut EventKind = "out"
)

// Delta returns the signed unit for the kind: +1 for in, -1 for out.
func (k EventKind) Delta() int {
	if k == KindOut {
		return -1
	}
	return 1
}

// EventSource identifies how an entry was produced.
type EventSource string

const (
	SourceHardware  EventSource = "hardware"
	SourceManual    EventSource = "manual"
	SourceImport    EventSource = "import"
	SourceSimulated EventSource = "simulated"
)

// Entry is one signed unit event (+1 entry / -1 exit) recorded for a location.
// Entries are immutable once created; the ledger never mutates past entries.
// Delta must match Kind (in -> +1, out -> -1); a mismatch is a caller bug, not a
// runtime state the analytics recover from.
type Entry struct {
	ID             string
	LocationID     string
	UserID         string // empty when the event is not attributed to a person
	Timestamp      time.Time
	Kind           EventKind
	Delta          int
	DeviceID       string
	Source         EventSource
	SequenceNumber *int64 // device-reported sequence, nil when the source has none
}

// SortChronological orders entries ascending by (timestamp, id) in place.
// The id tie-break makes replay order deterministic for simultaneous events;
// every analytic component sorts with this same rule.
func SortChronological(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

// Sorted returns a chronologically sorted copy, leaving the input untouched.
// Analytic components use it so concurrent callers can share one fetched slice.
func Sorted(entries []*Entry) []*Entry {
	out := make([]*Entry, len(entries))
	copy(out, entries)
	SortChronological(out)
	return out
}
