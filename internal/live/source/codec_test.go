package source

import (
	"testing"
	"time"

	"venue-pulse/backend/internal/entry/domain"
)

func TestEncodeDecodeEntry(t *testing.T) {
	seq := int64(42)
	e := &domain.Entry{
		ID:             "evt-1",
		LocationID:     "loc-1",
		UserID:         "user-9",
		Timestamp:      time.Date(2026, 4, 2, 12, 30, 0, 0, time.UTC),
		Kind:           domain.KindIn,
		Delta:          1,
		DeviceID:       "counter-3",
		Source:         domain.SourceHardware,
		SequenceNumber: &seq,
	}

	payload, err := EncodeEntry(e)
	if err != nil {
		t.Fatalf("EncodeEntry: %v", err)
	}
	got, err := DecodeEntry(payload)
	if err != nil {
		t.Fatalf("DecodeEntry: %v", err)
	}
	if got.ID != e.ID || got.LocationID != e.LocationID || got.UserID != e.UserID {
		t.Errorf("decoded identity fields = %+v", got)
	}
	if !got.Timestamp.Equal(e.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, e.Timestamp)
	}
	if got.Kind != domain.KindIn || got.Delta != 1 {
		t.Errorf("kind/delta = %v/%d", got.Kind, got.Delta)
	}
	if got.SequenceNumber == nil || *got.SequenceNumber != seq {
		t.Errorf("sequence number = %v, want %d", got.SequenceNumber, seq)
	}
}

func TestEncodeEntry_Nil(t *testing.T) {
	if _, err := EncodeEntry(nil); err == nil {
		t.Fatal("EncodeEntry(nil) should return error")
	}
}

func TestDecodeEntry_DeltaDerivedFromKind(t *testing.T) {
	payload := []byte(`{"id":"evt-1","location_id":"loc-1","ts":"2026-04-02T12:30:00Z","kind":"out","device_id":"d1","source":"hardware"}`)
	got, err := DecodeEntry(payload)
	if err != nil {
		t.Fatalf("DecodeEntry: %v", err)
	}
	if got.Delta != -1 {
		t.Errorf("delta = %d, want -1 (derived from kind)", got.Delta)
	}
}

func TestDecodeEntry_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{`},
		{"missing id", `{"location_id":"loc-1","ts":"2026-04-02T12:30:00Z","kind":"in"}`},
		{"missing location", `{"id":"evt-1","ts":"2026-04-02T12:30:00Z","kind":"in"}`},
		{"unknown kind", `{"id":"evt-1","location_id":"loc-1","ts":"2026-04-02T12:30:00Z","kind":"sideways"}`},
		{"delta mismatch", `{"id":"evt-1","location_id":"loc-1","ts":"2026-04-02T12:30:00Z","kind":"in","delta":-1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeEntry([]byte(tc.payload)); err == nil {
				t.Errorf("DecodeEntry(%s) should return error", tc.payload)
			}
		})
	}
}
