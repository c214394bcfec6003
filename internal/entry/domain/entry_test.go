package domain

import (
	"testing"
	"time"
)

func ts(minute int) time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC).Add(time.Duration(minute) * time.Minute)
}

func TestKindDelta(t *testing.T) {
	if got := KindIn.Delta(); got != 1 {
		t.Errorf("KindIn.Delta() = %d, want 1", got)
	}
	if got := KindOut.Delta(); got != -1 {
		t.Errorf("KindOut.Delta() = %d, want -1", got)
	}
}

func TestSortChronological_IDBreaksTies(t *testing.T) {
	entries := []*Entry{
		{ID: "c", Timestamp: ts(5)},
		{ID: "a", Timestamp: ts(5)},
		{ID: "b", Timestamp: ts(0)},
	}
	SortChronological(entries)

	gotIDs := []string{entries[0].ID, entries[1].ID, entries[2].ID}
	wantIDs := []string{"b", "a", "c"}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("order = %v, want %v", gotIDs, wantIDs)
		}
	}
}

func TestSorted_LeavesInputUntouched(t *testing.T) {
	entries := []*Entry{
		{ID: "b", Timestamp: ts(10)},
		{ID: "a", Timestamp: ts(0)},
	}
	out := Sorted(entries)
	if entries[0].ID != "b" {
		t.Error("Sorted mutated the input slice")
	}
	if out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("Sorted order = [%s %s], want [a b]", out[0].ID, out[1].ID)
	}
}

func TestTimeRange_PreviousPeriod(t *testing.T) {
	r := TimeRange{Kind: RangeWeek, Start: ts(0), End: ts(7 * 24 * 60)}
	prev := r.PreviousPeriod()

	if !prev.End.Equal(r.Start) {
		t.Errorf("previous period ends at %v, want %v", prev.End, r.Start)
	}
	if prev.Duration() != r.Duration() {
		t.Errorf("previous duration = %v, want %v", prev.Duration(), r.Duration())
	}
	if prev.Kind != RangeWeek {
		t.Errorf("previous kind = %q, want %q", prev.Kind, RangeWeek)
	}
}

func TestTimeRange_ContainsHalfOpen(t *testing.T) {
	r := TimeRange{Start: ts(0), End: ts(60)}
	if !r.Contains(ts(0)) {
		t.Error("start should be inside the range")
	}
	if r.Contains(ts(60)) {
		t.Error("end should be outside the half-open range")
	}
}
