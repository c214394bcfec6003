package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	devicedomain "venue-pulse/backend/internal/device/domain"
	devicerepo "venue-pulse/backend/internal/device/repository"
	entrydomain "venue-pulse/backend/internal/entry/domain"
	entryrepo "venue-pulse/backend/internal/entry/repository"
	integritydomain "venue-pulse/backend/internal/integrity/domain"
	locationdomain "venue-pulse/backend/internal/location/domain"
	locationrepo "venue-pulse/backend/internal/location/repository"
)

var base = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func dayRange(start time.Time) entrydomain.TimeRange {
	return entrydomain.TimeRange{Kind: entrydomain.RangeDay, Start: start, End: start.Add(24 * time.Hour)}
}

func seedEntry(t *testing.T, repo *entryrepo.MemoryRepository, id, locationID string, kind entrydomain.EventKind, at time.Time) {
	t.Helper()
	err := repo.Append(context.Background(), &entrydomain.Entry{
		ID:         id,
		LocationID: locationID,
		Timestamp:  at,
		Kind:       kind,
		Delta:      kind.Delta(),
		DeviceID:   "door-1",
		Source:     entrydomain.SourceHardware,
	})
	if err != nil {
		t.Fatalf("append %s: %v", id, err)
	}
}

func newTestService(t *testing.T, nowF func() time.Time) (*Service, *entryrepo.MemoryRepository, *devicerepo.MemoryRepository) {
	t.Helper()
	entries := entryrepo.NewMemoryRepository()
	locations := locationrepo.NewMemoryRepository()
	devices := devicerepo.NewMemoryRepository()
	err := locations.Create(context.Background(), &locationdomain.Location{
		ID: "loc-1", Name: "Main Hall", Capacity: 10, TimeZone: "UTC",
	})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	err = locations.Create(context.Background(), &locationdomain.Location{
		ID: "loc-nocap", Name: "Annex", TimeZone: "UTC",
	})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	svc := New(entries, locations, devices, integritydomain.DefaultConfig(), 30*time.Minute, 50, 3, nowF)
	return svc, entries, devices
}

func TestOverview_MetricsAndFindings(t *testing.T) {
	svc, entries, _ := newTestService(t, nil)
	seedEntry(t, entries, "a", "loc-1", entrydomain.KindIn, base.Add(9*time.Hour))
	seedEntry(t, entries, "b", "loc-1", entrydomain.KindIn, base.Add(9*time.Hour+10*time.Minute))
	seedEntry(t, entries, "c", "loc-1", entrydomain.KindOut, base.Add(10*time.Hour))

	got, err := svc.Overview(context.Background(), "loc-1", dayRange(base))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if got.Location == nil || got.Location.ID != "loc-1" {
		t.Fatalf("location = %+v, want loc-1", got.Location)
	}
	if got.Metrics.TotalIn != 2 || got.Metrics.TotalOut != 1 || got.Metrics.NetChange != 1 {
		t.Errorf("metrics = %d in / %d out / %d net, want 2/1/1",
			got.Metrics.TotalIn, got.Metrics.TotalOut, got.Metrics.NetChange)
	}
	if len(got.Issues) != 0 {
		t.Errorf("issues = %v, want none for a clean stream", got.Issues)
	}
}

func TestOverview_LocationNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Overview(context.Background(), "loc-missing", dayRange(base))
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("err = %v, want ErrLocationNotFound", err)
	}
}

func TestOverview_DefaultCapacityWhenUnset(t *testing.T) {
	svc, entries, _ := newTestService(t, nil)
	// 25 people held all day in a location without configured capacity: with the
	// service default of 50 the occupancy ratio stays at 0.5, not clamped to 1.
	for i := 0; i < 25; i++ {
		seedEntry(t, entries, string(rune('a'+i)), "loc-nocap", entrydomain.KindIn, base.Add(time.Duration(i)*time.Minute))
	}
	seedEntry(t, entries, "tail", "loc-nocap", entrydomain.KindOut, base.Add(23*time.Hour))

	got, err := svc.Overview(context.Background(), "loc-nocap", dayRange(base))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if got.Metrics.PeakCount != 25 {
		t.Errorf("peak = %d, want 25 (default capacity 50 does not clamp)", got.Metrics.PeakCount)
	}
}

func TestIssues_NegativeCountSurfaces(t *testing.T) {
	svc, entries, _ := newTestService(t, func() time.Time { return base.Add(12 * time.Hour) })
	for i := 0; i < 5; i++ {
		seedEntry(t, entries, string(rune('a'+i)), "loc-1", entrydomain.KindOut, base.Add(11*time.Hour+time.Duration(i)*time.Minute))
	}

	got, err := svc.Issues(context.Background(), "loc-1", dayRange(base))
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	found := false
	for _, issue := range got.Issues {
		if issue.Kind == integritydomain.IssueNegativeCount {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want a negative count finding", got.Issues)
	}
}

func TestIssues_StaleSourceAppended(t *testing.T) {
	now := base.Add(26 * time.Hour)
	svc, entries, _ := newTestService(t, func() time.Time { return now })
	seedEntry(t, entries, "a", "loc-1", entrydomain.KindIn, base.Add(9*time.Hour))

	got, err := svc.Issues(context.Background(), "loc-1", dayRange(base))
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	found := false
	for _, issue := range got.Issues {
		if issue.Kind == integritydomain.IssueStaleSource {
			found = true
			if issue.Severity != integritydomain.SeverityCritical {
				t.Errorf("stale severity = %q, want critical for a long-silent source", issue.Severity)
			}
		}
	}
	if !found {
		t.Errorf("issues = %v, want a stale source finding", got.Issues)
	}
}

func TestIssues_NoStaleWhenFresh(t *testing.T) {
	now := base.Add(23*time.Hour + 50*time.Minute)
	svc, entries, _ := newTestService(t, func() time.Time { return now })
	seedEntry(t, entries, "a", "loc-1", entrydomain.KindIn, base.Add(23*time.Hour+40*time.Minute))

	got, err := svc.Issues(context.Background(), "loc-1", dayRange(base))
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	for _, issue := range got.Issues {
		if issue.Kind == integritydomain.IssueStaleSource {
			t.Errorf("unexpected stale source finding: %+v", issue)
		}
	}
}

func TestInsights_EntriesDeltaAgainstPreviousDay(t *testing.T) {
	svc, entries, _ := newTestService(t, nil)
	prev := base.Add(-24 * time.Hour)
	for i := 0; i < 10; i++ {
		seedEntry(t, entries, "p"+string(rune('a'+i)), "loc-1", entrydomain.KindIn, prev.Add(time.Duration(i)*time.Hour))
	}
	for i := 0; i < 11; i++ {
		seedEntry(t, entries, "c"+string(rune('a'+i)), "loc-1", entrydomain.KindIn, base.Add(time.Duration(i)*time.Hour))
	}

	got, err := svc.Insights(context.Background(), "loc-1", dayRange(base))
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least the entries delta insight")
	}
	if !strings.Contains(got[0].Title, "+10,0%") {
		t.Errorf("title = %q, want it to contain +10,0%%", got[0].Title)
	}
}

func TestInsights_NoPreviousPeriodSuppressesDelta(t *testing.T) {
	svc, entries, _ := newTestService(t, nil)
	for i := 0; i < 5; i++ {
		seedEntry(t, entries, string(rune('a'+i)), "loc-1", entrydomain.KindIn, base.Add(time.Duration(i)*time.Hour))
	}

	got, err := svc.Insights(context.Background(), "loc-1", dayRange(base))
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("insights = %v, want none without a previous period", got)
	}
}

func TestDevices_GradesEachDeviceIndependently(t *testing.T) {
	now := base.Add(12 * time.Hour)
	svc, _, devices := newTestService(t, func() time.Time { return now })

	fresh := now.Add(-5 * time.Minute)
	silent := now.Add(-50 * time.Minute)
	for _, d := range []*devicedomain.Device{
		{ID: "door-fresh", LocationID: "loc-1", Name: "Main entrance", LastSeenAt: &fresh, CreatedAt: base},
		{ID: "door-silent", LocationID: "loc-1", Name: "Back door", LastSeenAt: &silent, CreatedAt: base},
		{ID: "door-never", LocationID: "loc-1", Name: "Side gate", CreatedAt: base},
	} {
		if err := devices.Save(context.Background(), d); err != nil {
			t.Fatalf("save %s: %v", d.ID, err)
		}
	}

	got, err := svc.Devices(context.Background(), "loc-1")
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("devices = %d, want 3", len(got))
	}

	byID := make(map[string]DeviceStatus, len(got))
	for _, st := range got {
		byID[st.Device.ID] = st
	}
	if st := byID["door-fresh"]; st.Stale != nil {
		t.Errorf("door-fresh stale = %+v, want nil", st.Stale)
	}
	if st := byID["door-silent"]; st.Stale == nil || st.Stale.Severity != integritydomain.SeverityWarning {
		t.Errorf("door-silent stale = %+v, want warning", st.Stale)
	}
	if st := byID["door-never"]; st.Stale == nil || st.Stale.Severity != integritydomain.SeverityCritical {
		t.Errorf("door-never stale = %+v, want critical for a never-seen device", st.Stale)
	}
}

func TestDevices_LocationNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Devices(context.Background(), "loc-missing")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("err = %v, want ErrLocationNotFound", err)
	}
}

func TestLocations_ListsRegistered(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	got, err := svc.Locations(context.Background())
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}
