package repository

import (
	"context"
	"testing"
	"time"

	"venue-pulse/backend/internal/device/domain"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestMemoryRepository_GetByIDMissing(t *testing.T) {
	repo := NewMemoryRepository()
	d, err := repo.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if d != nil {
		t.Errorf("GetByID = %+v, want nil for missing device", d)
	}
}

func TestMemoryRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, d := range []*domain.Device{
		{ID: "door-b", LocationID: "loc-1", Name: "Back door", CreatedAt: base},
		{ID: "door-a", LocationID: "loc-1", Name: "Main entrance", CreatedAt: base},
		{ID: "door-z", LocationID: "loc-2", Name: "Annex", CreatedAt: base},
	} {
		if err := repo.Save(ctx, d); err != nil {
			t.Fatalf("save %s: %v", d.ID, err)
		}
	}

	got, err := repo.ListByLocation(ctx, "loc-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("devices = %d, want 2", len(got))
	}
	if got[0].ID != "door-a" || got[1].ID != "door-b" {
		t.Errorf("order = %s, %s, want door-a, door-b", got[0].ID, got[1].ID)
	}
}

func TestMemoryRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_ = repo.Save(ctx, &domain.Device{ID: "door-a", LocationID: "loc-1", Name: "Old name", CreatedAt: base})
	_ = repo.Save(ctx, &domain.Device{ID: "door-a", LocationID: "loc-1", Name: "New name", CreatedAt: base})

	d, err := repo.GetByID(ctx, "door-a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if d.Name != "New name" {
		t.Errorf("Name = %q, want %q", d.Name, "New name")
	}
}

func TestMemoryRepository_TouchRegistersUnknownDevice(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.Touch(ctx, "door-new", "loc-1", base); err != nil {
		t.Fatalf("touch: %v", err)
	}

	d, err := repo.GetByID(ctx, "door-new")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if d == nil {
		t.Fatal("device not registered by Touch")
	}
	if d.LocationID != "loc-1" {
		t.Errorf("LocationID = %q, want loc-1", d.LocationID)
	}
	if d.LastSeenAt == nil || !d.LastSeenAt.Equal(base) {
		t.Errorf("LastSeenAt = %v, want %v", d.LastSeenAt, base)
	}
}

func TestMemoryRepository_TouchOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_ = repo.Touch(ctx, "door-a", "loc-1", base.Add(time.Hour))
	_ = repo.Touch(ctx, "door-a", "loc-1", base) // older, must be ignored

	d, _ := repo.GetByID(ctx, "door-a")
	if d.LastSeenAt == nil || !d.LastSeenAt.Equal(base.Add(time.Hour)) {
		t.Errorf("LastSeenAt = %v, want %v", d.LastSeenAt, base.Add(time.Hour))
	}

	_ = repo.Touch(ctx, "door-a", "loc-1", base.Add(2*time.Hour))
	d, _ = repo.GetByID(ctx, "door-a")
	if d.LastSeenAt == nil || !d.LastSeenAt.Equal(base.Add(2*time.Hour)) {
		t.Errorf("LastSeenAt = %v, want %v", d.LastSeenAt, base.Add(2*time.Hour))
	}
}

func TestMemoryRepository_GetByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_ = repo.Save(ctx, &domain.Device{ID: "door-a", LocationID: "loc-1", CreatedAt: base})

	first, _ := repo.GetByID(ctx, "door-a")
	first.LocationID = "mutated"

	second, _ := repo.GetByID(ctx, "door-a")
	if second.LocationID != "loc-1" {
		t.Error("returned device shares memory with the registry")
	}
}
