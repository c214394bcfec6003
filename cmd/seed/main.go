// seed inserts development sample data for local testing: two demo locations
// and a realistic day of entry traffic. Idempotent: skips inserts if the demo
// location already exists. With -live it also publishes a short burst of
// current-time entries to Kafka so the worker pipeline has something to fold.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"venue-pulse/backend/internal/config"
	"venue-pulse/backend/internal/db"
	devicedomain "venue-pulse/backend/internal/device/domain"
	devicerepo "venue-pulse/backend/internal/device/repository"
	entrydomain "venue-pulse/backend/internal/entry/domain"
	entryrepo "venue-pulse/backend/internal/entry/repository"
	"venue-pulse/backend/internal/live/source"
	locationdomain "venue-pulse/backend/internal/location/domain"
	locationrepo "venue-pulse/backend/internal/location/repository"
)

const (
	demoLocationID  = "demo-hall-001"
	demoAnnexID     = "demo-annex-001"
	demoDeviceID    = "demo-counter-001"
	liveEventCount  = 20
	liveEventSpread = 10 * time.Minute
)

func main() {
	live := flag.Bool("live", false, "Also publish a burst of entries to Kafka")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	locations := locationrepo.NewPostgresRepository(conn)
	entries := entryrepo.NewPostgresRepository(conn)
	devices := devicerepo.NewPostgresRepository(conn)

	existing, err := locations.GetByID(ctx, demoLocationID)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (demo-hall-001 exists). Skipping.")
		if *live {
			publishLive(ctx, cfg)
		}
		os.Exit(0)
	}

	now := time.Now().UTC()
	seedLocations(ctx, locations, now)
	seedDevices(ctx, devices, now)
	seedEntries(ctx, entries, now)

	log.Println("Seed completed successfully.")
	if *live {
		publishLive(ctx, cfg)
	}
}

func seedLocations(ctx context.Context, repo *locationrepo.PostgresRepository, now time.Time) {
	for _, loc := range []*locationdomain.Location{
		{ID: demoLocationID, Name: "Demo Hall", Capacity: 120, TimeZone: "UTC", CreatedAt: now},
		{ID: demoAnnexID, Name: "Demo Annex", Capacity: 40, TimeZone: "UTC", CreatedAt: now},
	} {
		if err := repo.Create(ctx, loc); err != nil {
			log.Fatalf("create location %s: %v", loc.ID, err)
		}
	}
}

func seedDevices(ctx context.Context, repo *devicerepo.PostgresRepository, now time.Time) {
	err := repo.Save(ctx, &devicedomain.Device{
		ID:         demoDeviceID,
		LocationID: demoLocationID,
		Name:       "Demo entrance counter",
		CreatedAt:  now,
	})
	if err != nil {
		log.Fatalf("create device %s: %v", demoDeviceID, err)
	}
}

// seedEntries writes yesterday's traffic: a morning build-up, a lunchtime
// peak, and an evening drain, so the metrics and insight endpoints have a
// previous period to compare against.
func seedEntries(ctx context.Context, repo *entryrepo.PostgresRepository, now time.Time) {
	rng := rand.New(rand.NewSource(42))
	dayStart := now.Add(-48 * time.Hour).Truncate(24 * time.Hour)

	for day := 0; day < 2; day++ {
		start := dayStart.Add(time.Duration(day) * 24 * time.Hour)
		occupancy := 0
		for hour := 8; hour < 22; hour++ {
			arrivals := 2 + rng.Intn(4)
			if hour >= 12 && hour <= 14 {
				arrivals += 4 + day*2 // the second day peaks harder
			}
			departures := rng.Intn(3)
			if hour >= 19 {
				departures = arrivals + 2
			}
			at := start.Add(time.Duration(hour) * time.Hour)
			for i := 0; i < arrivals; i++ {
				appendEntry(ctx, repo, entrydomain.KindIn, at.Add(time.Duration(i)*time.Minute))
				occupancy++
			}
			for i := 0; i < departures && occupancy > 0; i++ {
				appendEntry(ctx, repo, entrydomain.KindOut, at.Add(30*time.Minute+time.Duration(i)*time.Minute))
				occupancy--
			}
		}
	}
}

func appendEntry(ctx context.Context, repo *entryrepo.PostgresRepository, kind entrydomain.EventKind, at time.Time) {
	err := repo.Append(ctx, &entrydomain.Entry{
		ID:         uuid.NewString(),
		LocationID: demoLocationID,
		Timestamp:  at,
		Kind:       kind,
		Delta:      kind.Delta(),
		DeviceID:   demoDeviceID,
		Source:     entrydomain.SourceSimulated,
	})
	if err != nil {
		log.Fatalf("append entry: %v", err)
	}
}

// publishLive writes a burst of current entries to the Kafka topic so the
// worker has live traffic to aggregate.
func publishLive(ctx context.Context, cfg *config.Config) {
	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("seed: -live requires KAFKA_BROKERS")
	}
	producer := source.NewProducer(brokers, cfg.EntryEventsTopic)
	defer producer.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()
	for i := 0; i < liveEventCount; i++ {
		kind := entrydomain.KindIn
		if rng.Intn(4) == 0 {
			kind = entrydomain.KindOut
		}
		e := &entrydomain.Entry{
			ID:         uuid.NewString(),
			LocationID: demoLocationID,
			Timestamp:  now.Add(-time.Duration(rng.Int63n(int64(liveEventSpread)))),
			Kind:       kind,
			Delta:      kind.Delta(),
			DeviceID:   demoDeviceID,
			Source:     entrydomain.SourceSimulated,
		}
		if err := producer.Publish(ctx, e); err != nil {
			log.Fatalf("publish entry: %v", err)
		}
	}
	log.Printf("Published %d live entries to %s.", liveEventCount, cfg.EntryEventsTopic)
}
