// Worker runs the live occupancy pipeline: it consumes entry events from
// Kafka, folds them into per-location rolling-window counters, and emits each
// counter snapshot as telemetry. When LOKI_URL is set it also forwards the
// telemetry topic to Loki, and when DATABASE_URL is set consumed entries are
// appended to the ledger and windows are rehydrated from it on startup.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"venue-pulse/backend/internal/config"
	"venue-pulse/backend/internal/db"
	devicerepo "venue-pulse/backend/internal/device/repository"
	entrydomain "venue-pulse/backend/internal/entry/domain"
	entryrepo "venue-pulse/backend/internal/entry/repository"
	"venue-pulse/backend/internal/live"
	livedomain "venue-pulse/backend/internal/live/domain"
	"venue-pulse/backend/internal/live/source"
	locationrepo "venue-pulse/backend/internal/location/repository"
	"venue-pulse/backend/internal/telemetry"
	telemetrydomain "venue-pulse/backend/internal/telemetry/domain"
	"venue-pulse/backend/internal/telemetry/loki"
	telemetryotel "venue-pulse/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "venue-pulse-worker", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("worker: telemetry: %v", err)
	}
	providers.SetGlobal()
	emitter := telemetryotel.NewEventEmitter(providers.LoggerProvider)

	var entries *entryrepo.PostgresRepository
	var locations *locationrepo.PostgresRepository
	var devices *devicerepo.PostgresRepository
	if cfg.DatabaseURL != "" {
		database, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("worker: db: %v", err)
		}
		defer database.Close()
		entries = entryrepo.NewPostgresRepository(database)
		locations = locationrepo.NewPostgresRepository(database)
		devices = devicerepo.NewPostgresRepository(database)
	}

	if cfg.LokiURL != "" {
		go forwardTelemetry(ctx, cfg, brokers)
	}

	entrySource := source.NewKafkaSource(brokers, cfg.EntryEventsTopic, cfg.KafkaGroupID)
	defer entrySource.Close()

	window := cfg.LiveWindow()
	dispatcher := live.NewDispatcher(window, rehydrateFunc(entries, window), capacityFunc(locations, cfg.DefaultCapacity))

	events := entrySource.Events(ctx)
	if entries != nil {
		events = persistEntries(ctx, entries, devices, events)
	}

	log.Printf("worker: consuming %s (group %s), window %s", cfg.EntryEventsTopic, cfg.KafkaGroupID, window)

	for state := range dispatcher.Run(ctx, events) {
		emitState(ctx, emitter, state)
	}

	log.Println("worker: stopped")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), telemetry.ShutdownDrainDuration)
	defer shutdownCancel()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("worker: telemetry shutdown: %v", err)
	}
}

// persistEntries appends each consumed entry to the ledger and marks its
// device as seen before passing it on. Storage failures are logged; the live
// pipeline keeps going.
func persistEntries(ctx context.Context, repo *entryrepo.PostgresRepository, devices *devicerepo.PostgresRepository, in <-chan *entrydomain.Entry) <-chan *entrydomain.Entry {
	out := make(chan *entrydomain.Entry)
	go func() {
		defer close(out)
		for e := range in {
			if err := repo.Append(ctx, e); err != nil {
				log.Printf("worker: append entry %s: %v", e.ID, err)
			}
			if devices != nil && e.DeviceID != "" {
				if err := devices.Touch(ctx, e.DeviceID, e.LocationID, e.Timestamp); err != nil {
					log.Printf("worker: touch device %s: %v", e.DeviceID, err)
				}
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// rehydrateFunc seeds a location's window with the last window worth of
// ledger entries. A nil repo starts every window empty.
func rehydrateFunc(repo *entryrepo.PostgresRepository, window time.Duration) live.RehydrateFunc {
	if repo == nil {
		return nil
	}
	return func(ctx context.Context, locationID string) ([]*entrydomain.Entry, error) {
		now := time.Now().UTC()
		rng := entrydomain.TimeRange{
			Kind:  entrydomain.RangeCustom,
			Start: now.Add(-window),
			End:   now,
		}
		return repo.Fetch(ctx, rng, locationID, "")
	}
}

// capacityFunc resolves location capacity, falling back to the configured
// default for unknown locations or when no registry is available.
func capacityFunc(repo *locationrepo.PostgresRepository, fallback int) live.CapacityFunc {
	return func(ctx context.Context, locationID string) int {
		if repo != nil {
			loc, err := repo.GetByID(ctx, locationID)
			if err != nil {
				log.Printf("worker: get location %s: %v", locationID, err)
			} else if loc != nil && loc.Capacity > 0 {
				return loc.Capacity
			}
		}
		return fallback
	}
}

// emitState publishes one counter snapshot as a telemetry event.
func emitState(ctx context.Context, emitter telemetry.EventEmitter, state livedomain.CounterState) {
	meta, err := json.Marshal(state)
	if err != nil {
		log.Printf("worker: marshal state for %s: %v", state.LocationID, err)
		return
	}
	at := time.Now().UTC()
	if state.LastEventAt != nil {
		at = *state.LastEventAt
	}
	telemetry.EmitAsync(emitter, ctx, &telemetrydomain.Event{
		LocationID: state.LocationID,
		EventType:  "counter_state",
		Source:     "worker",
		Metadata:   meta,
		CreatedAt:  at,
	})
}

// forwardTelemetry mirrors the telemetry topic into Loki.
func forwardTelemetry(ctx context.Context, cfg *config.Config, brokers []string) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.TelemetryTopic,
		GroupID:        cfg.KafkaGroupID + "-telemetry",
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	log.Printf("worker: forwarding %s to %s", cfg.TelemetryTopic, cfg.LokiURL)
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("worker: telemetry read error: %v", err)
			continue
		}
		pushCtx, pushCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := loki.PushEventJSON(pushCtx, cfg.LokiURL, msg.Value); err != nil {
			log.Printf("worker: loki push failed: %v", err)
		}
		pushCancel()
	}
}
