// Server exposes the occupancy analytics read API over HTTP.
// Set HTTP_ADDR and DATABASE_URL; optional KAFKA_BROKERS routes telemetry
// through Kafka and OTLP_ENDPOINT enables OTel export.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"

	"venue-pulse/backend/internal/analytics/service"
	"venue-pulse/backend/internal/config"
	"venue-pulse/backend/internal/db"
	devicerepo "venue-pulse/backend/internal/device/repository"
	entryrepo "venue-pulse/backend/internal/entry/repository"
	integritydomain "venue-pulse/backend/internal/integrity/domain"
	locationrepo "venue-pulse/backend/internal/location/repository"
	"venue-pulse/backend/internal/server"
	"venue-pulse/backend/internal/telemetry"
	telemetryotel "venue-pulse/backend/internal/telemetry/otel"
	"venue-pulse/backend/internal/telemetry/producer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("server: DATABASE_URL is required")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "venue-pulse-server", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	// Telemetry goes to Kafka when brokers are configured (the worker forwards
	// it to Loki); otherwise straight to the OTel log exporter.
	var emitter telemetry.EventEmitter = telemetryotel.NewEventEmitter(providers.LoggerProvider)
	if brokers := cfg.KafkaBrokersList(); len(brokers) > 0 {
		kp, err := producer.NewKafkaProducer(brokers, cfg.TelemetryTopic)
		if err != nil {
			log.Fatalf("telemetry producer: %v", err)
		}
		if kp != nil {
			defer kp.Close()
			emitter = kp
		}
	}

	cls := integritydomain.DefaultConfig()
	cls.HighActivityVolume = cfg.HighActivityVolume
	svc := service.New(
		entryrepo.NewPostgresRepository(database),
		locationrepo.NewPostgresRepository(database),
		devicerepo.NewPostgresRepository(database),
		cls,
		cfg.StaleThreshold(),
		cfg.DefaultCapacity,
		cfg.DisplayLimit,
		nil,
	)

	router := server.NewRouter(server.NewHandler(svc, emitter, nil))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.LoggingHandler(os.Stdout, router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Let in-flight async telemetry finish before tearing down the providers.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
