package producer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"venue-pulse/backend/internal/telemetry/domain"
)

// wireEvent is the JSON form of a telemetry event on the Kafka topic.
type wireEvent struct {
	LocationID string          `json:"location_id"`
	DeviceID   string          `json:"device_id,omitempty"`
	EventType  string          `json:"event_type"`
	Source     string          `json:"source"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// KafkaProducer implements Producer using segmentio/kafka-go.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer creates a Kafka producer that writes telemetry events to the given topic.
// brokers must be non-empty. Call Close when shutting down.
func NewKafkaProducer(brokers []string, topic string) (*KafkaProducer, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaProducer{writer: writer, topic: topic}, nil
}

// Emit serializes the event as JSON and writes it to the Kafka topic, keyed by location
// so events for one location stay in order. Uses the request context with a short timeout
// so slow Kafka does not block callers indefinitely.
func (p *KafkaProducer) Emit(ctx context.Context, event *domain.Event) error {
	if p == nil || p.writer == nil || event == nil {
		return nil
	}
	payload, err := json.Marshal(wireEvent{
		LocationID: event.LocationID,
		DeviceID:   event.DeviceID,
		EventType:  event.EventType,
		Source:     event.Source,
		Metadata:   event.Metadata,
		CreatedAt:  event.CreatedAt,
	})
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.LocationID),
		Value: payload,
	})
	if err != nil {
		log.Printf("telemetry: kafka emit failed: %v", err)
		return err
	}
	return nil
}

// Close closes the Kafka writer. Safe to call multiple times.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// DecodeEvent parses one Kafka message payload back into a telemetry event.
// Used by the worker when forwarding to Loki.
func DecodeEvent(payload []byte) (*domain.Event, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, err
	}
	return &domain.Event{
		LocationID: w.LocationID,
		DeviceID:   w.DeviceID,
		EventType:  w.EventType,
		Source:     w.Source,
		Metadata:   w.Metadata,
		CreatedAt:  w.CreatedAt,
	}, nil
}
