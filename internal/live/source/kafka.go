package source

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"venue-pulse/backend/internal/entry/domain"
)

// KafkaSource reads entry events from a Kafka topic and exposes them as a channel.
type KafkaSource struct {
	reader *kafka.Reader
}

// NewKafkaSource creates a consumer for the entry events topic.
// brokers must be non-empty. Call Close when shutting down.
func NewKafkaSource(brokers []string, topic, groupID string) *KafkaSource {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	return &KafkaSource{reader: reader}
}

// Events consumes the topic until ctx is cancelled and sends decoded entries on the
// returned channel. Messages that fail to decode are logged and skipped. The channel
// is closed when consumption stops.
func (s *KafkaSource) Events(ctx context.Context) <-chan *domain.Entry {
	out := make(chan *domain.Entry)
	go func() {
		defer close(out)
		for {
			msg, err := s.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("source: kafka read error: %v", err)
				continue
			}
			e, err := DecodeEntry(msg.Value)
			if err != nil {
				log.Printf("source: dropping message at offset %d: %v", msg.Offset, err)
				continue
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

// Close closes the underlying Kafka reader.
func (s *KafkaSource) Close() error {
	if s == nil || s.reader == nil {
		return nil
	}
	return s.reader.Close()
}

// Producer writes entry events to the Kafka topic. Used by the seeder and by
// ingest paths that feed the live pipeline.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a writer for the entry events topic. brokers must be non-empty.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}}
}

// Publish encodes the entry and writes it keyed by location so per-location order holds.
func (p *Producer) Publish(ctx context.Context, e *domain.Entry) error {
	if p == nil || p.writer == nil {
		return nil
	}
	payload, err := EncodeEntry(e)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(e.LocationID),
		Value: payload,
	})
}

// Close closes the Kafka writer. Safe to call multiple times.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
