package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/arcstream/schema-registry/pkg/schemaregistry"
)

// Event kinds published to the topic.
const (
	EventMetadataCreated = "schema.metadata.created"
	EventVersionAdded    = "schema.version.added"
)

// Logger is the logging interface consumed by this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// messageWriter is the slice of kafka.Writer the notifier uses. Tests swap in
// a recording implementation.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the JSON payload published for every schema lifecycle change.
// EventID is unique per event so consumers can deduplicate redeliveries.
// Version fields are only set for version events. The schema text itself is
// not carried; consumers fetch it from the registry by key.
type Event struct {
	EventID          string    `json:"event_id"`
	Kind             string    `json:"kind"`
	SchemaMetadataID int64     `json:"schema_metadata_id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Version          int       `json:"version,omitempty"`
	Fingerprint      string    `json:"fingerprint,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// KafkaNotifier publishes schema lifecycle events to a Kafka topic. It
// implements the registry's Notifier interface; the registry treats delivery
// as best effort, so a broker outage never blocks registration.
type KafkaNotifier struct {
	cfg    Config
	writer messageWriter
	logger Logger
}

// NewKafkaNotifier creates a notifier with its own kafka writer.
func NewKafkaNotifier(cfg Config, logger Logger) (*KafkaNotifier, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("notifier requires at least one kafka broker")
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		MaxAttempts:  cfg.MaxAttempts,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("kafka notifier initialized", nil, map[string]interface{}{
		"topic":   cfg.Topic,
		"brokers": cfg.Brokers,
	})

	return &KafkaNotifier{
		cfg:    cfg,
		writer: writer,
		logger: logger,
	}, nil
}

var _ schemaregistry.Notifier = (*KafkaNotifier)(nil)

// SchemaMetadataCreated publishes a metadata creation event.
func (n *KafkaNotifier) SchemaMetadataCreated(ctx context.Context, metadata schemaregistry.SchemaMetadata) error {
	return n.publish(ctx, Event{
		Kind:             EventMetadataCreated,
		SchemaMetadataID: metadata.ID,
		Name:             metadata.Name,
		Type:             metadata.Type,
		OccurredAt:       time.Now().UTC(),
	})
}

// SchemaVersionAdded publishes a version append event.
func (n *KafkaNotifier) SchemaVersionAdded(ctx context.Context, metadata schemaregistry.SchemaMetadata, version schemaregistry.SchemaVersion) error {
	return n.publish(ctx, Event{
		Kind:             EventVersionAdded,
		SchemaMetadataID: metadata.ID,
		Name:             metadata.Name,
		Type:             metadata.Type,
		Version:          version.Key.Version,
		Fingerprint:      version.Fingerprint,
		OccurredAt:       time.Now().UTC(),
	})
}

// publish keys every message by metadata name so events of one schema family
// stay ordered within a partition.
func (n *KafkaNotifier) publish(ctx context.Context, event Event) error {
	event.EventID = uuid.NewString()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.Kind, err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Name),
		Value: payload,
	})
	if err != nil {
		n.logger.Error("failed to publish schema event", err, map[string]interface{}{
			"kind": event.Kind,
			"name": event.Name,
		})
		return fmt.Errorf("publishing %s event: %w", event.Kind, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
