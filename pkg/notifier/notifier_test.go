package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcstream/schema-registry/pkg/schemaregistry"
)

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newTestNotifier(writer messageWriter) *KafkaNotifier {
	return &KafkaNotifier{
		cfg:    Config{Topic: DefaultTopic},
		writer: writer,
		logger: nopLogger{},
	}
}

func TestNewKafkaNotifierRequiresBrokers(t *testing.T) {
	_, err := NewKafkaNotifier(Config{}, nopLogger{})
	require.Error(t, err)
}

func TestSchemaMetadataCreatedEvent(t *testing.T) {
	writer := &recordingWriter{}
	n := newTestNotifier(writer)

	err := n.SchemaMetadataCreated(context.Background(), schemaregistry.SchemaMetadata{
		ID:   7,
		Name: "orders-value",
		Type: schemaregistry.TypeRecord,
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, []byte("orders-value"), msg.Key, "messages are keyed by family name")

	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, EventMetadataCreated, event.Kind)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, int64(7), event.SchemaMetadataID)
	assert.Zero(t, event.Version)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestSchemaVersionAddedEvent(t *testing.T) {
	writer := &recordingWriter{}
	n := newTestNotifier(writer)

	err := n.SchemaVersionAdded(context.Background(),
		schemaregistry.SchemaMetadata{ID: 7, Name: "orders-value", Type: schemaregistry.TypeRecord},
		schemaregistry.SchemaVersion{
			Key:         schemaregistry.SchemaKey{SchemaMetadataID: 7, Version: 3},
			Fingerprint: "abc123",
		},
	)
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	var event Event
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, EventVersionAdded, event.Kind)
	assert.Equal(t, 3, event.Version)
	assert.Equal(t, "abc123", event.Fingerprint)
}

func TestPublishFailureIsReturned(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	n := newTestNotifier(writer)

	err := n.SchemaMetadataCreated(context.Background(), schemaregistry.SchemaMetadata{Name: "x"})
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	writer := &recordingWriter{}
	n := newTestNotifier(writer)
	require.NoError(t, n.Close())
	assert.True(t, writer.closed)
}
