package notifier

import "time"

// Defaults applied by NewKafkaNotifier when the corresponding Config field is
// zero.
const (
	DefaultTopic        = "schema-registry-events"
	DefaultMaxAttempts  = 3
	DefaultBatchTimeout = 50 * time.Millisecond
	DefaultWriteTimeout = 10 * time.Second
)

// Config holds the Kafka connection settings for the event notifier.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string `yaml:"brokers" envconfig:"NOTIFIER_KAFKA_BROKERS"`

	// Topic receives the schema lifecycle events.
	Topic string `yaml:"topic" envconfig:"NOTIFIER_KAFKA_TOPIC"`

	// MaxAttempts bounds delivery retries inside the writer.
	MaxAttempts int `yaml:"max_attempts" envconfig:"NOTIFIER_KAFKA_MAX_ATTEMPTS"`

	// BatchTimeout is how long the writer may buffer before flushing.
	BatchTimeout time.Duration `yaml:"batch_timeout" envconfig:"NOTIFIER_KAFKA_BATCH_TIMEOUT"`

	// WriteTimeout bounds one write round trip.
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"NOTIFIER_KAFKA_WRITE_TIMEOUT"`
}
