// Package notifier publishes schema lifecycle events to Kafka.
//
// Every metadata creation and version append produces one JSON Event on the
// configured topic, keyed by the schema family's name so per-family ordering
// survives partitioning. The registry invokes the notifier best effort:
// delivery failures are logged, never surfaced to the registering client.
//
//	n, err := notifier.NewKafkaNotifier(notifier.Config{
//		Brokers: []string{"localhost:9092"},
//	}, log)
//	if err != nil {
//		return err
//	}
//	defer n.Close()
//
//	registry := schemaregistry.NewService(store, providers, blobs, inst, log,
//		schemaregistry.WithNotifier(n))
package notifier
