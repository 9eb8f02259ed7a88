// Package tracer wraps OpenTelemetry tracing for the registry.
//
// NewClient builds a tracer provider, optionally exporting spans over OTLP
// HTTP, and registers it globally. The Tracer satisfies the registry
// service's Tracer interface, so wiring it in puts spans around registration
// and instantiation:
//
//	tc := tracer.NewClient(tracer.Config{
//		ServiceName:  "schema-registry",
//		AppEnv:       "production",
//		EnableExport: true,
//	}, log)
//
//	registry := schemaregistry.NewService(store, providers, blobs, inst, log,
//		schemaregistry.WithTracer(tc))
package tracer
