// Package schemaregistry implements the registry core: named schema families
// with immutable numeric ids, an append-only version ledger per family, policy
// driven compatibility enforcement on registration, and serializer and
// deserializer descriptors that can be mapped to families and instantiated at
// runtime.
//
// Registration is idempotent on content: re-registering text whose SHA-256
// fingerprint already exists under the family returns the existing SchemaKey.
// New text is evaluated against the family's compatibility policy (NONE,
// BACKWARD, FORWARD, BOTH or FULL) and, on acceptance, appended with the next
// version number. Versions are gap free and start at 1. Concurrent
// registrations against one family are serialized in-process by a keyed mutex
// and across processes by the storage layer's conditional append, retried on
// version conflicts.
//
// The service is assembled from explicit collaborators, never globals:
//
//	store := storage.NewMemoryStore()
//	providers := compat.NewProviders(compat.NewRecordProvider())
//	blobs := blobstore.NewMemoryStore()
//	loader := serdes.NewFactoryLoader()
//	inst := serdes.NewInstantiator(blobs, loader, log)
//
//	registry := schemaregistry.NewService(store, providers, blobs, inst, log)
//
//	md, err := registry.RegisterSchemaMetadata(ctx, schemaregistry.SchemaMetadata{
//		Name:          "orders-value",
//		Type:          schemaregistry.TypeRecord,
//		Compatibility: schemaregistry.CompatibilityBackward,
//		Evolve:        true,
//	})
//	if err != nil {
//		return err
//	}
//	key, err := registry.AddVersionedSchema(ctx, md.ID, orderSchemaV1, "initial")
//
// Applications using fx wire the same graph through FXModule and the modules
// of the collaborator packages.
package schemaregistry
