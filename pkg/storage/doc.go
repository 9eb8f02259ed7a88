// Package storage persists the three record kinds of the registry: schema
// metadata, the append-only version ledger, and serde descriptors with their
// schema associations.
//
// Two implementations of the Store interface are provided. MemoryStore is a
// thread-safe in-memory store for tests and embedded use. PostgresStore is
// the production backend on GORM; its composite unique index on
// (schema_metadata_id, version) provides the atomic append-if-version-absent
// primitive that the registration protocol relies on, and connection
// monitoring with automatic reconnection keeps the store usable across
// database restarts.
//
// All lookups fail with ErrNotFound, name collisions with ErrAlreadyExists,
// and a lost append race with ErrVersionConflict.
package storage
