package storage

import (
	"context"
	"time"
)

// SerDes roles stored on SerDesRecord.
const (
	RoleSerializer   = "SERIALIZER"
	RoleDeserializer = "DESERIALIZER"
)

// MetadataRecord is the persisted identity of a schema family. The numeric ID
// is assigned by the store on creation and never changes; Name is the unique
// logical key.
type MetadataRecord struct {
	ID            int64
	Name          string
	Type          string
	Description   string
	Compatibility string
	Evolve        bool
	CreatedAt     time.Time
}

// VersionRecord is one immutable entry of a schema family's version ledger.
type VersionRecord struct {
	SchemaMetadataID int64
	Version          int
	SchemaText       string
	Fingerprint      string
	Description      string
	CreatedAt        time.Time
}

// SerDesRecord describes a registered serializer or deserializer: the class
// to construct and the blob store file holding its binary.
type SerDesRecord struct {
	ID          int64
	Name        string
	Description string
	ClassName   string
	FileID      string
	Role        string
	CreatedAt   time.Time
}

// MetadataStore persists schema metadata records.
type MetadataStore interface {
	// CreateMetadata persists rec and returns its assigned ID. Fails with
	// ErrAlreadyExists when a record with the same name exists.
	CreateMetadata(ctx context.Context, rec *MetadataRecord) (int64, error)

	// GetMetadataByID returns the record with the given ID, or ErrNotFound.
	GetMetadataByID(ctx context.Context, id int64) (*MetadataRecord, error)

	// GetMetadataByName returns the record with the given name, or ErrNotFound.
	GetMetadataByName(ctx context.Context, name string) (*MetadataRecord, error)
}

// VersionStore persists the append-only version ledger.
type VersionStore interface {
	// AppendVersion persists rec if and only if no entry exists for the same
	// (schema metadata id, version) pair. Fails with ErrVersionConflict when
	// the slot is already taken, which callers use for optimistic retry.
	AppendVersion(ctx context.Context, rec *VersionRecord) error

	// GetVersion returns one ledger entry, or ErrNotFound.
	GetVersion(ctx context.Context, metadataID int64, version int) (*VersionRecord, error)

	// GetLatestVersion returns the entry with the highest version number for
	// the metadata id, or ErrNotFound when the ledger is empty.
	GetLatestVersion(ctx context.Context, metadataID int64) (*VersionRecord, error)

	// ListVersions returns all entries for the metadata id in ascending
	// version order. An empty ledger yields an empty slice.
	ListVersions(ctx context.Context, metadataID int64) ([]VersionRecord, error)

	// FindByFingerprint returns the entry under the metadata id whose
	// fingerprint matches, or ErrNotFound.
	FindByFingerprint(ctx context.Context, metadataID int64, fingerprint string) (*VersionRecord, error)

	// ListAllVersions returns every ledger entry across all metadata ids,
	// ordered by metadata id then version.
	ListAllVersions(ctx context.Context) ([]VersionRecord, error)
}

// SerDesStore persists serde descriptors and their schema associations.
type SerDesStore interface {
	// CreateSerDes persists rec and returns its assigned ID. Descriptors are
	// never deduplicated; every call creates a new record.
	CreateSerDes(ctx context.Context, rec *SerDesRecord) (int64, error)

	// GetSerDes returns the descriptor with the given ID, or ErrNotFound.
	GetSerDes(ctx context.Context, id int64) (*SerDesRecord, error)

	// MapSerDes associates a descriptor with a schema metadata id. Mapping an
	// existing pair again is a no-op.
	MapSerDes(ctx context.Context, metadataID, serDesID int64) error

	// ListSerDes returns the descriptors of the given role mapped to the
	// metadata id.
	ListSerDes(ctx context.Context, metadataID int64, role string) ([]SerDesRecord, error)
}

// Store aggregates the three persistence concerns of the registry. Both the
// in-memory store and the Postgres store implement it.
type Store interface {
	MetadataStore
	VersionStore
	SerDesStore
}
