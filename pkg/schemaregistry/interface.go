package schemaregistry

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/arcstream/schema-registry/pkg/serdes"
)

// Registry is the client-visible surface of the schema registry. Name-keyed
// operations resolve the metadata id and delegate to the id-keyed form; the
// two call forms never diverge in behavior.
type Registry interface {
	// RegisterSchemaMetadata creates the metadata record if the name is
	// unseen and returns it with its assigned id. Registering an existing
	// name with identical content returns the stored record unchanged;
	// different content fails with ErrMetadataConflict.
	RegisterSchemaMetadata(ctx context.Context, metadata SchemaMetadata) (SchemaMetadata, error)

	// GetSchemaMetadata resolves metadata by id.
	GetSchemaMetadata(ctx context.Context, metadataID int64) (SchemaMetadata, error)

	// GetSchemaMetadataByName resolves metadata by its unique name.
	GetSchemaMetadataByName(ctx context.Context, name string) (SchemaMetadata, error)

	// RegisterSchema is the get-or-create registration: it ensures the
	// metadata exists, then registers schemaText as a version, reusing the
	// existing version when the text was seen before.
	RegisterSchema(ctx context.Context, metadata SchemaMetadata, schemaText, description string) (SchemaKey, error)

	// AddVersionedSchema registers schemaText against existing metadata.
	// Identical text returns the existing key; new text is evaluated against
	// the metadata's compatibility policy and appended on acceptance.
	AddVersionedSchema(ctx context.Context, metadataID int64, schemaText, description string) (SchemaKey, error)

	// AddVersionedSchemaByName is AddVersionedSchema keyed by metadata name.
	AddVersionedSchemaByName(ctx context.Context, name, schemaText, description string) (SchemaKey, error)

	// GetSchema returns one version entry.
	GetSchema(ctx context.Context, key SchemaKey) (SchemaVersion, error)

	// GetLatestSchema returns the highest version of the metadata id. It
	// fails with ErrNotFound when the metadata is unknown or has no versions.
	GetLatestSchema(ctx context.Context, metadataID int64) (SchemaVersion, error)

	// GetLatestSchemaByName is GetLatestSchema keyed by metadata name.
	GetLatestSchemaByName(ctx context.Context, name string) (SchemaVersion, error)

	// GetAllVersions returns all versions of the metadata id in ascending
	// order. Unknown metadata fails with ErrNotFound; existing metadata with
	// zero versions yields an empty slice.
	GetAllVersions(ctx context.Context, metadataID int64) ([]SchemaVersion, error)

	// GetAllVersionsByName is GetAllVersions keyed by metadata name.
	GetAllVersionsByName(ctx context.Context, name string) ([]SchemaVersion, error)

	// ListAllSchemas enumerates every version entry across all metadata,
	// ordered by metadata id then version.
	ListAllSchemas(ctx context.Context) ([]SchemaVersion, error)

	// IsCompatibleWithAllVersions probes whether schemaText is compatible in
	// both directions with every existing version, regardless of the
	// metadata's configured policy. It never mutates the ledger.
	IsCompatibleWithAllVersions(ctx context.Context, metadataID int64, schemaText string) (bool, error)

	// IsCompatibleWithAllVersionsByName is the name-keyed probe.
	IsCompatibleWithAllVersionsByName(ctx context.Context, name, schemaText string) (bool, error)

	// UploadFile stores an artifact and returns its file id.
	UploadFile(ctx context.Context, content io.Reader) (string, error)

	// DownloadFile streams a stored artifact back. The caller closes the
	// returned reader.
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error)

	// AddSerializer registers a serializer descriptor and returns its id.
	// Descriptors are never deduplicated.
	AddSerializer(ctx context.Context, info serdes.SerDesInfo) (int64, error)

	// AddDeserializer registers a deserializer descriptor and returns its id.
	AddDeserializer(ctx context.Context, info serdes.SerDesInfo) (int64, error)

	// MapSchemaWithSerDes associates a descriptor with a schema family. The
	// association is idempotent; unknown ids fail with ErrNotFound.
	MapSchemaWithSerDes(ctx context.Context, metadataID, serDesID int64) error

	// MapSchemaWithSerDesByName is MapSchemaWithSerDes keyed by metadata name.
	MapSchemaWithSerDesByName(ctx context.Context, name string, serDesID int64) error

	// GetSerializers lists serializer descriptors mapped to the metadata id.
	GetSerializers(ctx context.Context, metadataID int64) ([]serdes.SerDesInfo, error)

	// GetSerializersByName is GetSerializers keyed by metadata name.
	GetSerializersByName(ctx context.Context, name string) ([]serdes.SerDesInfo, error)

	// GetDeserializers lists deserializer descriptors mapped to the metadata id.
	GetDeserializers(ctx context.Context, metadataID int64) ([]serdes.SerDesInfo, error)

	// GetDeserializersByName is GetDeserializers keyed by metadata name.
	GetDeserializersByName(ctx context.Context, name string) ([]serdes.SerDesInfo, error)

	// CreateSerializerInstance constructs a fresh serializer from a
	// registered descriptor.
	CreateSerializerInstance(ctx context.Context, serDesID int64) (serdes.Serializer, error)

	// CreateDeserializerInstance constructs a fresh deserializer from a
	// registered descriptor.
	CreateDeserializerInstance(ctx context.Context, serDesID int64) (serdes.Deserializer, error)
}

// Logger is the logging interface consumed by this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Notifier receives schema lifecycle events. Delivery is best effort: the
// service logs notifier failures and never fails the triggering operation.
type Notifier interface {
	SchemaMetadataCreated(ctx context.Context, metadata SchemaMetadata) error
	SchemaVersionAdded(ctx context.Context, metadata SchemaMetadata, version SchemaVersion) error
}

// Metrics receives registry-domain measurements.
type Metrics interface {
	ObserveRegistration(schemaType, outcome string, duration time.Duration)
	ObserveCompatibilityCheck(schemaType string, compatible bool)
}

// Tracer starts spans around registry operations.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
}
