package schemaregistry

import (
	"errors"
	"fmt"

	"github.com/arcstream/schema-registry/pkg/compat"
	"github.com/arcstream/schema-registry/pkg/serdes"
)

var (
	// ErrNotFound is returned when a metadata id or name, version, file id or
	// serde id cannot be resolved.
	ErrNotFound = errors.New("schema registry: not found")

	// ErrInvalidSchema is returned when candidate schema text fails the
	// well-formedness check of its declared type.
	ErrInvalidSchema = errors.New("schema registry: invalid schema")

	// ErrIncompatibleSchema is returned when a candidate fails the metadata's
	// compatibility policy. The concrete error is an IncompatibleSchemaError
	// naming the version and direction that failed.
	ErrIncompatibleSchema = errors.New("schema registry: incompatible schema")

	// ErrMetadataConflict is returned when metadata is registered under an
	// existing name with different content.
	ErrMetadataConflict = errors.New("schema registry: metadata exists with different content")

	// ErrInstantiation mirrors the serde instantiation failure class so
	// callers only need this package's taxonomy.
	ErrInstantiation = serdes.ErrInstantiation
)

// IncompatibleSchemaError reports which prior version and which direction a
// candidate failed against.
type IncompatibleSchemaError struct {
	SchemaMetadataID int64
	Version          int
	Direction        compat.Direction
	Reason           string
}

func (e *IncompatibleSchemaError) Error() string {
	msg := fmt.Sprintf("%v: candidate not %s compatible with version %d of metadata %d",
		ErrIncompatibleSchema, e.Direction, e.Version, e.SchemaMetadataID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *IncompatibleSchemaError) Unwrap() error {
	return ErrIncompatibleSchema
}
