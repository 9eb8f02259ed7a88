package schemaregistry

import "time"

// Built-in schema type names. The set is open: any type with a registered
// compatibility provider is accepted.
const (
	TypeRecord   = "record"
	TypeAvro     = "avro"
	TypeJSON     = "json"
	TypeProtobuf = "protobuf"
)

// Compatibility is the evolution policy of a schema family. It governs which
// candidate texts may be appended as new versions.
type Compatibility string

const (
	// CompatibilityNone accepts every candidate.
	CompatibilityNone Compatibility = "NONE"

	// CompatibilityBackward requires the candidate to read data written with
	// the immediately previous version.
	CompatibilityBackward Compatibility = "BACKWARD"

	// CompatibilityForward requires the immediately previous version to read
	// data written with the candidate.
	CompatibilityForward Compatibility = "FORWARD"

	// CompatibilityBoth requires both directions against the immediately
	// previous version.
	CompatibilityBoth Compatibility = "BOTH"

	// CompatibilityFull requires both directions against every existing
	// version, not just the previous one.
	CompatibilityFull Compatibility = "FULL"
)

// DefaultCompatibility is applied when metadata is registered without an
// explicit policy.
const DefaultCompatibility = CompatibilityBackward

func (c Compatibility) valid() bool {
	switch c {
	case CompatibilityNone, CompatibilityBackward, CompatibilityForward,
		CompatibilityBoth, CompatibilityFull:
		return true
	}
	return false
}

// SchemaMetadata is the named, typed, policy-bearing identity of a schema
// family. The numeric ID is assigned on registration and stable for the
// record's lifetime; Name is the unique logical key.
type SchemaMetadata struct {
	ID            int64
	Name          string
	Type          string
	Description   string
	Compatibility Compatibility
	Evolve        bool
	CreatedAt     time.Time
}

// SchemaKey identifies one immutable schema version under a metadata id.
type SchemaKey struct {
	SchemaMetadataID int64
	Version          int
}

// SchemaVersion is one entry of a schema family's append-only version ledger.
type SchemaVersion struct {
	Key         SchemaKey
	SchemaText  string
	Fingerprint string
	Description string
	CreatedAt   time.Time
}
