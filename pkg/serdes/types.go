package serdes

import "time"

// Role tags a descriptor as serializer or deserializer.
type Role string

const (
	RoleSerializer   Role = "SERIALIZER"
	RoleDeserializer Role = "DESERIALIZER"
)

// SerDesInfo describes a registered serializer or deserializer: a display
// name, the class to construct and the blob store file id of the archive
// carrying its implementation.
type SerDesInfo struct {
	ID          int64
	Name        string
	Description string
	ClassName   string
	FileID      string
	Role        Role
	CreatedAt   time.Time
}

// Serializer is the capability expected from instantiated serializers.
// Instances are initialized once, used for any number of payloads and closed
// when done.
type Serializer interface {
	// Init prepares the instance with implementation-specific configuration.
	Init(config map[string]interface{}) error

	// Serialize encodes input into its wire representation.
	Serialize(input interface{}) ([]byte, error)

	// Close releases any resources held by the instance.
	Close() error
}

// Deserializer is the capability expected from instantiated deserializers.
type Deserializer interface {
	// Init prepares the instance with implementation-specific configuration.
	Init(config map[string]interface{}) error

	// Deserialize decodes payload back into its native representation.
	Deserialize(payload []byte) (interface{}, error)

	// Close releases any resources held by the instance.
	Close() error
}
