package serdes

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/arcstream/schema-registry/pkg/blobstore"
)

// ErrInstantiation wraps every failure to turn a descriptor into a live
// instance: missing class, broken archive or an implementation that does not
// satisfy the requested capability. Missing archives surface as
// blobstore.ErrNotFound instead, so callers can tell absent state from
// construction failures.
var ErrInstantiation = errors.New("serde instantiation failed")

// ErrWrongRole is returned when a serializer instance is requested from a
// deserializer descriptor or vice versa.
var ErrWrongRole = errors.New("serde descriptor has wrong role")

// Logger is the logging interface consumed by this package.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Instantiator downloads serde archives from the blob store and constructs
// instances through a Loader. Instances are never cached; every call returns
// a fresh one and the caller owns its lifecycle: Init, use, Close.
type Instantiator struct {
	blobs  blobstore.Store
	loader Loader
	logger Logger
}

// NewInstantiator wires an instantiator from its collaborators.
func NewInstantiator(blobs blobstore.Store, loader Loader, logger Logger) *Instantiator {
	return &Instantiator{
		blobs:  blobs,
		loader: loader,
		logger: logger,
	}
}

// CreateSerializer constructs a new Serializer from the descriptor.
func (i *Instantiator) CreateSerializer(ctx context.Context, info SerDesInfo) (Serializer, error) {
	if info.Role != RoleSerializer {
		return nil, fmt.Errorf("%w: %q is registered as %s", ErrWrongRole, info.Name, info.Role)
	}

	instance, err := i.instantiate(ctx, info)
	if err != nil {
		return nil, err
	}

	serializer, ok := instance.(Serializer)
	if !ok {
		return nil, fmt.Errorf("%w: class %q does not implement Serializer", ErrInstantiation, info.ClassName)
	}

	return serializer, nil
}

// CreateDeserializer constructs a new Deserializer from the descriptor.
func (i *Instantiator) CreateDeserializer(ctx context.Context, info SerDesInfo) (Deserializer, error) {
	if info.Role != RoleDeserializer {
		return nil, fmt.Errorf("%w: %q is registered as %s", ErrWrongRole, info.Name, info.Role)
	}

	instance, err := i.instantiate(ctx, info)
	if err != nil {
		return nil, err
	}

	deserializer, ok := instance.(Deserializer)
	if !ok {
		return nil, fmt.Errorf("%w: class %q does not implement Deserializer", ErrInstantiation, info.ClassName)
	}

	return deserializer, nil
}

func (i *Instantiator) instantiate(ctx context.Context, info SerDesInfo) (interface{}, error) {
	reader, err := i.blobs.Download(ctx, info.FileID)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("serde archive %q: %w", info.FileID, err)
		}
		return nil, fmt.Errorf("%w: downloading archive %q: %v", ErrInstantiation, info.FileID, err)
	}
	defer reader.Close()

	archive, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading archive %q: %v", ErrInstantiation, info.FileID, err)
	}

	instance, err := i.loader.Load(archive, info.ClassName)
	if err != nil {
		i.logger.Error("failed to load serde class", err, map[string]interface{}{
			"class_name": info.ClassName,
			"file_id":    info.FileID,
		})
		return nil, fmt.Errorf("%w: %v", ErrInstantiation, err)
	}

	i.logger.Debug("instantiated serde", nil, map[string]interface{}{
		"class_name": info.ClassName,
		"role":       string(info.Role),
	})

	return instance, nil
}
