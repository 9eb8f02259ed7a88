package schemaregistry

import (
	"go.uber.org/fx"

	"github.com/arcstream/schema-registry/pkg/blobstore"
	"github.com/arcstream/schema-registry/pkg/compat"
	"github.com/arcstream/schema-registry/pkg/logger"
	"github.com/arcstream/schema-registry/pkg/serdes"
	"github.com/arcstream/schema-registry/pkg/storage"
)

// Params holds the dependencies required to construct the registry service.
// Notifier, Metrics and Tracer are optional; the service runs without them.
type Params struct {
	fx.In

	Store        storage.Store
	Providers    *compat.Providers
	Blobs        blobstore.Store
	Instantiator *serdes.Instantiator
	Logger       *logger.Logger
	Notifier     Notifier `optional:"true"`
	Metrics      Metrics  `optional:"true"`
	Tracer       Tracer   `optional:"true"`
}

// NewRegistryService constructs the service from injected dependencies.
func NewRegistryService(p Params) *Service {
	opts := make([]Option, 0, 3)
	if p.Notifier != nil {
		opts = append(opts, WithNotifier(p.Notifier))
	}
	if p.Metrics != nil {
		opts = append(opts, WithMetrics(p.Metrics))
	}
	if p.Tracer != nil {
		opts = append(opts, WithTracer(p.Tracer))
	}
	return NewService(p.Store, p.Providers, p.Blobs, p.Instantiator, p.Logger, opts...)
}

// FXModule provides the registry service to an fx application.
var FXModule = fx.Module("schemaregistry",
	fx.Provide(
		NewRegistryService,
		func(s *Service) Registry { return s },
	),
)
