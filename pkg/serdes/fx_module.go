package serdes

import (
	"go.uber.org/fx"

	"github.com/arcstream/schema-registry/pkg/blobstore"
	"github.com/arcstream/schema-registry/pkg/logger"
)

// Params holds the dependencies required to construct the instantiator.
type Params struct {
	fx.In

	Blobs  blobstore.Store
	Loader Loader
	Logger *logger.Logger
}

// FXModule provides the serde loader and instantiator to an fx application.
// The loader is the built-in FactoryLoader; applications register their
// implementations against it during startup.
var FXModule = fx.Module("serdes",
	fx.Provide(
		NewFactoryLoader,
		func(l *FactoryLoader) Loader { return l },
		func(p Params) *Instantiator {
			return NewInstantiator(p.Blobs, p.Loader, p.Logger)
		},
	),
)
