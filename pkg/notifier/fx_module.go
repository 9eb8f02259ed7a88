package notifier

import (
	"context"

	"go.uber.org/fx"

	"github.com/arcstream/schema-registry/pkg/logger"
	"github.com/arcstream/schema-registry/pkg/schemaregistry"
)

// Params holds the dependencies required to construct the notifier.
type Params struct {
	fx.In

	Config Config
	Logger *logger.Logger
}

// FXModule provides the Kafka notifier to an fx application and closes its
// writer on shutdown.
var FXModule = fx.Module("notifier",
	fx.Provide(
		func(p Params) (*KafkaNotifier, error) {
			return NewKafkaNotifier(p.Config, p.Logger)
		},
		func(n *KafkaNotifier) schemaregistry.Notifier { return n },
	),
	fx.Invoke(RegisterNotifierLifecycle),
)

// RegisterNotifierLifecycle hooks writer shutdown into the fx lifecycle.
func RegisterNotifierLifecycle(lc fx.Lifecycle, n *KafkaNotifier) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return n.Close()
		},
	})
}
