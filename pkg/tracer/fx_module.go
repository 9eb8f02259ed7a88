package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/arcstream/schema-registry/pkg/logger"
	"github.com/arcstream/schema-registry/pkg/schemaregistry"
)

// FXModule provides the tracer to an fx application and flushes pending spans
// on shutdown.
var FXModule = fx.Module("tracer",
	fx.Provide(
		func(cfg Config, log *logger.Logger) *Tracer {
			return NewClient(cfg, log)
		},
		func(t *Tracer) schemaregistry.Tracer { return t },
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle hooks provider shutdown into the fx lifecycle.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("shutting down tracer...", nil, nil)
			if tracer.tracer == nil {
				tracer.logger.Warn("tracer was nil during shutdown", nil, nil)
				return nil
			}
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
