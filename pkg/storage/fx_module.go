package storage

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/arcstream/schema-registry/pkg/logger"
)

// FXModule provides the Postgres-backed Store and its connection lifecycle.
var FXModule = fx.Module("storage",
	fx.Provide(
		func(cfg Config, log *logger.Logger) (*PostgresStore, error) {
			return NewPostgresStore(cfg, log)
		},
		func(store *PostgresStore) Store { return store },
	),
	fx.Invoke(RegisterStorageLifecycle),
)

// RegisterStorageLifecycle starts the connection monitor and retry loops on
// application start and stops them on shutdown.
func RegisterStorageLifecycle(lc fx.Lifecycle, store *PostgresStore) {
	wg := &sync.WaitGroup{}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.MonitorConnection(ctx)
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				store.RetryConnection(ctx)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			store.logger.Info("closing storage...", nil, nil)
			close(store.shutdownSignal)

			wg.Wait()
			return nil
		},
	})
}
