package blobstore

import (
	"context"

	"go.uber.org/fx"

	"github.com/arcstream/schema-registry/pkg/logger"
)

// FXModule provides the MinIO-backed blob Store.
var FXModule = fx.Module("blobstore",
	fx.Provide(
		func(cfg Config, log *logger.Logger) (*MinioStore, error) {
			return NewMinioStore(cfg, log)
		},
		func(store *MinioStore) Store { return store },
	),
	fx.Invoke(RegisterBlobstoreLifecycle),
)

// RegisterBlobstoreLifecycle logs availability of the blob store. The MinIO
// client needs no explicit teardown.
func RegisterBlobstoreLifecycle(lc fx.Lifecycle, store *MinioStore) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			store.logger.Info("blob store ready", nil, map[string]interface{}{
				"bucket": store.cfg.Connection.BucketName,
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			store.logger.Info("closing blob store...", nil, nil)
			return nil
		},
	})
}
