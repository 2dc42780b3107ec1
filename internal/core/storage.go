package core

import (
	"context"
	"fmt"

	"crmcore/internal/config"
	"crmcore/internal/infra/blob/s3"
	"crmcore/internal/infra/persistence/relational"
	"crmcore/internal/infra/persistence/snapshot"
	"crmcore/internal/observability"
	"crmcore/internal/platform/logger"
	"crmcore/pkg/domain"
)

// OpenStorage selects a backend from cfg.
//
//	CRMCORE_BACKEND: snapshot|relational (default snapshot)
//	CRMCORE_SNAPSHOT_DRIVER: memory|file|sqlite|postgres|s3 (default file)
//	CRMCORE_RELATIONAL_DIALECT: sqlite|postgres (default sqlite)
func OpenStorage(ctx context.Context, cfg config.Config, log *logger.Logger, metrics *observability.Metrics) (domain.Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = logger.OrNop(log)
	switch cfg.Backend {
	case config.BackendRelational:
		s, err := relational.Open(ctx, relational.Dialect(cfg.Relational.Dialect), cfg.Relational.DSN,
			relational.WithLogger(log), relational.WithMetrics(metrics))
		if err != nil {
			return nil, fmt.Errorf("open relational storage: %w", err)
		}
		log.Info("storage opened", "backend", "relational", "dialect", cfg.Relational.Dialect)
		return s, nil
	default:
		backend, err := OpenSnapshotBackend(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open snapshot backend: %w", err)
		}
		log.Info("storage opened", "backend", "snapshot", "driver", backend.Name())
		return snapshot.New(backend, snapshot.WithLogger(log), snapshot.WithMetrics(metrics)), nil
	}
}

// OpenSnapshotBackend builds the durable backend named by cfg.Snapshot.Driver.
func OpenSnapshotBackend(ctx context.Context, cfg config.Config) (snapshot.Backend, error) {
	switch cfg.Snapshot.Driver {
	case config.SnapshotMemory:
		return snapshot.NewMemoryBackend(), nil
	case config.SnapshotFile:
		return snapshot.NewFileBackend(cfg.Snapshot.Path)
	case config.SnapshotSQLite:
		return snapshot.NewSQLiteBackend(ctx, cfg.Snapshot.SQLitePath)
	case config.SnapshotPostgres:
		return snapshot.NewPostgresBackend(ctx, cfg.Snapshot.PostgresDSN)
	case config.SnapshotS3:
		bucket, err := s3.New(ctx, s3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return snapshot.NewBlobBackend(bucket, cfg.Snapshot.Key)
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", cfg.Snapshot.Driver)
	}
}
