// Package config loads process configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Backend selects the storage family.
type Backend string

const (
	BackendSnapshot   Backend = "snapshot"
	BackendRelational Backend = "relational"
)

// SnapshotDriver selects where the snapshot store keeps its durable form.
type SnapshotDriver string

const (
	SnapshotMemory   SnapshotDriver = "memory"   // no durability (tests / ephemeral)
	SnapshotFile     SnapshotDriver = "file"     // JSON document on local disk
	SnapshotSQLite   SnapshotDriver = "sqlite"   // state table in an sqlite file
	SnapshotPostgres SnapshotDriver = "postgres" // state table in PostgreSQL
	SnapshotS3       SnapshotDriver = "s3"       // object in an S3 / MinIO bucket
)

// Dialect selects the relational database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config is the complete process configuration.
type Config struct {
	Backend    Backend `env:"CRMCORE_BACKEND"  envDefault:"snapshot"`
	LogMode    string  `env:"CRMCORE_LOG_MODE" envDefault:"development"`
	Snapshot   SnapshotConfig
	Relational RelationalConfig
	S3         S3Config
}

// SnapshotConfig configures the snapshot backend.
type SnapshotConfig struct {
	Driver      SnapshotDriver `env:"CRMCORE_SNAPSHOT_DRIVER" envDefault:"file"`
	Path        string         `env:"CRMCORE_SNAPSHOT_PATH"   envDefault:"crmcore.snapshot.json"`
	Key         string         `env:"CRMCORE_SNAPSHOT_KEY"    envDefault:"crm"`
	SQLitePath  string         `env:"CRMCORE_SQLITE_PATH"     envDefault:"crmcore.db"`
	PostgresDSN string         `env:"CRMCORE_POSTGRES_DSN"`
}

// RelationalConfig configures the relational backend.
type RelationalConfig struct {
	Dialect Dialect `env:"CRMCORE_RELATIONAL_DIALECT" envDefault:"sqlite"`
	DSN     string  `env:"CRMCORE_RELATIONAL_DSN"     envDefault:"crmcore.relational.db"`
}

// S3Config configures the bucket used by the s3 snapshot driver.
type S3Config struct {
	Bucket          string `env:"CRMCORE_S3_BUCKET"`
	Region          string `env:"CRMCORE_S3_REGION"            envDefault:"us-east-1"`
	Endpoint        string `env:"CRMCORE_S3_ENDPOINT"`
	PathStyle       bool   `env:"CRMCORE_S3_PATH_STYLE"`
	AccessKeyID     string `env:"CRMCORE_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"CRMCORE_S3_SECRET_ACCESS_KEY"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and missing required settings.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSnapshot:
		return c.validateSnapshot()
	case BackendRelational:
		switch c.Relational.Dialect {
		case DialectSQLite, DialectPostgres:
		default:
			return fmt.Errorf("unknown relational dialect %q", c.Relational.Dialect)
		}
		if c.Relational.DSN == "" {
			return fmt.Errorf("CRMCORE_RELATIONAL_DSN required for relational backend")
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
}

func (c Config) validateSnapshot() error {
	switch c.Snapshot.Driver {
	case SnapshotMemory:
	case SnapshotFile:
		if c.Snapshot.Path == "" {
			return fmt.Errorf("CRMCORE_SNAPSHOT_PATH required for file driver")
		}
	case SnapshotSQLite:
		if c.Snapshot.SQLitePath == "" {
			return fmt.Errorf("CRMCORE_SQLITE_PATH required for sqlite driver")
		}
	case SnapshotPostgres:
		if c.Snapshot.PostgresDSN == "" {
			return fmt.Errorf("CRMCORE_POSTGRES_DSN required for postgres driver")
		}
	case SnapshotS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("CRMCORE_S3_BUCKET required for s3 driver")
		}
		if c.Snapshot.Key == "" {
			return fmt.Errorf("CRMCORE_SNAPSHOT_KEY required for s3 driver")
		}
	default:
		return fmt.Errorf("unknown snapshot driver %q", c.Snapshot.Driver)
	}
	return nil
}
