package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// sqlDialect captures the statements that differ between drivers.
type sqlDialect struct {
	name   string
	driver string
	ddl    string
	upsert string
}

var (
	sqliteDialect = sqlDialect{
		name:   "sqlite",
		driver: "sqlite",
		ddl: `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`,
		upsert: `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
	}
	postgresDialect = sqlDialect{
		name:   "postgres",
		driver: "pgx",
		ddl: `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`,
		upsert: `INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`,
	}
)

// SQLBackend keeps one row per bucket in a "state" table.
type SQLBackend struct {
	db      *sql.DB
	dialect sqlDialect
}

// NewSQLiteBackend opens (or creates) a sqlite database file at path.
func NewSQLiteBackend(ctx context.Context, path string) (*SQLBackend, error) {
	if path == "" {
		path = "crmcore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open(sqliteDialect.driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newSQLBackend(ctx, db, sqliteDialect)
}

// NewPostgresBackend connects to PostgreSQL through pgx.
func NewPostgresBackend(ctx context.Context, dsn string) (*SQLBackend, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open(postgresDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLBackend(ctx, db, postgresDialect)
}

func newSQLBackend(ctx context.Context, db *sql.DB, dialect sqlDialect) (*SQLBackend, error) {
	if _, err := db.ExecContext(ctx, dialect.ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SQLBackend{db: db, dialect: dialect}, nil
}

func (s *SQLBackend) Name() string { return s.dialect.name }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *SQLBackend) DB() *sql.DB { return s.db }

func (s *SQLBackend) Load(ctx context.Context) (Buckets, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := Buckets{}
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		out[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state: %w", err)
	}
	return out, nil
}

func (s *SQLBackend) Save(ctx context.Context, buckets Buckets) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, bucket := range names {
		if _, err := tx.ExecContext(ctx, s.dialect.upsert, bucket, buckets[bucket]); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (s *SQLBackend) Close() error { return s.db.Close() }
