// Command snapshot-to-sql copies every aggregate of a snapshot store into a
// relational database, seeding the reference tables the aggregates need.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"crmcore/internal/config"
	"crmcore/internal/core"
	"crmcore/internal/infra/persistence/relational"
	"crmcore/internal/infra/persistence/snapshot"
	"crmcore/internal/platform/logger"
	"crmcore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

// counts reports how many aggregates of each kind were copied.
type counts struct {
	customers, leads, opportunities, salesRepresentatives int
}

func cli(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	fs := flag.NewFlagSet("snapshot-to-sql", flag.ContinueOnError)
	fs.SetOutput(stderr)
	driver := fs.String("snapshot-driver", string(cfg.Snapshot.Driver), "source snapshot driver (memory|file|sqlite|postgres|s3)")
	fs.StringVar(&cfg.Snapshot.Path, "snapshot-path", cfg.Snapshot.Path, "source snapshot file for the file driver")
	fs.StringVar(&cfg.Snapshot.SQLitePath, "snapshot-sqlite", cfg.Snapshot.SQLitePath, "source sqlite file for the sqlite driver")
	fs.StringVar(&cfg.Snapshot.PostgresDSN, "snapshot-postgres", cfg.Snapshot.PostgresDSN, "source DSN for the postgres driver")
	dialect := fs.String("dialect", string(cfg.Relational.Dialect), "target dialect (sqlite|postgres)")
	fs.StringVar(&cfg.Relational.DSN, "dsn", cfg.Relational.DSN, "target database DSN or sqlite path")
	fs.StringVar(&cfg.LogMode, "log-mode", cfg.LogMode, "log mode (development|production|nop)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg.Backend = config.BackendSnapshot
	cfg.Snapshot.Driver = config.SnapshotDriver(*driver)
	cfg.Relational.Dialect = config.Dialect(*dialect)

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	n, err := run(ctx, cfg, log)
	if err != nil {
		log.Error("copy failed", "error", err)
		fmt.Fprintf(stderr, "snapshot-to-sql: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "copied %d customers, %d leads, %d opportunities, %d sales representatives\n",
		n.customers, n.leads, n.opportunities, n.salesRepresentatives)
	return 0
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) (n counts, err error) {
	if err := cfg.Validate(); err != nil {
		return n, err
	}
	backend, err := core.OpenSnapshotBackend(ctx, cfg)
	if err != nil {
		return n, fmt.Errorf("open snapshot: %w", err)
	}
	src := snapshot.New(backend, snapshot.WithLogger(log))
	defer func() { err = errors.Join(err, src.Close()) }()

	q := src.Query()
	customers, err := q.Customers(ctx, nil)
	if err != nil {
		return n, fmt.Errorf("read customers: %w", err)
	}
	leads, err := q.Leads(ctx, nil)
	if err != nil {
		return n, fmt.Errorf("read leads: %w", err)
	}
	opportunities, err := q.Opportunities(ctx, nil)
	if err != nil {
		return n, fmt.Errorf("read opportunities: %w", err)
	}
	reps, err := q.SalesRepresentatives(ctx, nil)
	if err != nil {
		return n, fmt.Errorf("read sales representatives: %w", err)
	}

	dst, err := relational.Open(ctx, relational.Dialect(cfg.Relational.Dialect), cfg.Relational.DSN, relational.WithLogger(log))
	if err != nil {
		return n, fmt.Errorf("open relational: %w", err)
	}
	defer func() { err = errors.Join(err, dst.Close()) }()

	if err := dst.SeedReferenceData(ctx, relational.CollectReferences(customers, opportunities)); err != nil {
		return n, fmt.Errorf("seed reference data: %w", err)
	}
	if err := copyAll(ctx, dst.Customers(), customers); err != nil {
		return n, fmt.Errorf("copy customers: %w", err)
	}
	if err := copyAll(ctx, dst.Leads(), leads); err != nil {
		return n, fmt.Errorf("copy leads: %w", err)
	}
	if err := copyAll(ctx, dst.Opportunities(), opportunities); err != nil {
		return n, fmt.Errorf("copy opportunities: %w", err)
	}
	if err := copyAll(ctx, dst.SalesRepresentatives(), reps); err != nil {
		return n, fmt.Errorf("copy sales representatives: %w", err)
	}
	n = counts{len(customers), len(leads), len(opportunities), len(reps)}
	log.Info("snapshot copied", "driver", backend.Name(), "dialect", cfg.Relational.Dialect,
		"customers", n.customers, "leads", n.leads, "opportunities", n.opportunities, "sales_representatives", n.salesRepresentatives)
	return n, nil
}

// copyAll upserts items in a single transaction, so reruns are idempotent.
func copyAll[A any, R domain.Repository[A]](ctx context.Context, uow domain.UnitOfWork[R], items []A) error {
	return domain.Within(ctx, uow, func(repo R) error {
		for _, item := range items {
			if err := repo.Update(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
}
