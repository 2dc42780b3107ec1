// Package relational implements the CRM repositories on a relational
// database through gorm. Aggregates are spread over normalized tables,
// writes are native upserts inside a database transaction, and filter
// conditions are compiled to joins and predicates from gorm's schema
// metadata.
package relational

import (
	"context"
	"time"

	"gorm.io/gorm"

	"crmcore/internal/observability"
	"crmcore/internal/platform/logger"
	"crmcore/pkg/domain"
)

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger used by units of work.
func WithLogger(l *logger.Logger) Option {
	return func(s *Storage) { s.log = logger.OrNop(l) }
}

// WithMetrics records unit-of-work outcomes into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Storage) { s.metrics = m }
}

// WithClock overrides the time source used for transaction durations.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

// Storage exposes a gorm database through the domain storage contract.
type Storage struct {
	db      *gorm.DB
	dialect Dialect
	log     *logger.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

var _ domain.Storage = (*Storage)(nil)

// New wraps an already migrated database.
func New(db *gorm.DB, dialect Dialect, opts ...Option) *Storage {
	s := &Storage{db: db, dialect: dialect, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects, migrates and wraps the database.
func Open(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*Storage, error) {
	s := New(nil, dialect, opts...)
	db, err := OpenDB(ctx, dialect, dsn, s.log)
	if err != nil {
		return nil, err
	}
	s.db = db
	return s, nil
}

// DB returns the underlying gorm handle.
func (s *Storage) DB() *gorm.DB { return s.db }

// SeedReferenceData upserts lookup rows.
func (s *Storage) SeedReferenceData(ctx context.Context, ref ReferenceData) error {
	return SeedReferenceData(ctx, s.db, ref)
}

func newUnitOfWork[R any](s *Storage, repository string, newRepo func(*session) R) *UnitOfWork[R] {
	return &UnitOfWork[R]{
		db:         s.db,
		dialect:    s.dialect,
		repository: repository,
		newRepo:    newRepo,
		log:        s.log,
		metrics:    s.metrics,
		now:        s.now,
	}
}

func (s *Storage) Customers() domain.UnitOfWork[domain.CustomerRepository] {
	return newUnitOfWork(s, "customers", newCustomerRepository)
}

func (s *Storage) Leads() domain.UnitOfWork[domain.LeadRepository] {
	return newUnitOfWork(s, "leads", newLeadRepository)
}

func (s *Storage) Opportunities() domain.UnitOfWork[domain.OpportunityRepository] {
	return newUnitOfWork(s, "opportunities", newOpportunityRepository)
}

func (s *Storage) SalesRepresentatives() domain.UnitOfWork[domain.SalesRepresentativeRepository] {
	return newUnitOfWork(s, "sales_representatives", newSalesRepresentativeRepository)
}

func (s *Storage) Query() domain.QueryService { return queryService{db: s.db} }

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
