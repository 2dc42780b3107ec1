// Package snapshot implements the CRM repositories over a whole-store
// snapshot. The store is held in memory as a keyed arena of records and
// written in full to a durable backend (memory, JSON file, SQL state table or
// blob object) on every commit. Each unit of work runs on a private copy
// taken on Begin; Rollback drops it.
package snapshot

import (
	"time"

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

// Storage exposes the snapshot store through the domain storage contract.
type Storage struct {
	store   *Store
	log     *logger.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

var _ domain.Storage = (*Storage)(nil)

// New returns a Storage over backend.
func New(backend Backend, opts ...Option) *Storage {
	s := &Storage{store: NewStore(backend), log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMemory returns a Storage without durability.
func NewMemory(opts ...Option) *Storage { return New(NewMemoryBackend(), opts...) }

// Store returns the shared store.
func (s *Storage) Store() *Store { return s.store }

func newUnitOfWork[R any](s *Storage, repository string, newRepo func(*transaction) R) *UnitOfWork[R] {
	return &UnitOfWork[R]{
		store:      s.store,
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

func (s *Storage) Query() domain.QueryService { return queryService{store: s.store} }

func (s *Storage) Close() error { return s.store.Close() }
