package snapshot

import (
	"context"
	"time"

	"crmcore/internal/observability"
	"crmcore/internal/platform/logger"
	"crmcore/pkg/domain"
)

// transaction is the state of one active unit of work: a private copy of
// the store taken on Begin and the records written to it since.
type transaction struct {
	work    *arena
	writes  map[writeKey]write
	order   []writeKey
	started time.Time
	done    bool
}

type writeKey struct {
	kind string
	id   string
}

// write replays one record onto the shared contents.
type write struct {
	created bool
	exists  func(*arena) bool
	apply   func(*arena)
}

func (t *transaction) check() error {
	if t.done {
		return domain.ErrNoActiveTransaction
	}
	return nil
}

// record remembers the latest write of a record. A record created earlier in
// the same transaction stays a creation.
func (t *transaction) record(key writeKey, w write) {
	if prev, ok := t.writes[key]; ok {
		w.created = w.created || prev.created
	} else {
		t.order = append(t.order, key)
	}
	t.writes[key] = w
}

// UnitOfWork copies the whole store on Begin and works on that copy. Commit
// lands the written records on the store and flushes it; Rollback drops the
// copy.
type UnitOfWork[R any] struct {
	store      *Store
	repository string
	newRepo    func(*transaction) R
	log        *logger.Logger
	metrics    *observability.Metrics
	now        func() time.Time

	tx   *transaction
	repo R
}

var _ domain.UnitOfWork[domain.CustomerRepository] = (*UnitOfWork[domain.CustomerRepository])(nil)

func (u *UnitOfWork[R]) backend() string { return "snapshot-" + u.store.backend.Name() }

// Begin loads the store from the backend on first use and takes a private
// copy of its contents.
func (u *UnitOfWork[R]) Begin(ctx context.Context) error {
	if u.tx != nil {
		return domain.ErrTransactionActive
	}
	work, err := u.store.snapshot(ctx)
	if err != nil {
		u.log.Error("snapshot open failed", "backend", u.backend(), "repository", u.repository, "error", err)
		return err
	}
	u.tx = &transaction{work: work, writes: make(map[writeKey]write), started: u.now()}
	u.repo = u.newRepo(u.tx)
	u.log.Debug("begin", "backend", u.backend(), "repository", u.repository, "records", work.size())
	return nil
}

// Commit lands the written records on the store and flushes it. When the
// flush fails the store keeps its previous contents and the error carries
// CodeStorage. The transaction ends either way.
func (u *UnitOfWork[R]) Commit(ctx context.Context) error {
	if u.tx == nil {
		return domain.ErrNoActiveTransaction
	}
	if err := u.store.apply(ctx, u.tx); err != nil {
		u.log.Error("commit failed", "backend", u.backend(), "repository", u.repository, "error", err)
		u.end(observability.OutcomeError)
		return err
	}
	u.log.Debug("commit", "backend", u.backend(), "repository", u.repository, "writes", len(u.tx.order))
	u.end(observability.OutcomeCommit)
	return nil
}

// Rollback drops the private copy. Nothing reaches the store.
func (u *UnitOfWork[R]) Rollback(context.Context) error {
	if u.tx == nil {
		return domain.ErrNoActiveTransaction
	}
	u.log.Debug("rollback", "backend", u.backend(), "repository", u.repository, "writes", len(u.tx.order))
	u.end(observability.OutcomeRollback)
	return nil
}

// Repository returns the repository bound to the active transaction, or the
// zero value when none is active.
func (u *UnitOfWork[R]) Repository() R { return u.repo }

func (u *UnitOfWork[R]) end(outcome observability.Outcome) {
	u.metrics.ObserveTransaction(u.backend(), u.repository, outcome, u.now().Sub(u.tx.started))
	u.tx.done = true
	u.tx = nil
	var zero R
	u.repo = zero
}
