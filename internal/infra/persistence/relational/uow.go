package relational

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"crmcore/internal/observability"
	"crmcore/internal/platform/logger"
	"crmcore/pkg/domain"
)

// UnitOfWork opens a native database transaction on Begin and delegates
// Commit and Rollback to it. Repositories write through the transaction.
type UnitOfWork[R any] struct {
	db         *gorm.DB
	dialect    Dialect
	repository string
	newRepo    func(*session) R
	log        *logger.Logger
	metrics    *observability.Metrics
	now        func() time.Time

	session *session
	started time.Time
	repo    R
}

var _ domain.UnitOfWork[domain.LeadRepository] = (*UnitOfWork[domain.LeadRepository])(nil)

func (u *UnitOfWork[R]) backend() string { return "relational-" + string(u.dialect) }

func (u *UnitOfWork[R]) Begin(ctx context.Context) error {
	if u.session != nil {
		return domain.ErrTransactionActive
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Error("begin failed", "backend", u.backend(), "repository", u.repository, "error", tx.Error)
		return mapError("begin", tx.Error)
	}
	u.session = &session{tx: tx}
	u.started = u.now()
	u.repo = u.newRepo(u.session)
	u.log.Debug("begin", "backend", u.backend(), "repository", u.repository)
	return nil
}

func (u *UnitOfWork[R]) Commit(context.Context) error {
	if u.session == nil {
		return domain.ErrNoActiveTransaction
	}
	if err := u.session.tx.Commit().Error; err != nil {
		// A failed commit leaves nothing to roll back on most drivers; try anyway.
		_ = u.session.tx.Rollback().Error
		u.log.Error("commit failed", "backend", u.backend(), "repository", u.repository, "error", err)
		u.end(observability.OutcomeError)
		return fmt.Errorf("%w: commit: %w", domain.ErrStorage, err)
	}
	u.log.Debug("commit", "backend", u.backend(), "repository", u.repository)
	u.end(observability.OutcomeCommit)
	return nil
}

func (u *UnitOfWork[R]) Rollback(context.Context) error {
	if u.session == nil {
		return domain.ErrNoActiveTransaction
	}
	err := u.session.tx.Rollback().Error
	u.log.Debug("rollback", "backend", u.backend(), "repository", u.repository)
	if err != nil {
		u.log.Error("rollback failed", "backend", u.backend(), "repository", u.repository, "error", err)
		u.end(observability.OutcomeError)
		return fmt.Errorf("%w: rollback: %w", domain.ErrStorage, err)
	}
	u.end(observability.OutcomeRollback)
	return nil
}

// Repository returns the repository bound to the active transaction, or the
// zero value when none is active.
func (u *UnitOfWork[R]) Repository() R { return u.repo }

func (u *UnitOfWork[R]) end(outcome observability.Outcome) {
	u.metrics.ObserveTransaction(u.backend(), u.repository, outcome, u.now().Sub(u.started))
	u.session.done = true
	u.session = nil
	var zero R
	u.repo = zero
}
