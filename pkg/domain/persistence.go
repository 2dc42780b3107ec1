package domain

import (
	"context"
	"errors"
	"fmt"

	"crmcore/pkg/filter"
)

// Repository is the storage-agnostic contract for one aggregate type.
// Get reports false when no aggregate with the id exists. Create fails with
// ErrAlreadyExists for a known id. Update upserts and fails with
// ErrReferenceNotFound when referenced data cannot be resolved.
type Repository[A any] interface {
	Get(ctx context.Context, id string) (A, bool, error)
	Create(ctx context.Context, aggregate A) error
	Update(ctx context.Context, aggregate A) error
}

// CustomerRepository persists customers together with their contact persons.
type CustomerRepository interface {
	Repository[*Customer]
}

// LeadRepository persists leads with their assignment and note histories.
type LeadRepository interface {
	Repository[*Lead]
}

// OpportunityRepository persists opportunities with offer and notes.
type OpportunityRepository interface {
	Repository[*Opportunity]
}

// SalesRepresentativeRepository persists sales representatives.
type SalesRepresentativeRepository interface {
	Repository[*SalesRepresentative]
}

// UnitOfWork is a transaction boundary exposing exactly one repository while
// active. Begin fails with ErrTransactionActive when a transaction is already
// open; Commit and Rollback fail with ErrNoActiveTransaction otherwise.
// Repository is only valid between Begin and Commit/Rollback.
type UnitOfWork[R any] interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Repository() R
}

// Within runs fn inside a transaction of uow. It commits when fn returns nil
// and rolls back when fn returns an error or panics; the error from fn is
// returned unchanged (joined with a rollback failure, if any).
func Within[R any](ctx context.Context, uow UnitOfWork[R], fn func(R) error) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback(ctx)
			panic(r)
		}
	}()
	if err := fn(uow.Repository()); err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	return uow.Commit(ctx)
}

// QueryService answers read queries directly from storage using filter
// conditions. Field paths are the same for every backend.
type QueryService interface {
	Customers(ctx context.Context, conds []filter.Condition) ([]*Customer, error)
	Leads(ctx context.Context, conds []filter.Condition) ([]*Lead, error)
	Opportunities(ctx context.Context, conds []filter.Condition) ([]*Opportunity, error)
	SalesRepresentatives(ctx context.Context, conds []filter.Condition) ([]*SalesRepresentative, error)
}

// Storage bundles the units of work and query service of one backend.
// Each call to a unit-of-work accessor returns a fresh instance.
type Storage interface {
	Customers() UnitOfWork[CustomerRepository]
	Leads() UnitOfWork[LeadRepository]
	Opportunities() UnitOfWork[OpportunityRepository]
	SalesRepresentatives() UnitOfWork[SalesRepresentativeRepository]
	Query() QueryService
	Close() error
}
