package snapshot

import (
	"context"
	"fmt"

	"crmcore/pkg/domain"
)

// bucket is the repository over one arena map. A is the aggregate type and R
// its stored record. It reads and writes the private copy of its transaction
// and is only usable while that transaction is active.
type bucket[A any, R any] struct {
	tx      *transaction
	kind    string
	records func(*arena) map[string]R
	id      func(A) string
	encode  func(A) R
	decode  func(R) (A, error)
	clone   func(R) R
}

func (b *bucket[A, R]) Get(_ context.Context, id string) (A, bool, error) {
	var zero A
	if err := b.tx.check(); err != nil {
		return zero, false, err
	}
	rec, ok := b.records(b.tx.work)[id]
	if !ok {
		return zero, false, nil
	}
	agg, err := b.decode(b.clone(rec))
	if err != nil {
		return zero, false, fmt.Errorf("%w: decode %s %q: %w", domain.ErrStorage, b.kind, id, err)
	}
	return agg, true, nil
}

func (b *bucket[A, R]) Create(_ context.Context, aggregate A) error {
	if err := b.tx.check(); err != nil {
		return err
	}
	id := b.id(aggregate)
	if _, exists := b.records(b.tx.work)[id]; exists {
		return domain.Errorf(domain.ErrAlreadyExists, "%s %q", b.kind, id)
	}
	b.put(id, b.encode(aggregate), true)
	return nil
}

// Update overwrites the whole record; the last writer wins.
func (b *bucket[A, R]) Update(_ context.Context, aggregate A) error {
	if err := b.tx.check(); err != nil {
		return err
	}
	b.put(b.id(aggregate), b.encode(aggregate), false)
	return nil
}

// put stores rec in the private copy and records the write for commit.
func (b *bucket[A, R]) put(id string, rec R, created bool) {
	b.records(b.tx.work)[id] = rec
	b.tx.record(writeKey{kind: b.kind, id: id}, write{
		created: created,
		exists: func(a *arena) bool {
			_, ok := b.records(a)[id]
			return ok
		},
		apply: func(a *arena) { b.records(a)[id] = b.clone(rec) },
	})
}

func newCustomerRepository(tx *transaction) domain.CustomerRepository {
	return &bucket[*domain.Customer, customerRecord]{
		tx:      tx,
		kind:    "customer",
		records: func(a *arena) map[string]customerRecord { return a.customers },
		id:      (*domain.Customer).ID,
		encode:  encodeCustomer,
		decode:  decodeCustomer,
		clone:   cloneCustomer,
	}
}

func newLeadRepository(tx *transaction) domain.LeadRepository {
	return &bucket[*domain.Lead, leadRecord]{
		tx:      tx,
		kind:    "lead",
		records: func(a *arena) map[string]leadRecord { return a.leads },
		id:      (*domain.Lead).ID,
		encode:  encodeLead,
		decode:  decodeLead,
		clone:   cloneLead,
	}
}

func newOpportunityRepository(tx *transaction) domain.OpportunityRepository {
	return &bucket[*domain.Opportunity, opportunityRecord]{
		tx:      tx,
		kind:    "opportunity",
		records: func(a *arena) map[string]opportunityRecord { return a.opportunities },
		id:      (*domain.Opportunity).ID,
		encode:  encodeOpportunity,
		decode:  decodeOpportunity,
		clone:   cloneOpportunity,
	}
}

func newSalesRepresentativeRepository(tx *transaction) domain.SalesRepresentativeRepository {
	return &bucket[*domain.SalesRepresentative, salesRepresentativeRecord]{
		tx:      tx,
		kind:    "sales representative",
		records: func(a *arena) map[string]salesRepresentativeRecord { return a.salesRepresentatives },
		id:      (*domain.SalesRepresentative).ID,
		encode:  encodeSalesRepresentative,
		decode:  decodeSalesRepresentative,
		clone:   cloneSalesRepresentative,
	}
}
