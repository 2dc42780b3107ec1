package snapshot

import (
	"context"
	"fmt"
	"sort"

	"crmcore/pkg/domain"
	"crmcore/pkg/filter"
)

// queryService answers read queries by decoding every record of a bucket
// and applying the in-memory field registries.
type queryService struct {
	store *Store
}

var _ domain.QueryService = queryService{}

func (q queryService) Customers(ctx context.Context, conds []filter.Condition) ([]*domain.Customer, error) {
	return query(ctx, q.store, "customer", func(a *arena) map[string]customerRecord { return a.customers }, decodeCustomer, domain.CustomerFields, conds)
}

func (q queryService) Leads(ctx context.Context, conds []filter.Condition) ([]*domain.Lead, error) {
	return query(ctx, q.store, "lead", func(a *arena) map[string]leadRecord { return a.leads }, decodeLead, domain.LeadFields, conds)
}

func (q queryService) Opportunities(ctx context.Context, conds []filter.Condition) ([]*domain.Opportunity, error) {
	return query(ctx, q.store, "opportunity", func(a *arena) map[string]opportunityRecord { return a.opportunities }, decodeOpportunity, domain.OpportunityFields, conds)
}

func (q queryService) SalesRepresentatives(ctx context.Context, conds []filter.Condition) ([]*domain.SalesRepresentative, error) {
	return query(ctx, q.store, "sales representative", func(a *arena) map[string]salesRepresentativeRecord { return a.salesRepresentatives }, decodeSalesRepresentative, domain.SalesRepresentativeFields, conds)
}

// query returns matching aggregates ordered by id. Conditions are compiled
// before the store is touched so an invalid filter fails fast.
func query[A any, R any](ctx context.Context, store *Store, kind string, records func(*arena) map[string]R, decode func(R) (A, error), fields filter.Fields[A], conds []filter.Condition) ([]A, error) {
	match, err := fields.Compile(conds)
	if err != nil {
		return nil, err
	}
	var out []A
	err = store.read(ctx, func(a *arena) error {
		src := records(a)
		ids := make([]string, 0, len(src))
		for id := range src {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out = make([]A, 0, len(ids))
		for _, id := range ids {
			agg, err := decode(src[id])
			if err != nil {
				return fmt.Errorf("%w: decode %s %q: %w", domain.ErrStorage, kind, id, err)
			}
			if match(agg) {
				out = append(out, agg)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
