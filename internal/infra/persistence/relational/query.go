package relational

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"crmcore/pkg/domain"
	"crmcore/pkg/filter"
)

// queryService answers read queries with compiled filter scopes.
type queryService struct {
	db *gorm.DB
}

var _ domain.QueryService = queryService{}

func (q queryService) Customers(ctx context.Context, conds []filter.Condition) ([]*domain.Customer, error) {
	return query(ctx, q.db, "customer", preloadCustomer, customerFromRow, domain.CustomerFields.Has, conds)
}

func (q queryService) Leads(ctx context.Context, conds []filter.Condition) ([]*domain.Lead, error) {
	return query(ctx, q.db, "lead", preloadLead, leadFromRow, domain.LeadFields.Has, conds)
}

func (q queryService) Opportunities(ctx context.Context, conds []filter.Condition) ([]*domain.Opportunity, error) {
	return query(ctx, q.db, "opportunity", preloadOpportunity, opportunityFromRow, domain.OpportunityFields.Has, conds)
}

func (q queryService) SalesRepresentatives(ctx context.Context, conds []filter.Condition) ([]*domain.SalesRepresentative, error) {
	return query(ctx, q.db, "sales representative", preloadNothing, salesRepresentativeFromRow, domain.SalesRepresentativeFields.Has, conds)
}

// query selects the distinct ids of matching roots, then loads those roots
// with their children. Results are ordered by id. known lists the logical
// field paths shared with the in-memory registries.
func query[A any, Row any](ctx context.Context, db *gorm.DB, kind string, preload func(*gorm.DB) *gorm.DB, decode func(Row) (A, error), known func(string) bool, conds []filter.Condition) ([]A, error) {
	db = db.WithContext(ctx)
	var model Row
	sc, err := compileFilter(db, &model, known, conds)
	if err != nil {
		return nil, err
	}
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(&model); err != nil {
		return nil, fmt.Errorf("%w: parse schema: %w", domain.ErrStorage, err)
	}
	idColumn := stmt.Schema.Table + ".id"

	var ids []string
	if err := sc.apply(db.Model(&model)).Distinct().Order(idColumn).Pluck(idColumn, &ids).Error; err != nil {
		return nil, mapError("query "+kind, err)
	}
	if len(ids) == 0 {
		return []A{}, nil
	}
	var rows []Row
	if err := preload(db).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, mapError("load "+kind, err)
	}
	out := make([]A, 0, len(rows))
	for _, row := range rows {
		agg, err := decode(row)
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrStorage, kind, err)
		}
		out = append(out, agg)
	}
	return out, nil
}
