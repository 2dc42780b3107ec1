package relational

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crmcore/pkg/domain"
)

// session is the native transaction of one active unit of work.
type session struct {
	tx   *gorm.DB
	done bool
}

func (s *session) db(ctx context.Context) (*gorm.DB, error) {
	if s.done {
		return nil, domain.ErrNoActiveTransaction
	}
	return s.tx.WithContext(ctx), nil
}

func orderByPosition(db *gorm.DB) *gorm.DB { return db.Order("position") }

func preloadCustomer(db *gorm.DB) *gorm.DB {
	return db.
		Preload("CompanyInfo.Address.Country").
		Preload("ContactPersons", orderByPosition).
		Preload("ContactPersons.PreferredLanguage").
		Preload("ContactPersons.ContactMethods", orderByPosition)
}

func preloadLead(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Assignments", orderByPosition).
		Preload("Notes", orderByPosition)
}

func preloadOpportunity(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Offer", orderByPosition).
		Preload("Offer.Product").
		Preload("Offer.Currency").
		Preload("Notes", orderByPosition)
}

func preloadNothing(db *gorm.DB) *gorm.DB { return db }

// upsert inserts values or overwrites every non-key column of existing rows.
// Associations are written separately.
func upsert[T any](db *gorm.DB, values []T) error {
	if len(values) == 0 {
		return nil
	}
	return db.Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(&values).Error
}

// requireKeys fails with ErrReferenceNotFound when any key is missing from
// the reference table of model.
func requireKeys(db *gorm.DB, model any, column, kind string, keys []string) error {
	keys = slices.Compact(slices.Sorted(slices.Values(keys)))
	if len(keys) == 0 {
		return nil
	}
	var found []string
	if err := db.Model(model).Where(column+" IN ?", keys).Pluck(column, &found).Error; err != nil {
		return mapError("check "+kind, err)
	}
	var missing []string
	for _, k := range keys {
		if !slices.Contains(found, k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return domain.Errorf(domain.ErrReferenceNotFound, "%s %s", kind, strings.Join(missing, ", "))
	}
	return nil
}

// repository implements Get and Create for one aggregate; write stores the
// whole aggregate and is what Update delegates to.
type repository[A any, Row any] struct {
	session *session
	kind    string
	model   Row
	preload func(*gorm.DB) *gorm.DB
	id      func(A) string
	decode  func(Row) (A, error)
	write   func(*gorm.DB, A) error
}

func (r *repository[A, Row]) Get(ctx context.Context, id string) (A, bool, error) {
	var zero A
	db, err := r.session.db(ctx)
	if err != nil {
		return zero, false, err
	}
	var row Row
	err = r.preload(db).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, mapError(fmt.Sprintf("get %s %q", r.kind, id), err)
	}
	agg, err := r.decode(row)
	if err != nil {
		return zero, false, fmt.Errorf("%w: decode %s %q: %w", domain.ErrStorage, r.kind, id, err)
	}
	return agg, true, nil
}

func (r *repository[A, Row]) Create(ctx context.Context, aggregate A) error {
	db, err := r.session.db(ctx)
	if err != nil {
		return err
	}
	id := r.id(aggregate)
	var n int64
	if err := db.Model(&r.model).Where("id = ?", id).Count(&n).Error; err != nil {
		return mapError("create "+r.kind, err)
	}
	if n > 0 {
		return domain.Errorf(domain.ErrAlreadyExists, "%s %q", r.kind, id)
	}
	return r.write(db, aggregate)
}

// Update upserts the aggregate with its children; the last writer wins.
func (r *repository[A, Row]) Update(ctx context.Context, aggregate A) error {
	db, err := r.session.db(ctx)
	if err != nil {
		return err
	}
	return r.write(db, aggregate)
}

func newCustomerRepository(s *session) domain.CustomerRepository {
	return &repository[*domain.Customer, CustomerRow]{
		session: s,
		kind:    "customer",
		preload: preloadCustomer,
		id:      (*domain.Customer).ID,
		decode:  customerFromRow,
		write:   writeCustomer,
	}
}

func newLeadRepository(s *session) domain.LeadRepository {
	return &repository[*domain.Lead, LeadRow]{
		session: s,
		kind:    "lead",
		preload: preloadLead,
		id:      (*domain.Lead).ID,
		decode:  leadFromRow,
		write:   writeLead,
	}
}

func newOpportunityRepository(s *session) domain.OpportunityRepository {
	return &repository[*domain.Opportunity, OpportunityRow]{
		session: s,
		kind:    "opportunity",
		preload: preloadOpportunity,
		id:      (*domain.Opportunity).ID,
		decode:  opportunityFromRow,
		write:   writeOpportunity,
	}
}

func newSalesRepresentativeRepository(s *session) domain.SalesRepresentativeRepository {
	return &repository[*domain.SalesRepresentative, SalesRepresentativeRow]{
		session: s,
		kind:    "sales representative",
		preload: preloadNothing,
		id:      (*domain.SalesRepresentative).ID,
		decode:  salesRepresentativeFromRow,
		write:   writeSalesRepresentative,
	}
}

func writeCustomer(db *gorm.DB, c *domain.Customer) error {
	row := customerToRow(c)
	op := fmt.Sprintf("write customer %q", row.ID)

	languages := make([]string, 0, len(row.ContactPersons))
	for _, p := range row.ContactPersons {
		languages = append(languages, p.PreferredLanguageCode)
	}
	if err := requireKeys(db, &CountryRow{}, "code", "country", []string{row.CompanyInfo.Address.CountryCode}); err != nil {
		return err
	}
	if err := requireKeys(db, &LanguageRow{}, "code", "language", languages); err != nil {
		return err
	}

	if err := upsert(db, []CustomerRow{row}); err != nil {
		return mapError(op, err)
	}
	if err := upsert(db, []CompanyInfoRow{row.CompanyInfo}); err != nil {
		return mapError(op, err)
	}
	if err := upsert(db, []AddressRow{row.CompanyInfo.Address}); err != nil {
		return mapError(op, err)
	}

	current := make([]string, 0, len(row.ContactPersons))
	for _, p := range row.ContactPersons {
		current = append(current, p.ID)
	}
	var existing []string
	if err := db.Model(&ContactPersonRow{}).Where("customer_id = ?", row.ID).Pluck("id", &existing).Error; err != nil {
		return mapError(op, err)
	}
	var stale []string
	for _, id := range existing {
		if !slices.Contains(current, id) {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := db.Where("contact_person_id IN ?", stale).Delete(&ContactMethodRow{}).Error; err != nil {
			return mapError(op, err)
		}
		if err := db.Where("id IN ?", stale).Delete(&ContactPersonRow{}).Error; err != nil {
			return mapError(op, err)
		}
	}
	if err := upsert(db, row.ContactPersons); err != nil {
		return mapError(op, err)
	}
	for _, p := range row.ContactPersons {
		if err := db.Where("contact_person_id = ? AND position >= ?", p.ID, len(p.ContactMethods)).Delete(&ContactMethodRow{}).Error; err != nil {
			return mapError(op, err)
		}
		if err := upsert(db, p.ContactMethods); err != nil {
			return mapError(op, err)
		}
	}
	return nil
}

func writeLead(db *gorm.DB, l *domain.Lead) error {
	row := leadToRow(l)
	op := fmt.Sprintf("write lead %q", row.ID)
	if err := upsert(db, []LeadRow{row}); err != nil {
		return mapError(op, err)
	}
	if err := replacePositional(db, &LeadAssignmentRow{}, "lead_id", row.ID, row.Assignments); err != nil {
		return mapError(op, err)
	}
	if err := replacePositional(db, &LeadNoteRow{}, "lead_id", row.ID, row.Notes); err != nil {
		return mapError(op, err)
	}
	return nil
}

func writeOpportunity(db *gorm.DB, o *domain.Opportunity) error {
	row := opportunityToRow(o)
	op := fmt.Sprintf("write opportunity %q", row.ID)

	products := make([]string, 0, len(row.Offer))
	currencies := make([]string, 0, len(row.Offer))
	for _, item := range row.Offer {
		products = append(products, item.ProductID)
		currencies = append(currencies, item.CurrencyCode)
	}
	if err := requireKeys(db, &ProductRow{}, "id", "product", products); err != nil {
		return err
	}
	if err := requireKeys(db, &CurrencyRow{}, "code", "currency", currencies); err != nil {
		return err
	}

	if err := upsert(db, []OpportunityRow{row}); err != nil {
		return mapError(op, err)
	}
	if err := replacePositional(db, &OfferItemRow{}, "opportunity_id", row.ID, row.Offer); err != nil {
		return mapError(op, err)
	}
	if err := replacePositional(db, &OpportunityNoteRow{}, "opportunity_id", row.ID, row.Notes); err != nil {
		return mapError(op, err)
	}
	return nil
}

func writeSalesRepresentative(db *gorm.DB, s *domain.SalesRepresentative) error {
	row := salesRepresentativeToRow(s)
	if err := upsert(db, []SalesRepresentativeRow{row}); err != nil {
		return mapError(fmt.Sprintf("write sales representative %q", row.ID), err)
	}
	return nil
}

// replacePositional upserts children keyed by (parent, position) and drops
// rows past the end of the new list.
func replacePositional[T any](db *gorm.DB, model *T, parentColumn, parentID string, rows []T) error {
	if err := db.Where(parentColumn+" = ? AND position >= ?", parentID, len(rows)).Delete(model).Error; err != nil {
		return err
	}
	return upsert(db, rows)
}
