package snapshot

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"crmcore/pkg/domain"
)

// Records are the JSON shapes persisted for each aggregate. They are plain
// values; clone functions below copy every nested slice.

type referenceRecord struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type addressRecord struct {
	Street     string          `json:"street"`
	StreetNo   string          `json:"street_no,omitempty"`
	PostalCode string          `json:"postal_code"`
	City       string          `json:"city"`
	Country    referenceRecord `json:"country"`
}

type companyInfoRecord struct {
	Name      string        `json:"name"`
	Industry  string        `json:"industry"`
	Size      string        `json:"size"`
	LegalForm string        `json:"legal_form"`
	Address   addressRecord `json:"address"`
}

type contactMethodRecord struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Preferred bool   `json:"is_preferred"`
}

type contactPersonRecord struct {
	ID                string                `json:"id"`
	FirstName         string                `json:"first_name"`
	LastName          string                `json:"last_name"`
	JobTitle          string                `json:"job_title"`
	PreferredLanguage referenceRecord       `json:"preferred_language"`
	ContactMethods    []contactMethodRecord `json:"contact_methods"`
}

type customerRecord struct {
	ID                string                `json:"id"`
	RelationManagerID string                `json:"relation_manager_id"`
	Status            string                `json:"status"`
	CompanyInfo       companyInfoRecord     `json:"company_info"`
	ContactPersons    []contactPersonRecord `json:"contact_persons"`
}

type contactDataRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type noteRecord struct {
	CreatedByID string    `json:"created_by_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

type assignmentRecord struct {
	PreviousOwnerID string    `json:"previous_owner_id,omitempty"`
	NewOwnerID      string    `json:"new_owner_id"`
	AssignedByID    string    `json:"assigned_by_id"`
	AssignedAt      time.Time `json:"assigned_at"`
}

type leadRecord struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customer_id"`
	CreatedByID string             `json:"created_by_id"`
	CreatedAt   time.Time          `json:"created_at"`
	Source      string             `json:"source"`
	ContactData contactDataRecord  `json:"contact_data"`
	Assignments []assignmentRecord `json:"assignments"`
	Notes       []noteRecord       `json:"notes"`
}

type offerItemRecord struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Currency    referenceRecord `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
}

type opportunityRecord struct {
	ID          string            `json:"id"`
	CustomerID  string            `json:"customer_id"`
	CreatedByID string            `json:"created_by_id"`
	OwnerID     string            `json:"owner_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Source      string            `json:"source"`
	Stage       string            `json:"stage"`
	Priority    string            `json:"priority"`
	Offer       []offerItemRecord `json:"offer"`
	Notes       []noteRecord      `json:"notes"`
}

type salesRepresentativeRecord struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func cloneCustomer(r customerRecord) customerRecord {
	cp := r
	cp.ContactPersons = make([]contactPersonRecord, len(r.ContactPersons))
	for i, p := range r.ContactPersons {
		p.ContactMethods = slices.Clone(p.ContactMethods)
		cp.ContactPersons[i] = p
	}
	return cp
}

func cloneLead(r leadRecord) leadRecord {
	cp := r
	cp.Assignments = slices.Clone(r.Assignments)
	cp.Notes = slices.Clone(r.Notes)
	return cp
}

func cloneOpportunity(r opportunityRecord) opportunityRecord {
	cp := r
	cp.Offer = slices.Clone(r.Offer)
	cp.Notes = slices.Clone(r.Notes)
	return cp
}

func cloneSalesRepresentative(r salesRepresentativeRecord) salesRepresentativeRecord { return r }

// Encoding from aggregates.

func encodeCustomer(c *domain.Customer) customerRecord {
	info := c.CompanyInfo()
	addr := info.Address()
	r := customerRecord{
		ID:                c.ID(),
		RelationManagerID: c.RelationManagerID(),
		Status:            string(c.Status()),
		CompanyInfo: companyInfoRecord{
			Name:      info.Name(),
			Industry:  info.Industry().Name(),
			Size:      info.Segment().Size().Name(),
			LegalForm: info.Segment().LegalForm().Name(),
			Address: addressRecord{
				Street:     addr.Street(),
				StreetNo:   addr.StreetNo(),
				PostalCode: addr.PostalCode(),
				City:       addr.City(),
				Country:    referenceRecord{Code: addr.Country().Code(), Name: addr.Country().Name()},
			},
		},
	}
	for _, p := range c.ContactPersons() {
		pr := contactPersonRecord{
			ID:                p.ID,
			FirstName:         p.FirstName,
			LastName:          p.LastName,
			JobTitle:          p.JobTitle,
			PreferredLanguage: referenceRecord{Code: p.PreferredLanguage.Code(), Name: p.PreferredLanguage.Name()},
		}
		for _, m := range p.ContactMethods {
			pr.ContactMethods = append(pr.ContactMethods, contactMethodRecord{Type: string(m.Type()), Value: m.Value(), Preferred: m.IsPreferred()})
		}
		r.ContactPersons = append(r.ContactPersons, pr)
	}
	return r
}

func encodeNotes(notes []domain.Note) []noteRecord {
	out := make([]noteRecord, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteRecord{CreatedByID: n.CreatedByID(), Content: n.Content(), CreatedAt: n.CreatedAt()})
	}
	return out
}

func encodeLead(l *domain.Lead) leadRecord {
	cd := l.ContactData()
	r := leadRecord{
		ID:          l.ID(),
		CustomerID:  l.CustomerID(),
		CreatedByID: l.CreatedByID(),
		CreatedAt:   l.CreatedAt(),
		Source:      l.Source().Name(),
		ContactData: contactDataRecord{FirstName: cd.FirstName(), LastName: cd.LastName(), Phone: cd.Phone(), Email: cd.Email()},
		Notes:       encodeNotes(l.NoteHistory()),
	}
	for _, a := range l.AssignmentHistory() {
		r.Assignments = append(r.Assignments, assignmentRecord{
			PreviousOwnerID: a.PreviousOwnerID(),
			NewOwnerID:      a.NewOwnerID(),
			AssignedByID:    a.AssignedByID(),
			AssignedAt:      a.AssignedAt(),
		})
	}
	return r
}

func encodeOpportunity(o *domain.Opportunity) opportunityRecord {
	r := opportunityRecord{
		ID:          o.ID(),
		CustomerID:  o.CustomerID(),
		CreatedByID: o.CreatedByID(),
		OwnerID:     o.OwnerID(),
		CreatedAt:   o.CreatedAt(),
		Source:      o.Source().Name(),
		Stage:       o.Stage().Name(),
		Priority:    o.Priority().Name(),
		Notes:       encodeNotes(o.NoteHistory()),
	}
	for _, item := range o.Offer() {
		cur := item.Value().Currency()
		r.Offer = append(r.Offer, offerItemRecord{
			ProductID:   item.Product().ID(),
			ProductName: item.Product().Name(),
			Currency:    referenceRecord{Code: cur.Code(), Name: cur.Name()},
			Amount:      item.Value().Amount(),
		})
	}
	return r
}

func encodeSalesRepresentative(s *domain.SalesRepresentative) salesRepresentativeRecord {
	return salesRepresentativeRecord{ID: s.ID(), FirstName: s.FirstName(), LastName: s.LastName()}
}

// Decoding back into aggregates. Value objects are rebuilt through their
// constructors; aggregates through the reconstitute factories.

func decodeCustomer(r customerRecord) (*domain.Customer, error) {
	country, err := domain.NewCountry(r.CompanyInfo.Address.Country.Code, r.CompanyInfo.Address.Country.Name)
	if err != nil {
		return nil, err
	}
	addr, err := domain.NewAddress(r.CompanyInfo.Address.Street, r.CompanyInfo.Address.StreetNo, r.CompanyInfo.Address.PostalCode, r.CompanyInfo.Address.City, country)
	if err != nil {
		return nil, err
	}
	industry, err := domain.NewIndustry(r.CompanyInfo.Industry)
	if err != nil {
		return nil, err
	}
	size, err := domain.NewCompanySize(r.CompanyInfo.Size)
	if err != nil {
		return nil, err
	}
	form, err := domain.NewLegalForm(r.CompanyInfo.LegalForm)
	if err != nil {
		return nil, err
	}
	segment, err := domain.NewCompanySegment(size, form)
	if err != nil {
		return nil, err
	}
	info, err := domain.NewCompanyInfo(r.CompanyInfo.Name, industry, segment, addr)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseCustomerStatus(r.Status)
	if err != nil {
		return nil, err
	}
	persons := make([]domain.ContactPersonView, 0, len(r.ContactPersons))
	for _, p := range r.ContactPersons {
		lang, err := domain.NewLanguage(p.PreferredLanguage.Code, p.PreferredLanguage.Name)
		if err != nil {
			return nil, err
		}
		view := domain.ContactPersonView{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, JobTitle: p.JobTitle, PreferredLanguage: lang}
		for _, m := range p.ContactMethods {
			method, err := domain.NewContactMethod(domain.ContactMethodType(m.Type), m.Value, m.Preferred)
			if err != nil {
				return nil, err
			}
			view.ContactMethods = append(view.ContactMethods, method)
		}
		persons = append(persons, view)
	}
	return domain.ReconstituteCustomer(domain.CustomerState{
		ID:                r.ID,
		RelationManagerID: r.RelationManagerID,
		CompanyInfo:       info,
		Status:            status,
		ContactPersons:    persons,
	}), nil
}

func decodeNotes(records []noteRecord) ([]domain.Note, error) {
	out := make([]domain.Note, 0, len(records))
	for _, n := range records {
		note, err := domain.NewNote(n.CreatedByID, n.Content, n.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, note)
	}
	return out, nil
}

func decodeLead(r leadRecord) (*domain.Lead, error) {
	source, err := domain.NewAcquisitionSource(r.Source)
	if err != nil {
		return nil, err
	}
	cd, err := domain.NewContactData(r.ContactData.FirstName, r.ContactData.LastName, r.ContactData.Phone, r.ContactData.Email)
	if err != nil {
		return nil, err
	}
	notes, err := decodeNotes(r.Notes)
	if err != nil {
		return nil, err
	}
	assignments := make([]domain.LeadAssignmentEntry, 0, len(r.Assignments))
	for _, a := range r.Assignments {
		entry, err := domain.NewLeadAssignmentEntry(a.PreviousOwnerID, a.NewOwnerID, a.AssignedByID, a.AssignedAt)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, entry)
	}
	return domain.ReconstituteLead(domain.LeadState{
		ID:                r.ID,
		CustomerID:        r.CustomerID,
		CreatedByID:       r.CreatedByID,
		CreatedAt:         r.CreatedAt,
		Source:            source,
		ContactData:       cd,
		AssignmentHistory: assignments,
		NoteHistory:       notes,
	}), nil
}

func decodeOpportunity(r opportunityRecord) (*domain.Opportunity, error) {
	source, err := domain.NewAcquisitionSource(r.Source)
	if err != nil {
		return nil, err
	}
	stage, err := domain.NewOpportunityStage(r.Stage)
	if err != nil {
		return nil, err
	}
	priority, err := domain.NewPriority(r.Priority)
	if err != nil {
		return nil, err
	}
	notes, err := decodeNotes(r.Notes)
	if err != nil {
		return nil, err
	}
	offer := make([]domain.OfferItem, 0, len(r.Offer))
	for i, item := range r.Offer {
		product, err := domain.NewProduct(item.ProductID, item.ProductName)
		if err != nil {
			return nil, err
		}
		cur, err := domain.NewCurrency(item.Currency.Code, item.Currency.Name)
		if err != nil {
			return nil, err
		}
		money, err := domain.NewMoney(cur, item.Amount)
		if err != nil {
			return nil, fmt.Errorf("offer item %d: %w", i, err)
		}
		oi, err := domain.NewOfferItem(product, money)
		if err != nil {
			return nil, err
		}
		offer = append(offer, oi)
	}
	return domain.ReconstituteOpportunity(domain.OpportunityState{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		CreatedByID: r.CreatedByID,
		OwnerID:     r.OwnerID,
		CreatedAt:   r.CreatedAt,
		Source:      source,
		Stage:       stage,
		Priority:    priority,
		Offer:       offer,
		NoteHistory: notes,
	}), nil
}

func decodeSalesRepresentative(r salesRepresentativeRecord) (*domain.SalesRepresentative, error) {
	return domain.ReconstituteSalesRepresentative(r.ID, r.FirstName, r.LastName), nil
}
