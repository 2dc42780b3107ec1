package relational

import (
	"fmt"

	"crmcore/pkg/domain"
)

func customerToRow(c *domain.Customer) CustomerRow {
	info := c.CompanyInfo()
	addr := info.Address()
	row := CustomerRow{
		ID:                c.ID(),
		RelationManagerID: c.RelationManagerID(),
		Status:            string(c.Status()),
		CompanyInfo: CompanyInfoRow{
			CustomerID: c.ID(),
			Name:       info.Name(),
			Industry:   info.Industry().Name(),
			Segment:    SegmentRow{Size: info.Segment().Size().Name(), LegalForm: info.Segment().LegalForm().Name()},
			Address: AddressRow{
				CompanyInfoID: c.ID(),
				Street:        addr.Street(),
				StreetNo:      addr.StreetNo(),
				PostalCode:    addr.PostalCode(),
				City:          addr.City(),
				CountryCode:   addr.Country().Code(),
				Country:       CountryRow{Code: addr.Country().Code(), Name: addr.Country().Name()},
			},
		},
	}
	for i, p := range c.ContactPersons() {
		pr := ContactPersonRow{
			ID:                    p.ID,
			CustomerID:            c.ID(),
			Position:              i,
			FirstName:             p.FirstName,
			LastName:              p.LastName,
			JobTitle:              p.JobTitle,
			PreferredLanguageCode: p.PreferredLanguage.Code(),
			PreferredLanguage:     LanguageRow{Code: p.PreferredLanguage.Code(), Name: p.PreferredLanguage.Name()},
		}
		for j, m := range p.ContactMethods {
			pr.ContactMethods = append(pr.ContactMethods, ContactMethodRow{
				ContactPersonID: p.ID,
				Position:        j,
				Type:            string(m.Type()),
				Value:           m.Value(),
				Preferred:       m.IsPreferred(),
			})
		}
		row.ContactPersons = append(row.ContactPersons, pr)
	}
	return row
}

func customerFromRow(row CustomerRow) (*domain.Customer, error) {
	ci := row.CompanyInfo
	country, err := domain.NewCountry(ci.Address.CountryCode, ci.Address.Country.Name)
	if err != nil {
		return nil, err
	}
	addr, err := domain.NewAddress(ci.Address.Street, ci.Address.StreetNo, ci.Address.PostalCode, ci.Address.City, country)
	if err != nil {
		return nil, err
	}
	industry, err := domain.NewIndustry(ci.Industry)
	if err != nil {
		return nil, err
	}
	size, err := domain.NewCompanySize(ci.Segment.Size)
	if err != nil {
		return nil, err
	}
	form, err := domain.NewLegalForm(ci.Segment.LegalForm)
	if err != nil {
		return nil, err
	}
	segment, err := domain.NewCompanySegment(size, form)
	if err != nil {
		return nil, err
	}
	info, err := domain.NewCompanyInfo(ci.Name, industry, segment, addr)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseCustomerStatus(row.Status)
	if err != nil {
		return nil, err
	}
	persons := make([]domain.ContactPersonView, 0, len(row.ContactPersons))
	for _, p := range row.ContactPersons {
		lang, err := domain.NewLanguage(p.PreferredLanguageCode, p.PreferredLanguage.Name)
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
		ID:                row.ID,
		RelationManagerID: row.RelationManagerID,
		CompanyInfo:       info,
		Status:            status,
		ContactPersons:    persons,
	}), nil
}

func leadToRow(l *domain.Lead) LeadRow {
	cd := l.ContactData()
	row := LeadRow{
		ID:          l.ID(),
		CustomerID:  l.CustomerID(),
		CreatedByID: l.CreatedByID(),
		CreatedAt:   l.CreatedAt(),
		Source:      l.Source().Name(),
		ContactData: ContactDataRow{FirstName: cd.FirstName(), LastName: cd.LastName(), Phone: cd.Phone(), Email: cd.Email()},
	}
	for i, a := range l.AssignmentHistory() {
		row.Assignments = append(row.Assignments, LeadAssignmentRow{
			LeadID:          l.ID(),
			Position:        i,
			PreviousOwnerID: a.PreviousOwnerID(),
			NewOwnerID:      a.NewOwnerID(),
			AssignedByID:    a.AssignedByID(),
			AssignedAt:      a.AssignedAt(),
		})
	}
	for i, n := range l.NoteHistory() {
		row.Notes = append(row.Notes, LeadNoteRow{LeadID: l.ID(), Position: i, CreatedByID: n.CreatedByID(), Content: n.Content(), CreatedAt: n.CreatedAt()})
	}
	return row
}

func leadFromRow(row LeadRow) (*domain.Lead, error) {
	source, err := domain.NewAcquisitionSource(row.Source)
	if err != nil {
		return nil, err
	}
	cd, err := domain.NewContactData(row.ContactData.FirstName, row.ContactData.LastName, row.ContactData.Phone, row.ContactData.Email)
	if err != nil {
		return nil, err
	}
	assignments := make([]domain.LeadAssignmentEntry, 0, len(row.Assignments))
	for _, a := range row.Assignments {
		entry, err := domain.NewLeadAssignmentEntry(a.PreviousOwnerID, a.NewOwnerID, a.AssignedByID, a.AssignedAt)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, entry)
	}
	notes := make([]domain.Note, 0, len(row.Notes))
	for _, n := range row.Notes {
		note, err := domain.NewNote(n.CreatedByID, n.Content, n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return domain.ReconstituteLead(domain.LeadState{
		ID:                row.ID,
		CustomerID:        row.CustomerID,
		CreatedByID:       row.CreatedByID,
		CreatedAt:         row.CreatedAt,
		Source:            source,
		ContactData:       cd,
		AssignmentHistory: assignments,
		NoteHistory:       notes,
	}), nil
}

func opportunityToRow(o *domain.Opportunity) OpportunityRow {
	row := OpportunityRow{
		ID:          o.ID(),
		CustomerID:  o.CustomerID(),
		CreatedByID: o.CreatedByID(),
		OwnerID:     o.OwnerID(),
		CreatedAt:   o.CreatedAt(),
		Source:      o.Source().Name(),
		Stage:       o.Stage().Name(),
		Priority:    o.Priority().Name(),
	}
	for i, item := range o.Offer() {
		cur := item.Value().Currency()
		row.Offer = append(row.Offer, OfferItemRow{
			OpportunityID: o.ID(),
			Position:      i,
			ProductID:     item.Product().ID(),
			Product:       ProductRow{ID: item.Product().ID(), Name: item.Product().Name()},
			CurrencyCode:  cur.Code(),
			Currency:      CurrencyRow{Code: cur.Code(), Name: cur.Name()},
			Amount:        item.Value().Amount(),
		})
	}
	for i, n := range o.NoteHistory() {
		row.Notes = append(row.Notes, OpportunityNoteRow{OpportunityID: o.ID(), Position: i, CreatedByID: n.CreatedByID(), Content: n.Content(), CreatedAt: n.CreatedAt()})
	}
	return row
}

func opportunityFromRow(row OpportunityRow) (*domain.Opportunity, error) {
	source, err := domain.NewAcquisitionSource(row.Source)
	if err != nil {
		return nil, err
	}
	stage, err := domain.NewOpportunityStage(row.Stage)
	if err != nil {
		return nil, err
	}
	priority, err := domain.NewPriority(row.Priority)
	if err != nil {
		return nil, err
	}
	offer := make([]domain.OfferItem, 0, len(row.Offer))
	for _, item := range row.Offer {
		product, err := domain.NewProduct(item.ProductID, item.Product.Name)
		if err != nil {
			return nil, err
		}
		cur, err := domain.NewCurrency(item.CurrencyCode, item.Currency.Name)
		if err != nil {
			return nil, err
		}
		money, err := domain.NewMoney(cur, item.Amount)
		if err != nil {
			return nil, fmt.Errorf("offer item %d: %w", item.Position, err)
		}
		oi, err := domain.NewOfferItem(product, money)
		if err != nil {
			return nil, err
		}
		offer = append(offer, oi)
	}
	notes := make([]domain.Note, 0, len(row.Notes))
	for _, n := range row.Notes {
		note, err := domain.NewNote(n.CreatedByID, n.Content, n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return domain.ReconstituteOpportunity(domain.OpportunityState{
		ID:          row.ID,
		CustomerID:  row.CustomerID,
		CreatedByID: row.CreatedByID,
		OwnerID:     row.OwnerID,
		CreatedAt:   row.CreatedAt,
		Source:      source,
		Stage:       stage,
		Priority:    priority,
		Offer:       offer,
		NoteHistory: notes,
	}), nil
}

func salesRepresentativeToRow(s *domain.SalesRepresentative) SalesRepresentativeRow {
	return SalesRepresentativeRow{ID: s.ID(), FirstName: s.FirstName(), LastName: s.LastName()}
}

func salesRepresentativeFromRow(row SalesRepresentativeRow) (*domain.SalesRepresentative, error) {
	return domain.ReconstituteSalesRepresentative(row.ID, row.FirstName, row.LastName), nil
}
