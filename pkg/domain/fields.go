package domain

import "crmcore/pkg/filter"

// CustomerFields is the filterable field registry for customers.
var CustomerFields = filter.Fields[*Customer]{
	"id":                                func(c *Customer) []filter.Value { return filter.One(c.id) },
	"status":                            func(c *Customer) []filter.Value { return filter.One(string(c.status)) },
	"relation_manager_id":               func(c *Customer) []filter.Value { return filter.One(c.relationManagerID) },
	"company_info.name":                 func(c *Customer) []filter.Value { return filter.One(c.companyInfo.name) },
	"company_info.industry":             func(c *Customer) []filter.Value { return filter.One(c.companyInfo.industry.name) },
	"company_info.segment.size":         func(c *Customer) []filter.Value { return filter.One(c.companyInfo.segment.size.name) },
	"company_info.segment.legal_form":   func(c *Customer) []filter.Value { return filter.One(c.companyInfo.segment.legalForm.name) },
	"company_info.address.street":       func(c *Customer) []filter.Value { return filter.One(c.companyInfo.address.street) },
	"company_info.address.city":         func(c *Customer) []filter.Value { return filter.One(c.companyInfo.address.city) },
	"company_info.address.postal_code":  func(c *Customer) []filter.Value { return filter.One(c.companyInfo.address.postalCode) },
	"company_info.address.country.code": func(c *Customer) []filter.Value { return filter.One(c.companyInfo.address.country.code) },
	"company_info.address.country.name": func(c *Customer) []filter.Value { return filter.One(c.companyInfo.address.country.name) },
	"contact_persons.first_name":        contactPersonField(func(p contactPerson) []filter.Value { return filter.One(p.firstName) }),
	"contact_persons.last_name":         contactPersonField(func(p contactPerson) []filter.Value { return filter.One(p.lastName) }),
	"contact_persons.job_title":         contactPersonField(func(p contactPerson) []filter.Value { return filter.One(p.jobTitle) }),
	"contact_persons.preferred_language.code": contactPersonField(func(p contactPerson) []filter.Value {
		return filter.One(p.preferredLanguage.code)
	}),
	"contact_persons.contact_methods.value": contactPersonField(filter.Each("contact_persons.contact_methods",
		func(p contactPerson) []ContactMethod { return p.contactMethods },
		func(m ContactMethod) []filter.Value { return filter.One(m.value) },
	)),
}

func contactPersonField(get func(contactPerson) []filter.Value) func(*Customer) []filter.Value {
	return filter.Each("contact_persons", func(c *Customer) []contactPerson { return c.contactPersons }, get)
}

// LeadFields is the filterable field registry for leads.
var LeadFields = filter.Fields[*Lead]{
	"id":                      func(l *Lead) []filter.Value { return filter.One(l.id) },
	"customer_id":             func(l *Lead) []filter.Value { return filter.One(l.customerID) },
	"created_by_id":           func(l *Lead) []filter.Value { return filter.One(l.createdByID) },
	"source":                  func(l *Lead) []filter.Value { return filter.One(l.source.name) },
	"contact_data.first_name": func(l *Lead) []filter.Value { return filter.One(l.contactData.firstName) },
	"contact_data.last_name":  func(l *Lead) []filter.Value { return filter.One(l.contactData.lastName) },
	"contact_data.phone":      func(l *Lead) []filter.Value { return filter.One(l.contactData.phone) },
	"contact_data.email":      func(l *Lead) []filter.Value { return filter.One(l.contactData.email) },
	"assignments.new_owner_id": filter.Each("assignments",
		func(l *Lead) []LeadAssignmentEntry { return l.assignments },
		func(a LeadAssignmentEntry) []filter.Value { return filter.One(a.newOwnerID) },
	),
	"notes.content": filter.Each("notes", func(l *Lead) []Note { return l.notes }, noteContent),
}

// OpportunityFields is the filterable field registry for opportunities.
var OpportunityFields = filter.Fields[*Opportunity]{
	"id":            func(o *Opportunity) []filter.Value { return filter.One(o.id) },
	"customer_id":   func(o *Opportunity) []filter.Value { return filter.One(o.customerID) },
	"created_by_id": func(o *Opportunity) []filter.Value { return filter.One(o.createdByID) },
	"owner_id":      func(o *Opportunity) []filter.Value { return filter.One(o.ownerID) },
	"source":        func(o *Opportunity) []filter.Value { return filter.One(o.source.name) },
	"stage":         func(o *Opportunity) []filter.Value { return filter.One(o.stage.name) },
	"priority":      func(o *Opportunity) []filter.Value { return filter.One(o.priority.name) },
	"offer.product.name": filter.Each("offer",
		func(o *Opportunity) []OfferItem { return o.offer },
		func(item OfferItem) []filter.Value { return filter.One(item.product.name) },
	),
	"notes.content": filter.Each("notes", func(o *Opportunity) []Note { return o.notes }, noteContent),
}

// SalesRepresentativeFields is the filterable field registry for sales
// representatives.
var SalesRepresentativeFields = filter.Fields[*SalesRepresentative]{
	"id":         func(s *SalesRepresentative) []filter.Value { return filter.One(s.id) },
	"first_name": func(s *SalesRepresentative) []filter.Value { return filter.One(s.firstName) },
	"last_name":  func(s *SalesRepresentative) []filter.Value { return filter.One(s.lastName) },
}

func noteContent(n Note) []filter.Value { return filter.One(n.content) }
