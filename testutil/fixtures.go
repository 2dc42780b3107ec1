package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crmcore/pkg/domain"
)

// Must takes the result of a fallible constructor and returns a function
// that fails t when err is not nil and yields v otherwise:
//
//	country := testutil.Must(domain.NewCountry("DE", "Germany"))(t)
func Must[T any](v T, err error) func(testing.TB) T {
	return func(t testing.TB) T {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}
}

// CompanyInfo builds a valid company located in Berlin.
func CompanyInfo(t testing.TB, name string) domain.CompanyInfo {
	t.Helper()
	country := Must(domain.NewCountry("DE", "Germany"))(t)
	addr := Must(domain.NewAddress("Main Street", "1", "10115", "Berlin", country))(t)
	seg := Must(domain.NewCompanySegment(Must(domain.NewCompanySize("small"))(t), Must(domain.NewLegalForm("limited liability company"))(t)))(t)
	return Must(domain.NewCompanyInfo(name, Must(domain.NewIndustry("finance"))(t), seg, addr))(t)
}

// ContactPerson returns data for a contact person with one preferred email.
func ContactPerson(t testing.TB, first, last string) domain.ContactPersonData {
	t.Helper()
	return domain.ContactPersonData{
		FirstName:         first,
		LastName:          last,
		JobTitle:          "CTO",
		PreferredLanguage: Must(domain.NewLanguage("en", "English"))(t),
		ContactMethods: []domain.ContactMethod{
			Must(domain.NewContactMethod(domain.ContactMethodEmail, first+"."+last+"@example.com", true))(t),
			Must(domain.NewContactMethod(domain.ContactMethodPhone, "+49 30 1234567", false))(t),
		},
	}
}

// Customer creates a customer managed by manager with the given contact
// persons, named "first last".
func Customer(t testing.TB, manager, company string, persons ...[2]string) *domain.Customer {
	t.Helper()
	c := Must(domain.MakeCustomer(manager, CompanyInfo(t, company)))(t)
	for _, p := range persons {
		if _, err := c.AddContactPerson(manager, ContactPerson(t, p[0], p[1])); err != nil {
			t.Fatalf("add contact person: %v", err)
		}
	}
	return c
}

// Lead creates an unassigned lead for customerID.
func Lead(t testing.TB, customerID, createdBy, first, email string) *domain.Lead {
	t.Helper()
	source := Must(domain.NewAcquisitionSource("website"))(t)
	cd := Must(domain.NewContactData(first, "Lead", "", email))(t)
	return Must(domain.MakeLead(customerID, createdBy, source, cd))(t)
}

// Offer builds a single-item EUR offer.
func Offer(t testing.TB, product, amount string) []domain.OfferItem {
	t.Helper()
	cur := Must(domain.NewCurrency("EUR", "Euro"))(t)
	money := Must(domain.NewMoney(cur, decimal.RequireFromString(amount)))(t)
	return []domain.OfferItem{Must(domain.NewOfferItem(Must(domain.NewProduct("p-"+product, product))(t), money))(t)}
}

// Opportunity creates an opportunity owned by createdBy.
func Opportunity(t testing.TB, customerID, createdBy, product, amount string) *domain.Opportunity {
	t.Helper()
	source := Must(domain.NewAcquisitionSource("event"))(t)
	stage := Must(domain.NewOpportunityStage("prospecting"))(t)
	priority := Must(domain.NewPriority("medium"))(t)
	return Must(domain.MakeOpportunity(customerID, createdBy, source, stage, priority, Offer(t, product, amount)))(t)
}

// SalesRepresentative creates a sales representative.
func SalesRepresentative(t testing.TB, first, last string) *domain.SalesRepresentative {
	t.Helper()
	return Must(domain.MakeSalesRepresentative(first, last))(t)
}

// Clock returns a deterministic clock advancing one second per call.
func Clock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
