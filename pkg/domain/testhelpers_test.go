package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// mustNoError simplifies tests that expect helper methods to succeed.
func mustNoError(t *testing.T, label string, err error) {
	t.Helper()
	if err != nil {
		if label == "" {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Fatalf("%s: %v", label, err)
	}
}

func must[T any](v T, err error) func(*testing.T) T {
	return func(t *testing.T) T {
		t.Helper()
		mustNoError(t, "", err)
		return v
	}
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func testCompanyInfo(t *testing.T, name string) CompanyInfo {
	t.Helper()
	country := must(NewCountry("DE", "Germany"))(t)
	addr := must(NewAddress("Main Street", "1", "10115", "Berlin", country))(t)
	seg := must(NewCompanySegment(must(NewCompanySize("small"))(t), must(NewLegalForm("limited liability company"))(t)))(t)
	return must(NewCompanyInfo(name, must(NewIndustry("finance"))(t), seg, addr))(t)
}

func testContactPerson(t *testing.T, first string, preferred bool) ContactPersonData {
	t.Helper()
	return ContactPersonData{
		FirstName:         first,
		LastName:          "Doe",
		JobTitle:          "CTO",
		PreferredLanguage: must(NewLanguage("en", "English"))(t),
		ContactMethods: []ContactMethod{
			must(NewContactMethod(ContactMethodEmail, first+"@example.com", preferred))(t),
		},
	}
}

func testOffer(t *testing.T, product string, amount string) []OfferItem {
	t.Helper()
	cur := must(NewCurrency("EUR", "Euro"))(t)
	money := must(NewMoney(cur, decimal.RequireFromString(amount)))(t)
	return []OfferItem{must(NewOfferItem(must(NewProduct("p-"+product, product))(t), money))(t)}
}
