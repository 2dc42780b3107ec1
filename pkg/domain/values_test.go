package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyRequiresPositiveAmount(t *testing.T) {
	cur := must(NewCurrency("usd", "US Dollar"))(t)
	if cur.Code() != "USD" {
		t.Fatalf("expected canonical currency code, got %q", cur.Code())
	}
	for _, amount := range []string{"0", "-5", "-0.01"} {
		_, err := NewMoney(cur, decimal.RequireFromString(amount))
		expectErr(t, err, ErrAmountNotPositive)
	}
	m, err := NewMoney(cur, decimal.RequireFromString("0.01"))
	mustNoError(t, "positive amount", err)
	if !m.Amount().Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("unexpected amount %s", m.Amount())
	}
}

func TestReferenceValueValidation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"unknown country", second(NewCountry("XX", "Nowhere")), ErrInvalidCountry},
		{"country without name", second(NewCountry("PL", "")), ErrMissingValue},
		{"unknown language", second(NewLanguage("xx", "Nothing")), ErrInvalidLanguage},
		{"unknown currency", second(NewCurrency("ABC", "Fake")), ErrInvalidCurrency},
		{"unknown industry", second(NewIndustry("mining on mars")), ErrInvalidIndustry},
		{"unknown size", second(NewCompanySize("huge")), ErrInvalidCompanySize},
		{"unknown legal form", second(NewLegalForm("guild")), ErrInvalidLegalForm},
		{"unknown source", second(NewAcquisitionSource("telepathy")), ErrInvalidAcquisitionSource},
		{"unknown stage", second(NewOpportunityStage("won")), ErrInvalidStage},
		{"unknown priority", second(NewPriority("critical")), ErrInvalidPriority},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectErr(t, tc.err, tc.want)
			if CodeOf(tc.err) != CodeValidation {
				t.Fatalf("unexpected code %q", CodeOf(tc.err))
			}
		})
	}
}

func second[T any](_ T, err error) error { return err }

func TestEnumerationsNormalizeInput(t *testing.T) {
	src := must(NewAcquisitionSource("  Cold Call "))(t)
	if src.Name() != "cold call" {
		t.Fatalf("expected normalized name, got %q", src.Name())
	}
	if len(OpportunityStages()) != 7 || len(Industries()) != 10 || len(AcquisitionSources()) != 7 {
		t.Fatalf("unexpected enumeration sizes")
	}
}

func TestContactMethodFormats(t *testing.T) {
	phone := must(NewContactMethod(ContactMethodPhone, "+48 123-456-789", true))(t)
	if phone.Value() != "+48123456789" {
		t.Fatalf("expected normalized phone, got %q", phone.Value())
	}
	_, err := NewContactMethod(ContactMethodPhone, "123", true)
	expectErr(t, err, ErrInvalidPhone)
	_, err = NewContactMethod(ContactMethodEmail, "not-an-email", true)
	expectErr(t, err, ErrInvalidEmail)
	_, err = NewContactMethod("fax", "123", true)
	expectErr(t, err, ErrInvalidContactMethodType)
}

func TestContactDataRequiresChannel(t *testing.T) {
	_, err := NewContactData("Jane", "Doe", "", "")
	expectErr(t, err, ErrMissingValue)
	d := must(NewContactData("Jane", "Doe", "", "jane@example.com"))(t)
	if d.Email() != "jane@example.com" || d.Phone() != "" {
		t.Fatalf("unexpected contact data %+v", d)
	}
	_, err = NewContactData("Jane", "Doe", "abc", "")
	expectErr(t, err, ErrInvalidPhone)
}

func TestErrorfKeepsSentinelIdentity(t *testing.T) {
	err := Errorf(ErrNotFound, "customer %q", "c1")
	expectErr(t, err, ErrNotFound)
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected not_found code")
	}
	if err.Error() != `object not found: customer "c1"` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
