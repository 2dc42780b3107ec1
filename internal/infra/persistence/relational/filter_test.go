package relational

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crmcore/pkg/domain"
	"crmcore/pkg/filter"
	fixtures "crmcore/testutil"
)

func TestCompileFilterJoinsEachRelationOnce(t *testing.T) {
	s := openTestStorage(t)
	sc, err := compileFilter(s.DB(), &CustomerRow{}, domain.CustomerFields.Has, []filter.Condition{
		filter.Eq("company_info.address.city", "Berlin"),
		filter.IEq("company_info.address.country.code", "de"),
		filter.Contains("company_info.name", "acme"),
		filter.Eq("status", nil),
	})
	mustNoError(t, "compile", err)
	if len(sc.joins) != 3 {
		t.Fatalf("expected 3 joins, got %d: %v", len(sc.joins), sc.joins)
	}
	for i, table := range []string{"company_infos", "addresses", "countries"} {
		if !strings.Contains(sc.joins[i], table) {
			t.Fatalf("join %d should reach %s: %s", i, table, sc.joins[i])
		}
	}
	if len(sc.wheres) != 3 {
		t.Fatalf("inactive condition must not add a predicate, got %d", len(sc.wheres))
	}
	if sc.wheres[1].arg != "de" || sc.wheres[2].arg != "%acme%" {
		t.Fatalf("unexpected arguments %v %v", sc.wheres[1].arg, sc.wheres[2].arg)
	}
}

func TestCompileFilterResolvesEmbeddedColumns(t *testing.T) {
	s := openTestStorage(t)
	sc, err := compileFilter(s.DB(), &CustomerRow{}, domain.CustomerFields.Has, []filter.Condition{filter.Eq("company_info.segment.size", "small")})
	mustNoError(t, "compile", err)
	if len(sc.joins) != 1 || !strings.Contains(sc.wheres[0].sql, "segment_size") {
		t.Fatalf("unexpected scope %+v", sc)
	}
	sc, err = compileFilter(s.DB(), &LeadRow{}, domain.LeadFields.Has, []filter.Condition{filter.Eq("contact_data.email", "x@example.com")})
	mustNoError(t, "compile", err)
	if len(sc.joins) != 0 || !strings.Contains(sc.wheres[0].sql, "contact_data_email") {
		t.Fatalf("unexpected scope %+v", sc)
	}
}

func TestCompileFilterRejectsUnknownFieldsAndTypes(t *testing.T) {
	s := openTestStorage(t)
	anyPath := func(string) bool { return true }
	cases := []struct {
		name  string
		known func(string) bool
		cond  filter.Condition
		want  error
	}{
		{"unknown column", anyPath, filter.Eq("company_info.nickname", "x"), filter.ErrInvalidField},
		{"unknown relation", anyPath, filter.Eq("owner.name", "x"), filter.ErrInvalidField},
		{"empty path", anyPath, filter.Eq("", "x"), filter.ErrInvalidField},
		{"unknown type", anyPath, filter.Condition{Field: "status", Value: "x", Type: "regex"}, filter.ErrInvalidType},
		{"mapped but not filterable", domain.CustomerFields.Has, filter.Eq("contact_persons.preferred_language.name", "English"), filter.ErrInvalidField},
		{"raw embedded column", domain.CustomerFields.Has, filter.Eq("company_info.segment_size", "small"), filter.ErrInvalidField},
		{"foreign key column", domain.CustomerFields.Has, filter.Eq("company_info.customer_id", "c-1"), filter.ErrInvalidField},
		{"field checked before type", domain.CustomerFields.Has, filter.Condition{Field: "company_info.ceo", Value: "x", Type: "regex"}, filter.ErrInvalidField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compileFilter(s.DB(), &CustomerRow{}, tc.known, []filter.Condition{tc.cond})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if domain.CodeOf(err) != domain.CodeInvalidFilter {
				t.Fatalf("expected invalid filter code, got %q", domain.CodeOf(err))
			}
		})
	}
}

func TestQueryFiltersAcrossChildren(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	company := fixtures.Customer(t, "rm-1", "My Company Ltd.", [2]string{"Ada", "Lovelace"}, [2]string{"Alan", "Turing"})
	firm := fixtures.Customer(t, "rm-2", "My Firm Ltd.", [2]string{"Grace", "Hopper"})
	mustNoError(t, "seed", domain.Within(ctx, s.Customers(), func(r domain.CustomerRepository) error {
		if err := r.Create(ctx, company); err != nil {
			return err
		}
		return r.Create(ctx, firm)
	}))

	cases := []struct {
		name  string
		conds []filter.Condition
		want  []string
	}{
		{"no conditions", nil, []string{company.ID(), firm.ID()}},
		{"search name", []filter.Condition{filter.Contains("company_info.name", "  COMPANY ")}, []string{company.ID()}},
		{"null value ignored", []filter.Condition{filter.Eq("company_info.name", nil)}, []string{company.ID(), firm.ID()}},
		{"iequals person", []filter.Condition{filter.IEq("contact_persons.first_name", "ALAN")}, []string{company.ID()}},
		{"method value", []filter.Condition{filter.Eq("contact_persons.contact_methods.value", "Grace.Hopper@example.com")}, []string{firm.ID()}},
		{"shared phone once", []filter.Condition{filter.Eq("contact_persons.contact_methods.value", "+49301234567")}, []string{company.ID(), firm.ID()}},
		{"country", []filter.Condition{filter.Eq("company_info.address.country.code", "DE"), filter.Eq("relation_manager_id", "rm-2")}, []string{firm.ID()}},
		{"one person by both names", []filter.Condition{filter.Eq("contact_persons.first_name", "Ada"), filter.Eq("contact_persons.last_name", "Lovelace")}, []string{company.ID()}},
		{"names of two persons", []filter.Condition{filter.Eq("contact_persons.first_name", "Ada"), filter.Eq("contact_persons.last_name", "Turing")}, nil},
		{"like wildcards escaped", []filter.Condition{filter.Contains("company_info.name", "%")}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Query().Customers(ctx, tc.conds)
			mustNoError(t, "query", err)
			ids := make(map[string]bool, len(got))
			for _, c := range got {
				ids[c.ID()] = true
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d customers, got %d", len(tc.want), len(got))
			}
			for _, id := range tc.want {
				if !ids[id] {
					t.Fatalf("missing customer %s", id)
				}
			}
		})
	}

	if _, err := s.Query().Leads(ctx, []filter.Condition{filter.Eq("contact_persons.first_name", "x")}); !errors.Is(err, filter.ErrInvalidField) {
		t.Fatalf("expected invalid field for leads, got %v", err)
	}
}

func TestQueryOpportunitiesByProduct(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	suite := fixtures.Opportunity(t, "cust-1", "sr-a", "CRM Suite", "100")
	support := fixtures.Opportunity(t, "cust-1", "sr-b", "Support", "5")
	mustNoError(t, "seed", domain.Within(ctx, s.Opportunities(), func(r domain.OpportunityRepository) error {
		if err := r.Create(ctx, suite); err != nil {
			return err
		}
		return r.Create(ctx, support)
	}))
	got, err := s.Query().Opportunities(ctx, []filter.Condition{filter.Contains("offer.product.name", "suite")})
	mustNoError(t, "query", err)
	if len(got) != 1 || got[0].ID() != suite.ID() || got[0].OwnerID() != "sr-a" {
		t.Fatalf("unexpected result %+v", got)
	}
}
