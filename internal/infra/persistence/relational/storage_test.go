package relational

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"crmcore/internal/observability"
	"crmcore/pkg/domain"
	fixtures "crmcore/testutil"
)

var errUnrelated = errors.New("unrelated failure")

func mustNoError(t *testing.T, label string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", label, err)
	}
}

func openTestStorage(t *testing.T, opts ...Option) *Storage {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, DialectSQLite, filepath.Join(t.TempDir(), "crm.db"), opts...)
	mustNoError(t, "open", err)
	t.Cleanup(func() { _ = s.Close() })
	mustNoError(t, "seed", s.SeedReferenceData(ctx, ReferenceData{
		Countries:  []domain.Country{fixtures.Must(domain.NewCountry("DE", "Germany"))(t)},
		Languages:  []domain.Language{fixtures.Must(domain.NewLanguage("en", "English"))(t)},
		Currencies: []domain.Currency{fixtures.Must(domain.NewCurrency("EUR", "Euro"))(t)},
		Products: []domain.Product{
			fixtures.Must(domain.NewProduct("p-CRM Suite", "CRM Suite"))(t),
			fixtures.Must(domain.NewProduct("p-Support", "Support"))(t),
		},
	}))
	return s
}

func count(t *testing.T, s *Storage, model any) int64 {
	t.Helper()
	var n int64
	mustNoError(t, "count", s.DB().Model(model).Count(&n).Error)
	return n
}

func TestCustomerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	c := fixtures.Customer(t, "rm-1", "Acme GmbH", [2]string{"Ada", "Lovelace"}, [2]string{"Alan", "Turing"})
	mustNoError(t, "convert", c.Convert("rm-1"))
	mustNoError(t, "create", domain.Within(ctx, s.Customers(), func(r domain.CustomerRepository) error {
		return r.Create(ctx, c)
	}))

	mustNoError(t, "get", domain.Within(ctx, s.Customers(), func(r domain.CustomerRepository) error {
		got, ok, err := r.Get(ctx, c.ID())
		if err != nil || !ok {
			t.Fatalf("get: ok=%v err=%v", ok, err)
		}
		if got.Status() != domain.CustomerConverted || got.CompanyInfo() != c.CompanyInfo() {
			t.Fatalf("customer fields differ: %s %+v", got.Status(), got.CompanyInfo())
		}
		persons := got.ContactPersons()
		if len(persons) != 2 || persons[0].FirstName != "Ada" || persons[1].FirstName != "Alan" {
			t.Fatalf("contact persons out of order: %+v", persons)
		}
		if len(persons[0].ContactMethods) != 2 || !persons[0].ContactMethods[0].IsPreferred() {
			t.Fatalf("contact methods not preserved: %+v", persons[0].ContactMethods)
		}
		if persons[0].PreferredLanguage.Name() != "English" {
			t.Fatalf("language name not loaded: %q", persons[0].PreferredLanguage.Name())
		}
		if _, ok, err := r.Get(ctx, "missing"); ok || err != nil {
			t.Fatalf("expected absent customer, ok=%v err=%v", ok, err)
		}
		return nil
	}))
}

func TestCreateRejectsExistingID(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	rep := fixtures.SalesRepresentative(t, "Sam", "Seller")
	mustNoError(t, "create", domain.Within(ctx, s.SalesRepresentatives(), func(r domain.SalesRepresentativeRepository) error {
		return r.Create(ctx, rep)
	}))
	err := domain.Within(ctx, s.SalesRepresentatives(), func(r domain.SalesRepresentativeRepository) error {
		return r.Create(ctx, rep)
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestUpdateFailsOnMissingReference(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	c := fixtures.Customer(t, "rm-1", "Acme GmbH")
	data := fixtures.ContactPerson(t, "Jean", "Dupont")
	data.PreferredLanguage = fixtures.Must(domain.NewLanguage("fr", "French"))(t)
	_, err := c.AddContactPerson("rm-1", data)
	mustNoError(t, "add", err)

	err = domain.Within(ctx, s.Customers(), func(r domain.CustomerRepository) error {
		return r.Update(ctx, c)
	})
	if !errors.Is(err, domain.ErrReferenceNotFound) || !domain.IsCode(err, domain.CodeStorage) {
		t.Fatalf("expected reference error, got %v", err)
	}
	if n := count(t, s, &CustomerRow{}); n != 0 {
		t.Fatalf("expected no customer rows, got %d", n)
	}

	opp := fixtures.Opportunity(t, c.ID(), "sr-a", "Unknown Product", "10")
	err = domain.Within(ctx, s.Opportunities(), func(r domain.OpportunityRepository) error {
		return r.Create(ctx, opp)
	})
	if !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("expected missing product, got %v", err)
	}
}

func TestRollbackDiscardsCreatedRecords(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	err := domain.Within(ctx, s.Customers(), func(r domain.CustomerRepository) error {
		if err := r.Create(ctx, fixtures.Customer(t, "rm-1", "One", [2]string{"Ada", "Lovelace"})); err != nil {
			return err
		}
		if err := r.Create(ctx, fixtures.Customer(t, "rm-1", "Two")); err != nil {
			return err
		}
		return errUnrelated
	})
	if !errors.Is(err, errUnrelated) {
		t.Fatalf("expected unrelated error, got %v", err)
	}
	for _, model := range []any{&CustomerRow{}, &CompanyInfoRow{}, &AddressRow{}, &ContactPersonRow{}, &ContactMethodRow{}} {
		if n := count(t, s, model); n != 0 {
			t.Fatalf("expected no rows in %T, got %d", model, n)
		}
	}
}

func TestRollbackRestoresChildRecords(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	c := fixtures.Customer(t, "rm-1", "Acme", [2]string{"Ada", "Lovelace"}, [2]string{"Alan", "Turing"})
	mustNoError(t, "seed", domain.Within(ctx, s.Customers(), func(r domain.CustomerRepository) error {
		return r.Create(ctx, c)
	}))
	methodsBefore := count(t, s, &ContactMethodRow{})

	uow := s.Customers()
	mustNoError(t, "begin", uow.Begin(ctx))
	loaded, ok, err := uow.Repository().Get(ctx, c.ID())
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	mustNoError(t, "remove", loaded.RemoveContactPerson("rm-1", loaded.ContactPersons()[0].ID))
	_, err = loaded.AddContactPerson("rm-1", fixtures.ContactPerson(t, "Grace", "Hopper"))
	mustNoError(t, "add", err)
	_, err = loaded.AddContactPerson("rm-1", fixtures.ContactPerson(t, "Edsger", "Dijkstra"))
	mustNoError(t, "add", err)
	mustNoError(t, "update", uow.Repository().Update(ctx, loaded))
	mustNoError(t, "rollback", uow.Rollback(ctx))

	if n := count(t, s, &ContactPersonRow{}); n != 2 {
		t.Fatalf("expected 2 contact persons after rollback, got %d", n)
	}
	if n := count(t, s, &ContactMethodRow{}); n != methodsBefore {
		t.Fatalf("expected %d contact methods after rollback, got %d", methodsBefore, n)
	}
}

func TestUpdateRemovesStaleChildren(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	c := fixtures.Customer(t, "rm-1", "Acme", [2]string{"Ada", "Lovelace"}, [2]string{"Alan", "Turing"})
	opp := fixtures.Opportunity(t, c.ID(), "sr-a", "CRM Suite", "100")
	mustNoError(t, "offer", opp.ModifyOffer(append(fixtures.Offer(t, "CRM Suite", "100"), fixtures.Offer(t, "Support", "20.5")...), "sr-a"))
	mustNoError(t, "customer", domain.Within(ctx, s.Customers(), func(r domain.CustomerRepository) error { return r.Create(ctx, c) }))
	mustNoError(t, "opportunity", domain.Within(ctx, s.Opportunities(), func(r domain.OpportunityRepository) error { return r.Create(ctx, opp) }))

	mustNoError(t, "shrink", domain.Within(ctx, s.Customers(), func(r domain.CustomerRepository) error {
		got, _, err := r.Get(ctx, c.ID())
		if err != nil {
			return err
		}
		if err := got.RemoveContactPerson("rm-1", got.ContactPersons()[1].ID); err != nil {
			return err
		}
		return r.Update(ctx, got)
	}))
	mustNoError(t, "reprice", domain.Within(ctx, s.Opportunities(), func(r domain.OpportunityRepository) error {
		got, _, err := r.Get(ctx, opp.ID())
		if err != nil {
			return err
		}
		if len(got.Offer()) != 2 {
			t.Fatalf("expected two offer items, got %d", len(got.Offer()))
		}
		if err := got.ModifyOffer(fixtures.Offer(t, "Support", "25"), "sr-a"); err != nil {
			return err
		}
		return r.Update(ctx, got)
	}))

	if n := count(t, s, &ContactPersonRow{}); n != 1 {
		t.Fatalf("expected 1 contact person, got %d", n)
	}
	if n := count(t, s, &ContactMethodRow{}); n != 2 {
		t.Fatalf("expected 2 contact methods, got %d", n)
	}
	if n := count(t, s, &OfferItemRow{}); n != 1 {
		t.Fatalf("expected 1 offer item, got %d", n)
	}
	opps, err := s.Query().Opportunities(ctx, nil)
	mustNoError(t, "query", err)
	if len(opps) != 1 || opps[0].Offer()[0].Product().Name() != "Support" || opps[0].Offer()[0].Value().Amount().String() != "25" {
		t.Fatalf("unexpected offer %+v", opps[0].Offer())
	}
}

func TestLeadHistoriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	lead := fixtures.Lead(t, "cust-1", "sr-a", "Lena", "lena@example.com")
	mustNoError(t, "assign", lead.AssignSalesman("sr-a", "sr-a"))
	mustNoError(t, "note", lead.ChangeNote("first call", "sr-a"))
	mustNoError(t, "create", domain.Within(ctx, s.Leads(), func(r domain.LeadRepository) error { return r.Create(ctx, lead) }))

	mustNoError(t, "reassign", domain.Within(ctx, s.Leads(), func(r domain.LeadRepository) error {
		got, _, err := r.Get(ctx, lead.ID())
		if err != nil {
			return err
		}
		if err := got.AssignSalesman("sr-b", "sr-a"); err != nil {
			return err
		}
		return r.Update(ctx, got)
	}))

	leads, err := s.Query().Leads(ctx, nil)
	mustNoError(t, "query", err)
	if len(leads) != 1 {
		t.Fatalf("expected one lead, got %d", len(leads))
	}
	history := leads[0].AssignmentHistory()
	if len(history) != 2 || history[1].PreviousOwnerID() != "sr-a" || history[1].NewOwnerID() != "sr-b" {
		t.Fatalf("unexpected history %+v", history)
	}
	if note, ok := leads[0].Note(); !ok || note.Content() != "first call" {
		t.Fatalf("unexpected note %+v", note)
	}
	if !leads[0].CreatedAt().Equal(lead.CreatedAt()) {
		t.Fatalf("created at changed: %s != %s", leads[0].CreatedAt(), lead.CreatedAt())
	}
}

func TestTransactionStateErrors(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)
	uow := s.Leads()
	if err := uow.Commit(ctx); !errors.Is(err, domain.ErrNoActiveTransaction) {
		t.Fatalf("commit without begin: %v", err)
	}
	if err := uow.Rollback(ctx); !errors.Is(err, domain.ErrNoActiveTransaction) {
		t.Fatalf("rollback without begin: %v", err)
	}
	mustNoError(t, "begin", uow.Begin(ctx))
	if err := uow.Begin(ctx); !errors.Is(err, domain.ErrTransactionActive) {
		t.Fatalf("nested begin: %v", err)
	}
	repo := uow.Repository()
	mustNoError(t, "rollback", uow.Rollback(ctx))
	if err := repo.Update(ctx, fixtures.Lead(t, "c", "sr", "Lena", "l@example.com")); !errors.Is(err, domain.ErrNoActiveTransaction) {
		t.Fatalf("stale repository should fail, got %v", err)
	}
}

func TestUnitOfWorkRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	metrics, err := observability.NewMetrics(prometheus.NewRegistry())
	mustNoError(t, "metrics", err)
	s := openTestStorage(t, WithMetrics(metrics))
	mustNoError(t, "commit", domain.Within(ctx, s.Leads(), func(domain.LeadRepository) error { return nil }))
	got := testutil.ToFloat64(metrics.Transactions().WithLabelValues("relational-sqlite", "leads", string(observability.OutcomeCommit)))
	if got != 1 {
		t.Fatalf("expected one commit, got %v", got)
	}
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	if _, err := Open(context.Background(), Dialect("oracle"), "x"); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
	if _, err := Open(context.Background(), DialectPostgres, ""); err == nil {
		t.Fatalf("expected error for empty postgres dsn")
	}
}
