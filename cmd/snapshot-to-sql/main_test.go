package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"crmcore/internal/infra/persistence/relational"
	"crmcore/internal/infra/persistence/snapshot"
	"crmcore/pkg/domain"
	fixtures "crmcore/testutil"
)

func writeSnapshot(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()
	backend, err := snapshot.NewFileBackend(path)
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	st := snapshot.New(backend)
	defer func() { _ = st.Close() }()
	c := fixtures.Customer(t, "rm-1", "Acme GmbH", [2]string{"Ada", "Lovelace"})
	steps := []error{
		domain.Within(ctx, st.Customers(), func(r domain.CustomerRepository) error { return r.Create(ctx, c) }),
		domain.Within(ctx, st.Leads(), func(r domain.LeadRepository) error {
			return r.Create(ctx, fixtures.Lead(t, c.ID(), "sr-a", "Lena", "lena@example.com"))
		}),
		domain.Within(ctx, st.Opportunities(), func(r domain.OpportunityRepository) error {
			return r.Create(ctx, fixtures.Opportunity(t, c.ID(), "sr-a", "CRM Suite", "10"))
		}),
		domain.Within(ctx, st.SalesRepresentatives(), func(r domain.SalesRepresentativeRepository) error {
			return r.Create(ctx, fixtures.SalesRepresentative(t, "Sam", "Seller"))
		}),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestCLICopiesSnapshotIntoSQLite(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "crm.json")
	target := filepath.Join(dir, "crm.db")
	writeSnapshot(t, source)

	args := []string{"-snapshot-driver", "file", "-snapshot-path", source, "-dialect", "sqlite", "-dsn", target, "-log-mode", "nop"}
	for run := 0; run < 2; run++ {
		var stdout, stderr bytes.Buffer
		if code := cli(context.Background(), args, &stdout, &stderr); code != 0 {
			t.Fatalf("run %d: exit %d: %s", run, code, stderr.String())
		}
		if !strings.Contains(stdout.String(), "copied 1 customers, 1 leads, 1 opportunities, 1 sales representatives") {
			t.Fatalf("unexpected output %q", stdout.String())
		}
	}

	ctx := context.Background()
	rel, err := relational.Open(ctx, relational.DialectSQLite, target)
	if err != nil {
		t.Fatalf("open target: %v", err)
	}
	defer func() { _ = rel.Close() }()
	customers, err := rel.Query().Customers(ctx, nil)
	if err != nil || len(customers) != 1 {
		t.Fatalf("customers: %d %v", len(customers), err)
	}
	if got := customers[0].ContactPersons(); len(got) != 1 || got[0].FirstName != "Ada" {
		t.Fatalf("contact persons not copied: %+v", got)
	}
	opps, err := rel.Query().Opportunities(ctx, nil)
	if err != nil || len(opps) != 1 || opps[0].Offer()[0].Product().Name() != "CRM Suite" {
		t.Fatalf("opportunities: %d %v", len(opps), err)
	}
}

func TestCLIRejectsBadInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli(context.Background(), []string{"-no-such-flag"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected usage exit code, got %d", code)
	}
	stderr.Reset()
	if code := cli(context.Background(), []string{"-snapshot-driver", "tape", "-log-mode", "nop"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected failure exit code, got %d", code)
	}
	if !strings.Contains(stderr.String(), "unknown snapshot driver") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}
