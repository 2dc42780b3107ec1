package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTransaction(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.ObserveTransaction("snapshot", "customers", OutcomeCommit, 5*time.Millisecond)
	m.ObserveTransaction("snapshot", "customers", OutcomeCommit, time.Millisecond)
	m.ObserveTransaction("relational", "leads", OutcomeRollback, time.Millisecond)

	if got := testutil.ToFloat64(m.Transactions().WithLabelValues("snapshot", "customers", "commit")); got != 2 {
		t.Fatalf("expected 2 commits, got %v", got)
	}
	if got := testutil.ToFloat64(m.Transactions().WithLabelValues("relational", "leads", "rollback")); got != 1 {
		t.Fatalf("expected 1 rollback, got %v", got)
	}
	if n := testutil.CollectAndCount(reg, "crmcore_uow_transaction_duration_seconds"); n != 2 {
		t.Fatalf("expected 2 histogram series, got %d", n)
	}
	if _, err := NewMetrics(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveTransaction("snapshot", "leads", OutcomeError, time.Second)
	if m.Transactions() != nil {
		t.Fatalf("expected nil counter")
	}
}
