// Package observability publishes unit-of-work metrics through prometheus.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels how a transaction ended.
type Outcome string

const (
	OutcomeCommit   Outcome = "commit"
	OutcomeRollback Outcome = "rollback"
	OutcomeError    Outcome = "error"
)

// Metrics records transaction counters and durations per backend and
// repository. A nil *Metrics records nothing.
type Metrics struct {
	transactions *prometheus.CounterVec
	durations    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crmcore",
			Subsystem: "uow",
			Name:      "transactions_total",
			Help:      "Units of work finished, by backend, repository and outcome.",
		}, []string{"backend", "repository", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crmcore",
			Subsystem: "uow",
			Name:      "transaction_duration_seconds",
			Help:      "Time between begin and commit or rollback.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "repository"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.transactions, m.durations} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// ObserveTransaction records one finished transaction.
func (m *Metrics) ObserveTransaction(backend, repository string, outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(backend, repository, string(outcome)).Inc()
	m.durations.WithLabelValues(backend, repository).Observe(elapsed.Seconds())
}

// Transactions exposes the counter vector for tests and custom exporters.
func (m *Metrics) Transactions() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.transactions
}
