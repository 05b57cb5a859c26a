package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "anonmsg/pkg/domain-errors"
)

const OutcomeSuccess = "success"

// Metrics holds the use case instruments shared by every service.
type Metrics struct {
	UseCaseTotal    *prometheus.CounterVec
	UseCaseDuration *prometheus.HistogramVec
	LoginFailures   prometheus.Counter
	AccountsLocked  prometheus.Counter
}

// New creates and registers the metrics with reg. Pass
// prometheus.DefaultRegisterer in binaries and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UseCaseTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "anonmsg_usecase_total",
			Help: "Use case invocations by outcome",
		}, []string{"usecase", "outcome"}),
		UseCaseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "anonmsg_usecase_duration_seconds",
			Help:    "Use case latency including collaborator calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"usecase"}),
		LoginFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "anonmsg_login_failures_total",
			Help: "Rejected login attempts",
		}),
		AccountsLocked: f.NewCounter(prometheus.CounterOpts{
			Name: "anonmsg_accounts_locked_total",
			Help: "Accounts locked after repeated login failures",
		}),
	}
}

// ObserveUseCase records one call. Safe on a nil receiver.
func (m *Metrics) ObserveUseCase(usecase string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.UseCaseTotal.WithLabelValues(usecase, Outcome(err)).Inc()
	m.UseCaseDuration.WithLabelValues(usecase).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncLoginFailure() {
	if m != nil {
		m.LoginFailures.Inc()
	}
}

func (m *Metrics) IncAccountLocked() {
	if m != nil {
		m.AccountsLocked.Inc()
	}
}

// Outcome maps an error to a low-cardinality label: "success", or the
// domain error code.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return string(dErrors.CodeOf(err))
}
