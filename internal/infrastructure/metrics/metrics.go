package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Loan metrics
	LoansCreated   prometheus.Counter
	LoansPaidOff   prometheus.Counter
	LoansCancelled prometheus.Counter
	LoansDeleted   prometheus.Counter
	LoanErrors     *prometheus.CounterVec

	// Payment metrics
	PaymentsApplied  prometheus.Counter
	PaymentsReversed prometheus.Counter
	PaymentAmount    prometheus.Histogram
	PaymentDuration  prometheus.Histogram

	// Collateral metrics
	CollateralIntakes  prometheus.Counter
	CollateralReleases prometheus.Counter
	CollateralRetired  prometheus.Counter
}

// New creates and registers all metrics on the default registerer.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics on the given registerer. Tests pass a
// fresh registry to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LoansCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_loans_created_total",
			Help: "Total number of loans originated",
		}),
		LoansPaidOff: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_loans_paid_off_total",
			Help: "Total number of loans fully paid",
		}),
		LoansCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_loans_cancelled_total",
			Help: "Total number of loans administratively cancelled",
		}),
		LoansDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_loans_deleted_total",
			Help: "Total number of zero-payment loans deleted",
		}),
		LoanErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanledger_loan_errors_total",
				Help: "Total number of rejected loan operations",
			},
			[]string{"operation", "reason"},
		),
		PaymentsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_payments_applied_total",
			Help: "Total number of payments applied",
		}),
		PaymentsReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_payments_reversed_total",
			Help: "Total number of payments administratively reversed",
		}),
		PaymentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "loanledger_payment_amount",
			Help:    "Applied payment amounts",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000},
		}),
		PaymentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "loanledger_payment_duration_seconds",
			Help:    "Duration of payment application",
			Buckets: prometheus.DefBuckets,
		}),
		CollateralIntakes: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_collateral_intakes_total",
			Help: "Total number of collateral items taken in",
		}),
		CollateralReleases: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_collateral_releases_total",
			Help: "Total number of collateral releases",
		}),
		CollateralRetired: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_collateral_retired_total",
			Help: "Total number of collateral items retired",
		}),
	}
}
