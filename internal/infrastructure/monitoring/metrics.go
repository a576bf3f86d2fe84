package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersRegisteredTotal prometheus.Counter
	EligibilityChecksTotal   *prometheus.CounterVec
	LoansCreatedTotal        *prometheus.CounterVec
	ActiveLoans              prometheus.Gauge
	PortfolioPrincipal       prometheus.Gauge
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_customers_registered_total",
				Help: "Total number of customers successfully registered.",
			},
		),
		EligibilityChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_eligibility_checks_total",
				Help: "Total number of eligibility checks by outcome.",
			},
			[]string{"outcome"},
		),
		LoansCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_loan_issuance_total",
				Help: "Total number of loan issuance attempts by outcome.",
			},
			[]string{"outcome"},
		),
		ActiveLoans: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "credit_engine_portfolio_loans",
				Help: "Number of loans currently on the book.",
			},
		),
		PortfolioPrincipal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "credit_engine_portfolio_principal_total",
				Help: "Sum of principal amounts of all loans on the book.",
			},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordCustomerRegistered() {
	Business.CustomersRegisteredTotal.Inc()
}

func RecordEligibilityCheck(outcome string) {
	Business.EligibilityChecksTotal.WithLabelValues(outcome).Inc()
}

func RecordLoanIssuance(outcome string) {
	Business.LoansCreatedTotal.WithLabelValues(outcome).Inc()
}

func RecordPortfolioSnapshot(loanCount int64, totalPrincipal float64) {
	Business.ActiveLoans.Set(float64(loanCount))
	Business.PortfolioPrincipal.Set(totalPrincipal)
}
