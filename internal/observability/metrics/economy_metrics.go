package metrics

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	ErrorTypeDeadlineExceeded = "deadline_exceeded"
	ErrorTypeInsufficientFund = "insufficient_funds"
	ErrorTypePartialPayroll   = "partial_payroll"
	ErrorTypePersistence      = "persistence"
	ErrorTypeBusinessRule     = "business_rule"
	ErrorTypeUnknown          = "unknown"
)

// Outcome labels shared by payroll and revenue counters.
const (
	OutcomePaid              = "paid"
	OutcomeCredited          = "credited"
	OutcomeSkipped           = "skipped"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomePartial           = "partial"
	OutcomeFailed            = "failed"
)

// EconomyMetrics captures scheduler, payroll, revenue, hiring and HTTP signals.
type EconomyMetrics struct {
	jobRuns      *prometheus.CounterVec
	jobDuration  *prometheus.HistogramVec
	jobTimeouts  *prometheus.CounterVec
	jobErrors    *prometheus.CounterVec
	payrollRuns  *prometheus.CounterVec
	payrollPaid  prometheus.Counter
	revenueRuns  *prometheus.CounterVec
	revenueTotal *prometheus.CounterVec
	hiring       *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var (
	economyMetricsOnce sync.Once
	economyMetrics     *EconomyMetrics
)

// Economy returns the singleton metrics registry bound to prometheus.DefaultRegisterer.
func Economy() *EconomyMetrics {
	economyMetricsOnce.Do(func() {
		economyMetrics = newEconomyMetrics(prometheus.DefaultRegisterer)
	})
	return economyMetrics
}

// ResetEconomyMetricsForTest swaps the singleton for one bound to registerer.
func ResetEconomyMetricsForTest(registerer prometheus.Registerer) *EconomyMetrics {
	economyMetricsOnce = sync.Once{}
	economyMetricsOnce.Do(func() {
		economyMetrics = newEconomyMetrics(registerer)
	})
	return economyMetrics
}

func newEconomyMetrics(registerer prometheus.Registerer) *EconomyMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &EconomyMetrics{
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bizcore_scheduler_job_runs_total",
			Help: "Scheduler job runs by name.",
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bizcore_scheduler_job_duration_seconds",
			Help:    "Scheduler job latency.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"job"}),
		jobTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bizcore_scheduler_job_timeouts_total",
			Help: "Scheduler jobs that hit their deadline.",
		}, []string{"job"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bizcore_scheduler_job_errors_total",
			Help: "Scheduler job errors by low-cardinality type.",
		}, []string{"job", "error_type"}),
		payrollRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bizcore_payroll_runs_total",
			Help: "Business payroll attempts by outcome.",
		}, []string{"outcome"}),
		payrollPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bizcore_payroll_paid_amount_total",
			Help: "Wages deposited into player wallets.",
		}),
		revenueRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bizcore_revenue_generations_total",
			Help: "Revenue generation attempts by outcome.",
		}, []string{"outcome"}),
		revenueTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bizcore_revenue_amount_total",
			Help: "Revenue credited to businesses by revenue type.",
		}, []string{"type"}),
		hiring: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bizcore_hiring_transitions_total",
			Help: "Hiring request transitions by resulting status.",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bizcore_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bizcore_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registerer.MustRegister(
		m.jobRuns, m.jobDuration, m.jobTimeouts, m.jobErrors,
		m.payrollRuns, m.payrollPaid, m.revenueRuns, m.revenueTotal,
		m.hiring, m.httpRequests, m.httpDuration,
	)
	return m
}

func (m *EconomyMetrics) IncJobRun(job string) {
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *EconomyMetrics) ObserveJobDuration(job string, d time.Duration) {
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *EconomyMetrics) IncJobTimeout(job string) {
	m.jobTimeouts.WithLabelValues(job).Inc()
}

func (m *EconomyMetrics) IncJobError(job string, err error) {
	m.jobErrors.WithLabelValues(job, ClassifyError(err)).Inc()
}

func (m *EconomyMetrics) IncPayroll(outcome string) {
	m.payrollRuns.WithLabelValues(outcome).Inc()
}

func (m *EconomyMetrics) AddPayrollPaid(amount decimal.Decimal) {
	m.payrollPaid.Add(amount.InexactFloat64())
}

func (m *EconomyMetrics) IncRevenue(outcome string) {
	m.revenueRuns.WithLabelValues(outcome).Inc()
}

func (m *EconomyMetrics) AddRevenue(revenueType string, amount decimal.Decimal) {
	m.revenueTotal.WithLabelValues(revenueType).Add(amount.InexactFloat64())
}

func (m *EconomyMetrics) IncHiring(status string) {
	m.hiring.WithLabelValues(status).Inc()
}

func (m *EconomyMetrics) ObserveHTTPRequest(method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ClassifyError maps an error to a low-cardinality label.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrorTypeDeadlineExceeded
	case errors.Is(err, apperrors.ErrPartialPayroll):
		return ErrorTypePartialPayroll
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return ErrorTypeInsufficientFund
	case errors.Is(err, apperrors.ErrPersistence):
		return ErrorTypePersistence
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrNotFound):
		return ErrorTypeBusinessRule
	default:
		return ErrorTypeUnknown
	}
}
