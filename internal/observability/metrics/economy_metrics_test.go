package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	partial := &apperrors.PartialPayrollError{BusinessID: 1, Cause: errors.New("wallet down")}
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{context.DeadlineExceeded, ErrorTypeDeadlineExceeded},
		{partial, ErrorTypePartialPayroll},
		{fmt.Errorf("%w: short", apperrors.ErrInsufficientFunds), ErrorTypeInsufficientFund},
		{fmt.Errorf("%w: down", apperrors.ErrPersistence), ErrorTypePersistence},
		{apperrors.ErrInvalidState, ErrorTypeBusinessRule},
		{errors.New("boom"), ErrorTypeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyError(tt.err))
	}
}

func TestEconomyMetrics_Counters(t *testing.T) {
	m := ResetEconomyMetricsForTest(prometheus.NewRegistry())

	m.IncJobRun("payroll")
	m.IncJobRun("payroll")
	m.ObserveJobDuration("payroll", time.Second)
	m.IncPayroll(OutcomePaid)
	m.AddPayrollPaid(decimal.RequireFromString("12.5"))
	m.AddRevenue("SERVICE_FEE", decimal.NewFromInt(100))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("payroll")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payrollRuns.WithLabelValues(OutcomePaid)))
	assert.Equal(t, 12.5, testutil.ToFloat64(m.payrollPaid))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.revenueTotal.WithLabelValues("SERVICE_FEE")))
}
