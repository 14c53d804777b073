package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus records how a payroll run ended.
type PayrollStatus string

const (
	PayrollCompleted PayrollStatus = "COMPLETED"
	// PayrollPartial means some employees were paid before a deposit failed.
	// The business was not debited and paid wallets were not reversed.
	PayrollPartial PayrollStatus = "PARTIAL"
)

// PayrollRun is an append-only record of one payroll attempt that moved money.
type PayrollRun struct {
	ID               int64           `json:"id"`
	BusinessID       int64           `json:"businessID"`
	Total            decimal.Decimal `json:"total"`
	EmployeeCount    int             `json:"employeeCount"`
	PaidCount        int             `json:"paidCount"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	Status           PayrollStatus   `json:"status"`
	FailedEmployeeID *int64          `json:"failedEmployeeID,omitempty"`
	ProcessedAt      time.Time       `json:"processedAt"`
}

// PayrollResult is returned by a single-business payroll.
type PayrollResult struct {
	BusinessID    int64           `json:"businessID"`
	EmployeeCount int             `json:"employeeCount"`
	Total         decimal.Decimal `json:"total"`
	Run           *PayrollRun     `json:"run,omitempty"`
}

// PayrollBatchResult summarizes a payroll sweep over all businesses.
type PayrollBatchResult struct {
	Processed         int             `json:"processed"`
	Paid              int             `json:"paid"`
	Skipped           int             `json:"skipped"`
	InsufficientFunds int             `json:"insufficientFunds"`
	Partial           int             `json:"partial"`
	Failed            int             `json:"failed"`
	TotalPaid         decimal.Decimal `json:"totalPaid"`
}
