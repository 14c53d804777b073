package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// RevenueSummary aggregates ledger activity for one business over a trailing window.
type RevenueSummary struct {
	BusinessID      int64                           `json:"businessID"`
	From            time.Time                       `json:"from"`
	To              time.Time                       `json:"to"`
	EntryCount      int                             `json:"entryCount"`
	TotalRevenue    decimal.Decimal                 `json:"totalRevenue"`
	RevenueByType   map[RevenueType]decimal.Decimal `json:"revenueByType"`
	PayrollExpenses decimal.Decimal                 `json:"payrollExpenses"`
	Profit          decimal.Decimal                 `json:"profit"`
}

// BusinessPerformance is one row of the revenue leaderboard.
type BusinessPerformance struct {
	BusinessID    int64           `json:"businessID"`
	Name          string          `json:"name"`
	OwnerID       string          `json:"ownerID"`
	Revenue       decimal.Decimal `json:"revenue"`
	EmployeeCount int             `json:"employeeCount"`
	Balance       decimal.Decimal `json:"balance"`
}

// WindowDays converts a window into the whole number of days used to prorate salaries.
// Partial days round up; a non-positive window counts as zero days.
func WindowDays(window time.Duration) int64 {
	if window <= 0 {
		return 0
	}
	return int64(math.Ceil(window.Hours() / 24))
}
