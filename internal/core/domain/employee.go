package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is an employment of a player at a business.
type Employee struct {
	ID            int64           `json:"id"`
	BusinessID    int64           `json:"businessID"`
	PositionID    int64           `json:"positionID"`
	PlayerID      string          `json:"playerID"`
	CurrentSalary decimal.Decimal `json:"currentSalary"` // May diverge from Position.BaseSalary
	HiredAt       time.Time       `json:"hiredAt"`
	IsActive      bool            `json:"isActive"`
	Notes         string          `json:"notes"`
	TerminatedAt  *time.Time      `json:"terminatedAt,omitempty"`
	AuditFields
}

// TotalSalary sums CurrentSalary over the given employees.
func TotalSalary(employees []Employee) decimal.Decimal {
	total := decimal.Zero
	for _, e := range employees {
		total = total.Add(e.CurrentSalary)
	}
	return total
}

// AverageSalary returns the mean CurrentSalary, or zero for no employees.
func AverageSalary(employees []Employee) decimal.Decimal {
	if len(employees) == 0 {
		return decimal.Zero
	}
	return TotalSalary(employees).Div(decimal.NewFromInt(int64(len(employees))))
}
