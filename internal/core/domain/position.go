package domain

import "github.com/shopspring/decimal"

// Position is a job slot within a business.
type Position struct {
	ID           int64           `json:"id"`
	BusinessID   int64           `json:"businessID"`
	Title        string          `json:"title"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	MaxEmployees int             `json:"maxEmployees"` // Capacity
	IsManager    bool            `json:"isManager"`    // Holders may hire and manage staff
	IsActive     bool            `json:"isActive"`
	AuditFields
}

// HasCapacity reports whether another employee fits given the current active headcount.
func (p Position) HasCapacity(activeCount int) bool {
	return activeCount < p.MaxEmployees
}
