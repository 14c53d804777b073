package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxBusinessNameLength bounds business names after trimming.
const MaxBusinessNameLength = 40

// Business is the aggregate root of the economy: an owned organization with a shared balance.
type Business struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`    // Unique per owner (case-insensitive)
	OwnerID      string          `json:"ownerID"` // Opaque player identifier
	Type         string          `json:"type"`    // Category tag, upper-cased
	Description  string          `json:"description"`
	Balance      decimal.Decimal `json:"balance"`
	RevenueModel RevenueModelTag `json:"revenueModel"`
	IsActive     bool            `json:"isActive"`
	Rollups      BusinessRollups `json:"rollups"`
	AuditFields
}

// BusinessRollups is a cached projection of ledger and payroll history.
// It is refreshed by the rollup job and is never authoritative.
type BusinessRollups struct {
	DailyRevenue   decimal.Decimal `json:"dailyRevenue"`
	WeeklyRevenue  decimal.Decimal `json:"weeklyRevenue"`
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	RefreshedAt    *time.Time      `json:"refreshedAt,omitempty"`
}

// IsOwnedBy reports whether actorID owns the business.
func (b Business) IsOwnedBy(actorID string) bool {
	return actorID != "" && b.OwnerID == actorID
}

// NormalizeBusinessName trims surrounding whitespace.
func NormalizeBusinessName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateBusinessName reports whether a name is usable.
func ValidateBusinessName(name string) bool {
	trimmed := NormalizeBusinessName(name)
	return trimmed != "" && len(trimmed) <= MaxBusinessNameLength
}

// NormalizeBusinessType upper-cases the category tag; empty becomes GENERAL.
func NormalizeBusinessType(kind string) string {
	kind = strings.ToUpper(strings.TrimSpace(kind))
	if kind == "" {
		return "GENERAL"
	}
	return kind
}

// SameName compares business names the way uniqueness is enforced.
func SameName(a, b string) bool {
	return strings.EqualFold(NormalizeBusinessName(a), NormalizeBusinessName(b))
}
