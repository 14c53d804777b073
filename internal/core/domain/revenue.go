package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RevenueType tags a ledger entry with the kind of income it records.
type RevenueType string

const (
	RevenueServiceFee      RevenueType = "SERVICE_FEE"
	RevenueProductSale     RevenueType = "PRODUCT_SALE"
	RevenueContractPayment RevenueType = "CONTRACT_PAYMENT"
	RevenuePassiveIncome   RevenueType = "PASSIVE_INCOME"
	RevenueMixed           RevenueType = "MIXED"
	RevenueInvestment      RevenueType = "INVESTMENT"
	RevenueManual          RevenueType = "MANUAL"
)

// ParseRevenueType accepts a known revenue type, case-insensitively.
func ParseRevenueType(s string) (RevenueType, bool) {
	t := RevenueType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case RevenueServiceFee, RevenueProductSale, RevenueContractPayment, RevenuePassiveIncome,
		RevenueMixed, RevenueInvestment, RevenueManual:
		return t, true
	}
	return "", false
}

// Ledger sources.
const (
	SourceScheduler = "scheduler"
	SourceOnDemand  = "on_demand"
	SourceManual    = "manual"
)

// RevenueTypeFor maps a revenue category to the ledger type it produces.
func RevenueTypeFor(category RevenueCategory) RevenueType {
	switch category {
	case CategoryService:
		return RevenueServiceFee
	case CategoryProduct:
		return RevenueProductSale
	case CategoryContract:
		return RevenueContractPayment
	case CategoryPassive:
		return RevenuePassiveIncome
	case CategoryStartup:
		return RevenueInvestment
	default:
		return RevenueMixed
	}
}

// RevenueLedgerEntry is an append-only revenue record.
type RevenueLedgerEntry struct {
	ID          int64           `json:"id"`
	BusinessID  int64           `json:"businessID"`
	Type        RevenueType     `json:"type"`
	Amount      decimal.Decimal `json:"amount"` // Never negative
	Source      string          `json:"source"`
	GeneratedBy string          `json:"generatedBy,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// RevenueResult describes the outcome of one revenue generation attempt.
type RevenueResult struct {
	BusinessID    int64               `json:"businessID"`
	Amount        decimal.Decimal     `json:"amount"`
	EmployeeCount int                 `json:"employeeCount"`
	Skipped       bool                `json:"skipped"`
	Reason        string              `json:"reason,omitempty"`
	Entry         *RevenueLedgerEntry `json:"entry,omitempty"`
}

// Skip reasons reported in RevenueResult.Reason.
const (
	SkipNoEmployees = "no_employees"
	SkipCooldown    = "cooldown"
	SkipZeroAmount  = "zero_amount"
	SkipInactive    = "inactive"
)

// RevenueBatchResult summarizes a revenue generation sweep.
type RevenueBatchResult struct {
	Processed int             `json:"processed"`
	Credited  int             `json:"credited"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
	Total     decimal.Decimal `json:"total"`
}
