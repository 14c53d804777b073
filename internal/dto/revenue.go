package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordRevenueRequest records owner-reported income.
type RecordRevenueRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Type        string          `json:"type" binding:"omitempty,max=32"`
	Description string          `json:"description" binding:"omitempty,max=256"`
}

// ListLedgerParams defines query parameters for paging through the ledger.
type ListLedgerParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	ID          int64              `json:"id,string"`
	BusinessID  int64              `json:"businessID,string"`
	Type        domain.RevenueType `json:"type"`
	Amount      decimal.Decimal    `json:"amount"`
	Source      string             `json:"source"`
	GeneratedBy string             `json:"generatedBy,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Description string             `json:"description"`
	Metadata    json.RawMessage    `json:"metadata,omitempty"`
}

// ListLedgerResponse wraps a ledger page.
type ListLedgerResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken string                `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponse converts a domain.RevenueLedgerEntry to LedgerEntryResponse DTO
func ToLedgerEntryResponse(e *domain.RevenueLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          e.ID,
		BusinessID:  e.BusinessID,
		Type:        e.Type,
		Amount:      e.Amount,
		Source:      e.Source,
		GeneratedBy: e.GeneratedBy,
		Timestamp:   e.Timestamp,
		Description: e.Description,
		Metadata:    e.Metadata,
	}
}

// ToListLedgerResponse converts a page of entries and its continuation token.
func ToListLedgerResponse(entries []domain.RevenueLedgerEntry, nextToken string) ListLedgerResponse {
	res := ListLedgerResponse{
		Entries:   make([]LedgerEntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		res.Entries[i] = ToLedgerEntryResponse(&entries[i])
	}
	return res
}
