package dto

import (
	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePositionRequest defines the data needed to open a position.
type CreatePositionRequest struct {
	Title        string          `json:"title" binding:"required,max=64"`
	BaseSalary   decimal.Decimal `json:"baseSalary" binding:"decimal_gt0,decimal_cents"`
	MaxEmployees int             `json:"maxEmployees" binding:"required,min=1,max=1000"`
	IsManager    bool            `json:"isManager"`
}

// UpdatePositionRequest defines editable position fields. Nil fields are left unchanged.
type UpdatePositionRequest struct {
	Title        *string          `json:"title" binding:"omitempty,max=64"`
	BaseSalary   *decimal.Decimal `json:"baseSalary" binding:"omitempty,decimal_gt0,decimal_cents"`
	MaxEmployees *int             `json:"maxEmployees" binding:"omitempty,min=1,max=1000"`
	IsManager    *bool            `json:"isManager"`
}

// PositionResponse defines the data returned for a position.
type PositionResponse struct {
	ID           int64           `json:"id,string"`
	BusinessID   int64           `json:"businessID,string"`
	Title        string          `json:"title"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	MaxEmployees int             `json:"maxEmployees"`
	IsManager    bool            `json:"isManager"`
	IsActive     bool            `json:"isActive"`
}

// ToPositionResponse converts a domain.Position to PositionResponse DTO
func ToPositionResponse(p *domain.Position) PositionResponse {
	return PositionResponse{
		ID:           p.ID,
		BusinessID:   p.BusinessID,
		Title:        p.Title,
		BaseSalary:   p.BaseSalary,
		MaxEmployees: p.MaxEmployees,
		IsManager:    p.IsManager,
		IsActive:     p.IsActive,
	}
}

// ToListPositionResponse converts positions to response DTOs
func ToListPositionResponse(positions []domain.Position) []PositionResponse {
	res := make([]PositionResponse, len(positions))
	for i := range positions {
		res[i] = ToPositionResponse(&positions[i])
	}
	return res
}
