package dto

import (
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterBusinessRequest defines the data needed to register a new business.
type RegisterBusinessRequest struct {
	Name         string `json:"name" binding:"required,max=40"`
	Type         string `json:"type" binding:"omitempty,max=32"`
	Description  string `json:"description" binding:"omitempty,max=500"`
	RevenueModel string `json:"revenueModel" binding:"omitempty"`
}

// UpdateBusinessRequest defines the editable business metadata. Nil fields are left unchanged.
type UpdateBusinessRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=40"`
	Type        *string `json:"type" binding:"omitempty,max=32"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// AmountRequest carries a positive amount for deposits and withdrawals.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"decimal_gt0,decimal_cents"`
}

// SetRevenueModelRequest assigns a catalog revenue model to a business.
type SetRevenueModelRequest struct {
	Model string `json:"model" binding:"required"`
}

// BusinessResponse defines the data returned for a business.
type BusinessResponse struct {
	ID            int64                  `json:"id,string"`
	Name          string                 `json:"name"`
	OwnerID       string                 `json:"ownerID"`
	Type          string                 `json:"type"`
	Description   string                 `json:"description"`
	Balance       decimal.Decimal        `json:"balance"`
	RevenueModel  domain.RevenueModelTag `json:"revenueModel"`
	IsActive      bool                   `json:"isActive"`
	Rollups       domain.BusinessRollups `json:"rollups"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

// ToBusinessResponse converts a domain.Business to BusinessResponse DTO
func ToBusinessResponse(b *domain.Business) BusinessResponse {
	return BusinessResponse{
		ID:            b.ID,
		Name:          b.Name,
		OwnerID:       b.OwnerID,
		Type:          b.Type,
		Description:   b.Description,
		Balance:       b.Balance,
		RevenueModel:  b.RevenueModel,
		IsActive:      b.IsActive,
		Rollups:       b.Rollups,
		CreatedAt:     b.CreatedAt,
		LastUpdatedAt: b.LastUpdatedAt,
	}
}

// ToListBusinessResponse converts a slice of domain.Business to a slice of BusinessResponse DTOs
func ToListBusinessResponse(businesses []domain.Business) []BusinessResponse {
	res := make([]BusinessResponse, len(businesses))
	for i := range businesses {
		res[i] = ToBusinessResponse(&businesses[i])
	}
	return res
}
