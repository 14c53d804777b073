package dto

import (
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateHiringRequest defines the data needed to offer a position to a player.
type CreateHiringRequest struct {
	BusinessID     int64           `json:"businessID,string" binding:"required"`
	PositionID     int64           `json:"positionID,string" binding:"required"`
	TargetPlayerID string          `json:"targetPlayerID" binding:"required"`
	OfferedSalary  decimal.Decimal `json:"offeredSalary" binding:"decimal_gt0,decimal_cents"`
	Message        string          `json:"message" binding:"omitempty,max=256"`
}

// DecideHiringRequest carries the optional reason given when rejecting a request.
type DecideHiringRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=256"`
}

// ListHiringRequestsParams filters business hiring request listings.
type ListHiringRequestsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING ACCEPTED REJECTED EXPIRED CANCELLED"`
}

// HiringRequestResponse defines the data returned for a hiring request.
// Status is the effective status: stale PENDING requests are reported as EXPIRED.
type HiringRequestResponse struct {
	ID             int64                      `json:"id,string"`
	BusinessID     int64                      `json:"businessID,string"`
	PositionID     int64                      `json:"positionID,string"`
	TargetPlayerID string                     `json:"targetPlayerID"`
	RequesterID    string                     `json:"requesterID"`
	OfferedSalary  decimal.Decimal            `json:"offeredSalary"`
	Message        string                     `json:"message,omitempty"`
	RequestTime    time.Time                  `json:"requestTime"`
	ExpirationTime time.Time                  `json:"expirationTime"`
	Status         domain.HiringRequestStatus `json:"status"`
	DecidedAt      *time.Time                 `json:"decidedAt,omitempty"`
	DecisionReason string                     `json:"decisionReason,omitempty"`
}

// ToHiringRequestResponse converts a domain.HiringRequest to HiringRequestResponse DTO
func ToHiringRequestResponse(r *domain.HiringRequest) HiringRequestResponse {
	return HiringRequestResponse{
		ID:             r.ID,
		BusinessID:     r.BusinessID,
		PositionID:     r.PositionID,
		TargetPlayerID: r.TargetPlayerID,
		RequesterID:    r.RequesterID,
		OfferedSalary:  r.OfferedSalary,
		Message:        r.Message,
		RequestTime:    r.RequestTime,
		ExpirationTime: r.ExpirationTime,
		Status:         r.Status,
		DecidedAt:      r.DecidedAt,
		DecisionReason: r.DecisionReason,
	}
}

// ToListHiringRequestResponse converts hiring requests to response DTOs
func ToListHiringRequestResponse(requests []domain.HiringRequest) []HiringRequestResponse {
	res := make([]HiringRequestResponse, len(requests))
	for i := range requests {
		res[i] = ToHiringRequestResponse(&requests[i])
	}
	return res
}
