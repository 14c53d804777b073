package dto

import (
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AdminHireRequest creates an employee without the target's consent. Salary defaults
// to the position's base salary when omitted.
type AdminHireRequest struct {
	BusinessID int64            `json:"businessID,string" binding:"required"`
	PositionID int64            `json:"positionID,string" binding:"required"`
	PlayerID   string           `json:"playerID" binding:"required"`
	Salary     *decimal.Decimal `json:"salary" binding:"omitempty,decimal_gt0,decimal_cents"`
	Notes      string           `json:"notes" binding:"omitempty,max=256"`
}

// SetSalaryRequest changes an employee's current salary.
type SetSalaryRequest struct {
	Salary decimal.Decimal `json:"salary" binding:"decimal_gt0,decimal_cents"`
}

// FireEmployeeRequest terminates the employment of a player.
type FireEmployeeRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=256"`
}

// EmployeeResponse defines the data returned for an employee.
type EmployeeResponse struct {
	ID            int64           `json:"id,string"`
	BusinessID    int64           `json:"businessID,string"`
	PositionID    int64           `json:"positionID,string"`
	PlayerID      string          `json:"playerID"`
	CurrentSalary decimal.Decimal `json:"currentSalary"`
	HiredAt       time.Time       `json:"hiredAt"`
	IsActive      bool            `json:"isActive"`
	Notes         string          `json:"notes,omitempty"`
	TerminatedAt  *time.Time      `json:"terminatedAt,omitempty"`
}

// ToEmployeeResponse converts a domain.Employee to EmployeeResponse DTO
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		BusinessID:    e.BusinessID,
		PositionID:    e.PositionID,
		PlayerID:      e.PlayerID,
		CurrentSalary: e.CurrentSalary,
		HiredAt:       e.HiredAt,
		IsActive:      e.IsActive,
		Notes:         e.Notes,
		TerminatedAt:  e.TerminatedAt,
	}
}

// ToListEmployeeResponse converts employees to response DTOs
func ToListEmployeeResponse(employees []domain.Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i := range employees {
		res[i] = ToEmployeeResponse(&employees[i])
	}
	return res
}
