package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the actor is not allowed to act on the aggregate.
var ErrForbidden = errors.New("forbidden")

// ErrInsufficientFunds indicates a business balance cannot cover the requested debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrDuplicatePendingRequest indicates an unexpired pending hiring request already exists
// for the same business and target player.
var ErrDuplicatePendingRequest = errors.New("a pending hiring request already exists")

// ErrInvalidState indicates an action on a request that is terminal or expired.
var ErrInvalidState = errors.New("invalid state")

// ErrPersistence indicates the store was unavailable or rejected a write.
var ErrPersistence = errors.New("persistence error")

// ErrPartialPayroll indicates a payroll run stopped after some wallet deposits succeeded.
var ErrPartialPayroll = errors.New("partial payroll failure")

// ErrAlreadyEmployed indicates the player already holds an active employment at the business.
var ErrAlreadyEmployed = errors.New("player is already employed at this business")

// ErrPositionFull indicates the position has reached its maximum number of employees.
var ErrPositionFull = errors.New("position is at capacity")

// AppError carries a status-like code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// PartialPayrollError reports which employees were paid before a wallet deposit failed.
// Deposits already made are not reversed.
type PartialPayrollError struct {
	BusinessID       int64
	PaidEmployeeIDs  []int64
	FailedEmployeeID int64
	Cause            error
}

func (e *PartialPayrollError) Error() string {
	return fmt.Sprintf("%s: business %d paid %d employee(s) before employee %d failed: %v",
		ErrPartialPayroll.Error(), e.BusinessID, len(e.PaidEmployeeIDs), e.FailedEmployeeID, e.Cause)
}

func (e *PartialPayrollError) Unwrap() []error {
	return []error{ErrPartialPayroll, e.Cause}
}
