package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EmployeeReader defines read operations for employees
type EmployeeReader interface {
	FindEmployeeByID(ctx context.Context, employeeID int64) (*domain.Employee, error)

	// FindActiveEmployee looks up the active employment of playerID at businessID.
	FindActiveEmployee(ctx context.Context, businessID int64, playerID string) (*domain.Employee, error)

	// ListActiveEmployeesByBusiness returns active employees ordered by employee id.
	ListActiveEmployeesByBusiness(ctx context.Context, businessID int64) ([]domain.Employee, error)

	// ListEmployeesByBusiness returns employees ordered by id, including terminated ones on request.
	ListEmployeesByBusiness(ctx context.Context, businessID int64, includeInactive bool) ([]domain.Employee, error)

	// ListActiveEmployeesByPlayer returns every active employment held by playerID.
	ListActiveEmployeesByPlayer(ctx context.Context, playerID string) ([]domain.Employee, error)

	// CountActiveEmployeesByBusiness returns active headcount keyed by business id.
	CountActiveEmployeesByBusiness(ctx context.Context) (map[int64]int, error)
}

// EmployeeWriter defines write operations for employees
type EmployeeWriter interface {
	// HireEmployee inserts an employee after checking, atomically, that the position is
	// active and holds fewer than its stored max_employees active employees
	// (apperrors.ErrPositionFull), and that the player is not already active at the
	// business (apperrors.ErrAlreadyEmployed).
	HireEmployee(ctx context.Context, employee domain.Employee) error

	// UpdateEmployeeSalary sets the current salary of an active employee.
	UpdateEmployeeSalary(ctx context.Context, employeeID int64, salary decimal.Decimal, actorID string, now time.Time) error

	// DeactivateEmployee conditionally deactivates the active employment of playerID at businessID.
	// apperrors.ErrNotFound is returned when no active row matched.
	DeactivateEmployee(ctx context.Context, businessID int64, playerID string, notes string, actorID string, now time.Time) error
}

// EmployeeRepositoryFacade combines all employee-related repository interfaces
type EmployeeRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
}
