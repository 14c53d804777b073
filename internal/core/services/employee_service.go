package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/shopspring/decimal"
)

// EmployeeService manages employments outside the consent workflow.
type EmployeeService struct {
	BaseService
	employeeRepo portsrepo.EmployeeRepositoryFacade
	positionRepo portsrepo.PositionReader
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(reg *registry.Registry, employeeRepo portsrepo.EmployeeRepositoryFacade, positionRepo portsrepo.PositionReader, opts ...ServiceOption) *EmployeeService {
	opts = append([]ServiceOption{WithStaffReaders(employeeRepo, positionRepo)}, opts...)
	return &EmployeeService{
		BaseService:  newBaseService(reg, opts),
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
	}
}

var _ portssvc.EmployeeSvcFacade = (*EmployeeService)(nil)

func (s *EmployeeService) ListEmployees(ctx context.Context, businessID int64, actorID string, includeInactive bool) ([]domain.Employee, error) {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if includeInactive {
		if err := s.RequireManager(ctx, b, actorID); err != nil {
			return nil, err
		}
	}
	employees, err := s.employeeRepo.ListEmployeesByBusiness(ctx, businessID, includeInactive)
	if err != nil {
		return nil, storeErr(err, "list employees of business %d", businessID)
	}
	return employees, nil
}

func (s *EmployeeService) ListEmployments(ctx context.Context, playerID string) ([]domain.Employee, error) {
	employees, err := s.employeeRepo.ListActiveEmployeesByPlayer(ctx, playerID)
	if err != nil {
		return nil, storeErr(err, "list employments of %s", playerID)
	}
	return employees, nil
}

func (s *EmployeeService) FireEmployee(ctx context.Context, businessID int64, playerID string, actorID string, reason string) error {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return err
	}
	if err := s.RequireManager(ctx, b, actorID); err != nil {
		return err
	}

	notes := "fired"
	if reason = strings.TrimSpace(reason); reason != "" {
		notes = "fired: " + reason
	}
	if err := s.employeeRepo.DeactivateEmployee(ctx, businessID, playerID, notes, actorID, s.Clock.Now()); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s is not employed at business %d", apperrors.ErrNotFound, playerID, businessID)
		}
		s.LogError(ctx, err, "Failed to fire employee",
			slog.Int64("business_id", businessID),
			slog.String("player_id", playerID),
			slog.String("actor_id", actorID))
		return storeErr(err, "deactivate %s at business %d", playerID, businessID)
	}

	s.LogInfo(ctx, "Employee fired",
		slog.Int64("business_id", businessID),
		slog.String("player_id", playerID),
		slog.String("actor_id", actorID))
	s.notify(ctx, playerID, "You have been let go from %s", b.Name)
	return nil
}

func (s *EmployeeService) QuitBusiness(ctx context.Context, businessID int64, playerID string) error {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return err
	}
	if err := s.employeeRepo.DeactivateEmployee(ctx, businessID, playerID, "quit", playerID, s.Clock.Now()); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s is not employed at business %d", apperrors.ErrNotFound, playerID, businessID)
		}
		s.LogError(ctx, err, "Failed to record resignation",
			slog.Int64("business_id", businessID),
			slog.String("player_id", playerID))
		return storeErr(err, "deactivate %s at business %d", playerID, businessID)
	}

	s.LogInfo(ctx, "Employee quit",
		slog.Int64("business_id", businessID),
		slog.String("player_id", playerID))
	s.notify(ctx, b.OwnerID, "%s has left %s", playerID, b.Name)
	return nil
}

func (s *EmployeeService) SetSalary(ctx context.Context, employeeID int64, actorID string, salary decimal.Decimal) (*domain.Employee, error) {
	if err := amountErr("salary", salary); err != nil {
		return nil, err
	}
	employee, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, storeErr(err, "find employee %d", employeeID)
	}
	if !employee.IsActive {
		return nil, fmt.Errorf("%w: employee %d is no longer active", apperrors.ErrInvalidState, employeeID)
	}
	b, err := s.Registry.Get(employee.BusinessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireManager(ctx, b, actorID); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	if err := s.employeeRepo.UpdateEmployeeSalary(ctx, employeeID, salary, actorID, now); err != nil {
		s.LogError(ctx, err, "Failed to update salary",
			slog.Int64("employee_id", employeeID),
			slog.String("amount", salary.String()))
		return nil, storeErr(err, "update salary of employee %d", employeeID)
	}

	previous := employee.CurrentSalary
	employee.CurrentSalary = salary
	employee.Touch(actorID, now)
	s.LogInfo(ctx, "Salary changed",
		slog.Int64("business_id", b.ID),
		slog.Int64("employee_id", employeeID),
		slog.String("previous", previous.String()),
		slog.String("amount", salary.String()))
	s.notify(ctx, employee.PlayerID, "Your salary at %s is now %s", b.Name, salary.StringFixed(2))
	return employee, nil
}

func (s *EmployeeService) AdminHire(ctx context.Context, req dto.AdminHireRequest, actorID string) (*domain.Employee, error) {
	if !s.IsAdmin(actorID) {
		s.LogWarn(ctx, "Non-admin attempted administrative hire", slog.String("actor_id", actorID))
		return nil, fmt.Errorf("%w: administrative hire requires an admin", apperrors.ErrForbidden)
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		return nil, validationErr("player id is required")
	}

	b, err := s.Registry.Get(req.BusinessID)
	if err != nil {
		return nil, err
	}
	position, err := activePosition(ctx, s.positionRepo, req.BusinessID, req.PositionID)
	if err != nil {
		return nil, err
	}

	salary := position.BaseSalary
	if req.Salary != nil {
		if err := amountErr("salary", *req.Salary); err != nil {
			return nil, err
		}
		salary = *req.Salary
	}

	now := s.Clock.Now()
	employee := domain.Employee{
		ID:            s.IDs.NextID(),
		BusinessID:    b.ID,
		PositionID:    position.ID,
		PlayerID:      req.PlayerID,
		CurrentSalary: salary,
		HiredAt:       now,
		IsActive:      true,
		Notes:         strings.TrimSpace(req.Notes),
		AuditFields:   domain.NewAuditFields(actorID, now),
	}
	if err := s.employeeRepo.HireEmployee(ctx, employee); err != nil {
		s.LogWarn(ctx, "Administrative hire refused",
			slog.String("error", err.Error()),
			slog.Int64("business_id", b.ID),
			slog.String("player_id", req.PlayerID))
		return nil, storeErr(err, "hire %s at business %d", req.PlayerID, b.ID)
	}

	s.LogInfo(ctx, "Administrative hire completed",
		slog.Int64("business_id", b.ID),
		slog.Int64("employee_id", employee.ID),
		slog.String("player_id", req.PlayerID),
		slog.String("actor_id", actorID))
	s.notify(ctx, req.PlayerID, "You have been hired at %s as %s", b.Name, position.Title)
	return &employee, nil
}

// activePosition loads a position and checks it is open at businessID.
func activePosition(ctx context.Context, repo portsrepo.PositionReader, businessID, positionID int64) (*domain.Position, error) {
	position, err := repo.FindPositionByID(ctx, positionID)
	if err != nil {
		return nil, storeErr(err, "find position %d", positionID)
	}
	if position.BusinessID != businessID || !position.IsActive {
		return nil, fmt.Errorf("%w: position %d is not open at business %d", apperrors.ErrNotFound, positionID, businessID)
	}
	return position, nil
}
