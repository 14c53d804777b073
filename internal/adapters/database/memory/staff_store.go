package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindPositionByID(_ context.Context, positionID int64) (*domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[positionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListPositionsByBusiness(_ context.Context, businessID int64, includeInactive bool) ([]domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Position
	for _, p := range s.positions {
		if p.BusinessID == businessID && (includeInactive || p.IsActive) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SavePosition(_ context.Context, position domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.positions[position.ID]; exists {
		return fmt.Errorf("%w: position with ID %d already exists", apperrors.ErrDuplicate, position.ID)
	}
	s.positions[position.ID] = position
	return nil
}

func (s *Store) UpdatePosition(_ context.Context, position domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[position.ID]; !ok {
		return apperrors.ErrNotFound
	}
	s.positions[position.ID] = position
	return nil
}

func (s *Store) FindEmployeeByID(_ context.Context, employeeID int64) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (s *Store) activeEmployee(businessID int64, playerID string) (domain.Employee, bool) {
	for _, e := range s.employees {
		if e.IsActive && e.BusinessID == businessID && e.PlayerID == playerID {
			return e, true
		}
	}
	return domain.Employee{}, false
}

func (s *Store) FindActiveEmployee(_ context.Context, businessID int64, playerID string) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.activeEmployee(businessID, playerID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (s *Store) filterEmployees(keep func(domain.Employee) bool) []domain.Employee {
	var out []domain.Employee
	for _, e := range s.employees {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListActiveEmployeesByBusiness(_ context.Context, businessID int64) ([]domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterEmployees(func(e domain.Employee) bool {
		return e.IsActive && e.BusinessID == businessID
	}), nil
}

func (s *Store) ListEmployeesByBusiness(_ context.Context, businessID int64, includeInactive bool) ([]domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterEmployees(func(e domain.Employee) bool {
		return e.BusinessID == businessID && (includeInactive || e.IsActive)
	}), nil
}

func (s *Store) ListActiveEmployeesByPlayer(_ context.Context, playerID string) ([]domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterEmployees(func(e domain.Employee) bool {
		return e.IsActive && e.PlayerID == playerID
	}), nil
}

func (s *Store) CountActiveEmployeesByBusiness(_ context.Context) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int64]int)
	for _, e := range s.employees {
		if e.IsActive {
			counts[e.BusinessID]++
		}
	}
	return counts, nil
}

// insertEmployee applies the hire guards against the stored position. Callers hold s.mu.
func (s *Store) insertEmployee(employee domain.Employee) error {
	position, ok := s.positions[employee.PositionID]
	if !ok || position.BusinessID != employee.BusinessID {
		return fmt.Errorf("%w: position %d at business %d", apperrors.ErrNotFound, employee.PositionID, employee.BusinessID)
	}
	if !position.IsActive {
		return fmt.Errorf("%w: position %d is inactive", apperrors.ErrInvalidState, employee.PositionID)
	}
	maxEmployees := position.MaxEmployees
	if _, exists := s.employees[employee.ID]; exists {
		return fmt.Errorf("%w: employee with ID %d already exists", apperrors.ErrDuplicate, employee.ID)
	}
	if _, employed := s.activeEmployee(employee.BusinessID, employee.PlayerID); employed {
		return fmt.Errorf("%w: player %s at business %d", apperrors.ErrAlreadyEmployed, employee.PlayerID, employee.BusinessID)
	}
	held := 0
	for _, e := range s.employees {
		if e.IsActive && e.PositionID == employee.PositionID {
			held++
		}
	}
	if held >= maxEmployees {
		return fmt.Errorf("%w: position %d holds %d of %d", apperrors.ErrPositionFull, employee.PositionID, held, maxEmployees)
	}
	s.employees[employee.ID] = employee
	return nil
}

func (s *Store) HireEmployee(_ context.Context, employee domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertEmployee(employee)
}

func (s *Store) UpdateEmployeeSalary(_ context.Context, employeeID int64, salary decimal.Decimal, actorID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[employeeID]
	if !ok || !e.IsActive {
		return apperrors.ErrNotFound
	}
	e.CurrentSalary = salary
	e.Touch(actorID, now)
	s.employees[employeeID] = e
	return nil
}

func (s *Store) DeactivateEmployee(_ context.Context, businessID int64, playerID string, notes string, actorID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.activeEmployee(businessID, playerID)
	if !ok {
		return apperrors.ErrNotFound
	}
	e.IsActive = false
	e.TerminatedAt = &now
	if notes != "" {
		e.Notes = notes
	}
	e.Touch(actorID, now)
	s.employees[e.ID] = e
	return nil
}
