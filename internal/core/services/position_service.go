package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/dto"
)

// PositionService manages the job slots of a business.
type PositionService struct {
	BaseService
	positionRepo portsrepo.PositionRepositoryFacade
}

// NewPositionService creates a new PositionService
func NewPositionService(reg *registry.Registry, positionRepo portsrepo.PositionRepositoryFacade, employeeRepo portsrepo.EmployeeReader, opts ...ServiceOption) *PositionService {
	opts = append([]ServiceOption{WithStaffReaders(employeeRepo, positionRepo)}, opts...)
	return &PositionService{
		BaseService:  newBaseService(reg, opts),
		positionRepo: positionRepo,
	}
}

var _ portssvc.PositionSvcFacade = (*PositionService)(nil)

func (s *PositionService) CreatePosition(ctx context.Context, businessID int64, req dto.CreatePositionRequest, actorID string) (*domain.Position, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationErr("position title is required")
	}
	if err := amountErr("base salary", req.BaseSalary); err != nil {
		return nil, err
	}
	if req.MaxEmployees < 1 {
		return nil, validationErr("max employees must be at least 1")
	}

	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireManager(ctx, b, actorID); err != nil {
		return nil, err
	}

	position := domain.Position{
		ID:           s.IDs.NextID(),
		BusinessID:   businessID,
		Title:        title,
		BaseSalary:   req.BaseSalary,
		MaxEmployees: req.MaxEmployees,
		IsManager:    req.IsManager,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(actorID, s.Clock.Now()),
	}
	if err := s.positionRepo.SavePosition(ctx, position); err != nil {
		s.LogError(ctx, err, "Failed to save position",
			slog.Int64("business_id", businessID),
			slog.String("title", title))
		return nil, storeErr(err, "save position for business %d", businessID)
	}

	s.LogInfo(ctx, "Position created",
		slog.Int64("business_id", businessID),
		slog.Int64("position_id", position.ID),
		slog.String("actor_id", actorID))
	return &position, nil
}

// managedPosition loads a position and checks actorID may manage its business.
func (s *PositionService) managedPosition(ctx context.Context, positionID int64, actorID string) (*domain.Position, error) {
	position, err := s.positionRepo.FindPositionByID(ctx, positionID)
	if err != nil {
		return nil, storeErr(err, "find position %d", positionID)
	}
	b, err := s.Registry.Get(position.BusinessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireManager(ctx, b, actorID); err != nil {
		return nil, err
	}
	return position, nil
}

func (s *PositionService) UpdatePosition(ctx context.Context, positionID int64, req dto.UpdatePositionRequest, actorID string) (*domain.Position, error) {
	position, err := s.managedPosition(ctx, positionID, actorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, validationErr("position title is required")
		}
		position.Title = title
	}
	if req.BaseSalary != nil {
		if err := amountErr("base salary", *req.BaseSalary); err != nil {
			return nil, err
		}
		position.BaseSalary = *req.BaseSalary
	}
	if req.MaxEmployees != nil {
		if *req.MaxEmployees < 1 {
			return nil, validationErr("max employees must be at least 1")
		}
		// lowering capacity below headcount only blocks further hires
		position.MaxEmployees = *req.MaxEmployees
	}
	if req.IsManager != nil {
		position.IsManager = *req.IsManager
	}
	position.Touch(actorID, s.Clock.Now())

	if err := s.positionRepo.UpdatePosition(ctx, *position); err != nil {
		s.LogError(ctx, err, "Failed to update position", slog.Int64("position_id", positionID))
		return nil, storeErr(err, "update position %d", positionID)
	}
	return position, nil
}

func (s *PositionService) DeactivatePosition(ctx context.Context, positionID int64, actorID string) error {
	position, err := s.managedPosition(ctx, positionID, actorID)
	if err != nil {
		return err
	}
	if !position.IsActive {
		return nil
	}
	position.IsActive = false
	position.Touch(actorID, s.Clock.Now())
	if err := s.positionRepo.UpdatePosition(ctx, *position); err != nil {
		s.LogError(ctx, err, "Failed to deactivate position", slog.Int64("position_id", positionID))
		return storeErr(err, "deactivate position %d", positionID)
	}
	s.LogInfo(ctx, "Position deactivated",
		slog.Int64("business_id", position.BusinessID),
		slog.Int64("position_id", positionID),
		slog.String("actor_id", actorID))
	return nil
}

func (s *PositionService) ListPositions(ctx context.Context, businessID int64, includeInactive bool) ([]domain.Position, error) {
	if _, err := s.Registry.Get(businessID); err != nil {
		return nil, err
	}
	positions, err := s.positionRepo.ListPositionsByBusiness(ctx, businessID, includeInactive)
	if err != nil {
		return nil, storeErr(err, "list positions of business %d", businessID)
	}
	return positions, nil
}
