package services

import (
	"context"

	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/shopspring/decimal"
)

// BusinessReaderSvc defines read operations for business data
type BusinessReaderSvc interface {
	GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error)

	// GetBusinessByName resolves a case-insensitive name. When several owners use the
	// same name, the business with the lowest id is returned.
	GetBusinessByName(ctx context.Context, name string) (*domain.Business, error)

	ListBusinessesByOwner(ctx context.Context, ownerID string) ([]domain.Business, error)
	ListBusinesses(ctx context.Context) ([]domain.Business, error)
}

// BusinessWriterSvc defines write operations for business data
type BusinessWriterSvc interface {
	RegisterBusiness(ctx context.Context, req dto.RegisterBusinessRequest, ownerID string) (*domain.Business, error)
	UpdateBusiness(ctx context.Context, businessID int64, req dto.UpdateBusinessRequest, actorID string) (*domain.Business, error)

	// Deposit moves amount from the owner's wallet into the business balance.
	Deposit(ctx context.Context, businessID int64, actorID string, amount decimal.Decimal) (*domain.Business, error)

	// Withdraw moves amount from the business balance into the owner's wallet.
	Withdraw(ctx context.Context, businessID int64, actorID string, amount decimal.Decimal) (*domain.Business, error)
}

// RevenueModelSvc manages revenue model assignment
type RevenueModelSvc interface {
	SetRevenueModel(ctx context.Context, businessID int64, actorID string, tag domain.RevenueModelTag) (*domain.Business, error)
	GetRevenueModel(ctx context.Context, businessID int64) (domain.RevenueModel, error)
	ListRevenueModels() []domain.RevenueModel
}

// BusinessSvcFacade combines all business-related service interfaces
type BusinessSvcFacade interface {
	BusinessReaderSvc
	BusinessWriterSvc
	RevenueModelSvc
}

// PositionSvcFacade manages the positions of a business
type PositionSvcFacade interface {
	CreatePosition(ctx context.Context, businessID int64, req dto.CreatePositionRequest, actorID string) (*domain.Position, error)
	UpdatePosition(ctx context.Context, positionID int64, req dto.UpdatePositionRequest, actorID string) (*domain.Position, error)
	DeactivatePosition(ctx context.Context, positionID int64, actorID string) error
	ListPositions(ctx context.Context, businessID int64, includeInactive bool) ([]domain.Position, error)
}

// EmployeeSvcFacade manages employments
type EmployeeSvcFacade interface {
	ListEmployees(ctx context.Context, businessID int64, actorID string, includeInactive bool) ([]domain.Employee, error)
	ListEmployments(ctx context.Context, playerID string) ([]domain.Employee, error)

	// FireEmployee terminates playerID at businessID. Only owners and managers may fire.
	FireEmployee(ctx context.Context, businessID int64, playerID string, actorID string, reason string) error

	// QuitBusiness lets playerID leave businessID.
	QuitBusiness(ctx context.Context, businessID int64, playerID string) error

	SetSalary(ctx context.Context, employeeID int64, actorID string, salary decimal.Decimal) (*domain.Employee, error)

	// AdminHire creates an employee without consent. actorID must be a configured admin.
	AdminHire(ctx context.Context, req dto.AdminHireRequest, actorID string) (*domain.Employee, error)
}
