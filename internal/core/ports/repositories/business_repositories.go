package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BusinessReader defines read operations for business data
type BusinessReader interface {
	// FindBusinessByID retrieves a business by its identifier.
	FindBusinessByID(ctx context.Context, businessID int64) (*domain.Business, error)

	// ListBusinesses retrieves every business, active or not, ordered by id.
	ListBusinesses(ctx context.Context) ([]domain.Business, error)
}

// BusinessWriter defines write operations for business data
type BusinessWriter interface {
	// SaveBusiness persists a new business. A name already used by the same owner
	// (case-insensitive) yields apperrors.ErrDuplicate.
	SaveBusiness(ctx context.Context, business domain.Business) error

	// UpdateBusiness persists name, type, description and active flag.
	UpdateBusiness(ctx context.Context, business domain.Business) error

	// UpdateBusinessBalance writes the balance held by the registry.
	UpdateBusinessBalance(ctx context.Context, businessID int64, balance decimal.Decimal, actorID string, now time.Time) error

	// UpdateBusinessRevenueModel writes the assigned revenue model.
	UpdateBusinessRevenueModel(ctx context.Context, businessID int64, model domain.RevenueModelTag, actorID string, now time.Time) error

	// UpdateBusinessRollups writes the denormalized revenue projection.
	UpdateBusinessRollups(ctx context.Context, businessID int64, rollups domain.BusinessRollups) error
}

// BusinessRepositoryFacade combines all business-related repository interfaces
type BusinessRepositoryFacade interface {
	BusinessReader
	BusinessWriter
}
