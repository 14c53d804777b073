package repositories

import (
	"context"

	"github.com/SscSPs/bizcore/internal/core/domain"
)

// PositionReader defines read operations for positions
type PositionReader interface {
	FindPositionByID(ctx context.Context, positionID int64) (*domain.Position, error)
	// ListPositionsByBusiness returns positions ordered by id. Inactive ones are included on request.
	ListPositionsByBusiness(ctx context.Context, businessID int64, includeInactive bool) ([]domain.Position, error)
}

// PositionWriter defines write operations for positions
type PositionWriter interface {
	SavePosition(ctx context.Context, position domain.Position) error
	// UpdatePosition persists title, salary, capacity, manager and active flags.
	UpdatePosition(ctx context.Context, position domain.Position) error
}

// PositionRepositoryFacade combines all position-related repository interfaces
type PositionRepositoryFacade interface {
	PositionReader
	PositionWriter
}
