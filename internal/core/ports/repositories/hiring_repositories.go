package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
)

// HiringRequestReader defines read operations for hiring requests
type HiringRequestReader interface {
	FindHiringRequestByID(ctx context.Context, requestID int64) (*domain.HiringRequest, error)

	// FindPendingHiringRequest returns the PENDING request for (businessID, targetPlayerID)
	// whose expiration time is not before now, or apperrors.ErrNotFound.
	FindPendingHiringRequest(ctx context.Context, businessID int64, targetPlayerID string, now time.Time) (*domain.HiringRequest, error)

	// ListHiringRequestsByBusiness returns requests newest first, optionally filtered by stored status.
	ListHiringRequestsByBusiness(ctx context.Context, businessID int64, status *domain.HiringRequestStatus) ([]domain.HiringRequest, error)

	// ListHiringRequestsByPlayer returns requests targeting playerID, newest first.
	ListHiringRequestsByPlayer(ctx context.Context, playerID string) ([]domain.HiringRequest, error)
}

// HiringRequestWriter defines write operations for hiring requests
type HiringRequestWriter interface {
	// SaveHiringRequest inserts request unless a PENDING request for the same business
	// and target is still actionable at request.RequestTime, in which case it returns
	// apperrors.ErrDuplicatePendingRequest. The check and insert are atomic across
	// every process sharing the store.
	SaveHiringRequest(ctx context.Context, request domain.HiringRequest) error

	// DecideHiringRequest moves a PENDING request to status. The update is conditional on
	// the stored status still being PENDING; otherwise apperrors.ErrInvalidState is returned.
	DecideHiringRequest(ctx context.Context, requestID int64, status domain.HiringRequestStatus, reason string, decidedAt time.Time) error

	// AcceptHiringRequest marks the request ACCEPTED and inserts the employee in one
	// transaction, applying the same guards as EmployeeWriter.HireEmployee. On any
	// failure nothing is written and the request stays PENDING.
	AcceptHiringRequest(ctx context.Context, requestID int64, employee domain.Employee, decidedAt time.Time) error

	// ExpireHiringRequests writes EXPIRED for PENDING requests whose expiration time is before now.
	ExpireHiringRequests(ctx context.Context, now time.Time) (int64, error)
}

// HiringRequestRepositoryFacade combines all hiring-related repository interfaces
type HiringRequestRepositoryFacade interface {
	HiringRequestReader
	HiringRequestWriter
}
