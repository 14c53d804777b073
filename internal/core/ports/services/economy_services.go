package services

import (
	"context"
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/SscSPs/bizcore/internal/dto"
)

// HiringReaderSvc defines read operations for hiring requests. Results carry the
// effective status, so PENDING requests past their expiration read as EXPIRED.
type HiringReaderSvc interface {
	GetHiringRequest(ctx context.Context, requestID int64, actorID string) (*domain.HiringRequest, error)
	ListForBusiness(ctx context.Context, businessID int64, actorID string, status *domain.HiringRequestStatus) ([]domain.HiringRequest, error)
	ListForPlayer(ctx context.Context, playerID string) ([]domain.HiringRequest, error)
}

// HiringWriterSvc drives the consent workflow
type HiringWriterSvc interface {
	CreateHiringRequest(ctx context.Context, req dto.CreateHiringRequest, requesterID string) (*domain.HiringRequest, error)
	AcceptHiringRequest(ctx context.Context, requestID int64, actorID string) (*domain.Employee, error)
	RejectHiringRequest(ctx context.Context, requestID int64, actorID string, reason string) (*domain.HiringRequest, error)
	CancelHiringRequest(ctx context.Context, requestID int64, actorID string) (*domain.HiringRequest, error)

	// ExpireStale writes EXPIRED for PENDING requests past their expiration time.
	ExpireStale(ctx context.Context) (int64, error)
}

// HiringSvcFacade combines all hiring-related service interfaces
type HiringSvcFacade interface {
	HiringReaderSvc
	HiringWriterSvc
}

// PayrollSvcFacade pays wages out of business balances
type PayrollSvcFacade interface {
	// ProcessBusinessPayroll pays every active employee of businessID or nobody, except
	// when a wallet deposit fails midway; see apperrors.PartialPayrollError.
	ProcessBusinessPayroll(ctx context.Context, businessID int64) (*domain.PayrollResult, error)

	// ProcessPayroll runs payroll for every active business. Failures are joined and
	// never stop the remaining businesses.
	ProcessPayroll(ctx context.Context) (domain.PayrollBatchResult, error)

	// TriggerPayroll runs payroll on demand for an owner or admin.
	TriggerPayroll(ctx context.Context, businessID int64, actorID string) (*domain.PayrollResult, error)

	ListPayrollRuns(ctx context.Context, businessID int64, actorID string, limit int) ([]domain.PayrollRun, error)
}

// RevenueSvcFacade generates and records income
type RevenueSvcFacade interface {
	// GenerateRevenue runs one generation attempt for businessID. Skips are reported
	// in the result rather than as errors.
	GenerateRevenue(ctx context.Context, businessID int64) (domain.RevenueResult, error)

	// GenerateAll runs generation for every active business.
	GenerateAll(ctx context.Context) (domain.RevenueBatchResult, error)

	// TriggerRevenue runs an on-demand generation for an owner or admin.
	TriggerRevenue(ctx context.Context, businessID int64, actorID string) (domain.RevenueResult, error)

	// RecordRevenue appends owner-reported income and credits the business.
	RecordRevenue(ctx context.Context, businessID int64, req dto.RecordRevenueRequest, actorID string) (*domain.RevenueLedgerEntry, error)
}

// ReportingSvcFacade provides read-only aggregations over the ledger
type ReportingSvcFacade interface {
	Summary(ctx context.Context, businessID int64, actorID string, window time.Duration) (*domain.RevenueSummary, error)
	ListLedger(ctx context.Context, businessID int64, actorID string, params dto.ListLedgerParams) ([]domain.RevenueLedgerEntry, string, error)
	TopBusinesses(ctx context.Context, window time.Duration, limit int) ([]domain.BusinessPerformance, error)

	// RefreshRollups recomputes the cached revenue projection of every business.
	RefreshRollups(ctx context.Context) (int, error)
}
