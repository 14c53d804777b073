package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock BusinessService ---
type MockBusinessService struct {
	mock.Mock
}

func (m *MockBusinessService) GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockBusinessService) GetBusinessByName(ctx context.Context, name string) (*domain.Business, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockBusinessService) ListBusinessesByOwner(ctx context.Context, ownerID string) ([]domain.Business, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Business), args.Error(1)
}
func (m *MockBusinessService) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Business), args.Error(1)
}
func (m *MockBusinessService) RegisterBusiness(ctx context.Context, req dto.RegisterBusinessRequest, ownerID string) (*domain.Business, error) {
	args := m.Called(ctx, req, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockBusinessService) UpdateBusiness(ctx context.Context, businessID int64, req dto.UpdateBusinessRequest, actorID string) (*domain.Business, error) {
	args := m.Called(ctx, businessID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockBusinessService) Deposit(ctx context.Context, businessID int64, actorID string, amount decimal.Decimal) (*domain.Business, error) {
	args := m.Called(ctx, businessID, actorID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockBusinessService) Withdraw(ctx context.Context, businessID int64, actorID string, amount decimal.Decimal) (*domain.Business, error) {
	args := m.Called(ctx, businessID, actorID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockBusinessService) SetRevenueModel(ctx context.Context, businessID int64, actorID string, tag domain.RevenueModelTag) (*domain.Business, error) {
	args := m.Called(ctx, businessID, actorID, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}
func (m *MockBusinessService) GetRevenueModel(ctx context.Context, businessID int64) (domain.RevenueModel, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(domain.RevenueModel), args.Error(1)
}
func (m *MockBusinessService) ListRevenueModels() []domain.RevenueModel {
	args := m.Called()
	return args.Get(0).([]domain.RevenueModel)
}

var _ portssvc.BusinessSvcFacade = (*MockBusinessService)(nil)

// --- Mock EmployeeService ---
type MockEmployeeService struct {
	mock.Mock
}

func (m *MockEmployeeService) ListEmployees(ctx context.Context, businessID int64, actorID string, includeInactive bool) ([]domain.Employee, error) {
	args := m.Called(ctx, businessID, actorID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}
func (m *MockEmployeeService) ListEmployments(ctx context.Context, playerID string) ([]domain.Employee, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}
func (m *MockEmployeeService) FireEmployee(ctx context.Context, businessID int64, playerID string, actorID string, reason string) error {
	return m.Called(ctx, businessID, playerID, actorID, reason).Error(0)
}
func (m *MockEmployeeService) QuitBusiness(ctx context.Context, businessID int64, playerID string) error {
	return m.Called(ctx, businessID, playerID).Error(0)
}
func (m *MockEmployeeService) SetSalary(ctx context.Context, employeeID int64, actorID string, salary decimal.Decimal) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID, actorID, salary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockEmployeeService) AdminHire(ctx context.Context, req dto.AdminHireRequest, actorID string) (*domain.Employee, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

var _ portssvc.EmployeeSvcFacade = (*MockEmployeeService)(nil)

// --- Mock HiringService ---
type MockHiringService struct {
	mock.Mock
}

func (m *MockHiringService) GetHiringRequest(ctx context.Context, requestID int64, actorID string) (*domain.HiringRequest, error) {
	args := m.Called(ctx, requestID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HiringRequest), args.Error(1)
}
func (m *MockHiringService) ListForBusiness(ctx context.Context, businessID int64, actorID string, status *domain.HiringRequestStatus) ([]domain.HiringRequest, error) {
	args := m.Called(ctx, businessID, actorID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HiringRequest), args.Error(1)
}
func (m *MockHiringService) ListForPlayer(ctx context.Context, playerID string) ([]domain.HiringRequest, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HiringRequest), args.Error(1)
}
func (m *MockHiringService) CreateHiringRequest(ctx context.Context, req dto.CreateHiringRequest, requesterID string) (*domain.HiringRequest, error) {
	args := m.Called(ctx, req, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HiringRequest), args.Error(1)
}
func (m *MockHiringService) AcceptHiringRequest(ctx context.Context, requestID int64, actorID string) (*domain.Employee, error) {
	args := m.Called(ctx, requestID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockHiringService) RejectHiringRequest(ctx context.Context, requestID int64, actorID string, reason string) (*domain.HiringRequest, error) {
	args := m.Called(ctx, requestID, actorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HiringRequest), args.Error(1)
}
func (m *MockHiringService) CancelHiringRequest(ctx context.Context, requestID int64, actorID string) (*domain.HiringRequest, error) {
	args := m.Called(ctx, requestID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HiringRequest), args.Error(1)
}
func (m *MockHiringService) ExpireStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.HiringSvcFacade = (*MockHiringService)(nil)

// --- Mock PayrollService ---
type MockPayrollService struct {
	mock.Mock
}

func (m *MockPayrollService) ProcessBusinessPayroll(ctx context.Context, businessID int64) (*domain.PayrollResult, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollResult), args.Error(1)
}
func (m *MockPayrollService) ProcessPayroll(ctx context.Context) (domain.PayrollBatchResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PayrollBatchResult), args.Error(1)
}
func (m *MockPayrollService) TriggerPayroll(ctx context.Context, businessID int64, actorID string) (*domain.PayrollResult, error) {
	args := m.Called(ctx, businessID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollResult), args.Error(1)
}
func (m *MockPayrollService) ListPayrollRuns(ctx context.Context, businessID int64, actorID string, limit int) ([]domain.PayrollRun, error) {
	args := m.Called(ctx, businessID, actorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollRun), args.Error(1)
}

var _ portssvc.PayrollSvcFacade = (*MockPayrollService)(nil)

// --- Mock RevenueService ---
type MockRevenueService struct {
	mock.Mock
}

func (m *MockRevenueService) GenerateRevenue(ctx context.Context, businessID int64) (domain.RevenueResult, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(domain.RevenueResult), args.Error(1)
}
func (m *MockRevenueService) GenerateAll(ctx context.Context) (domain.RevenueBatchResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RevenueBatchResult), args.Error(1)
}
func (m *MockRevenueService) TriggerRevenue(ctx context.Context, businessID int64, actorID string) (domain.RevenueResult, error) {
	args := m.Called(ctx, businessID, actorID)
	return args.Get(0).(domain.RevenueResult), args.Error(1)
}
func (m *MockRevenueService) RecordRevenue(ctx context.Context, businessID int64, req dto.RecordRevenueRequest, actorID string) (*domain.RevenueLedgerEntry, error) {
	args := m.Called(ctx, businessID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueLedgerEntry), args.Error(1)
}

var _ portssvc.RevenueSvcFacade = (*MockRevenueService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) Summary(ctx context.Context, businessID int64, actorID string, window time.Duration) (*domain.RevenueSummary, error) {
	args := m.Called(ctx, businessID, actorID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueSummary), args.Error(1)
}
func (m *MockReportingService) ListLedger(ctx context.Context, businessID int64, actorID string, params dto.ListLedgerParams) ([]domain.RevenueLedgerEntry, string, error) {
	args := m.Called(ctx, businessID, actorID, params)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.RevenueLedgerEntry), args.String(1), args.Error(2)
}
func (m *MockReportingService) TopBusinesses(ctx context.Context, window time.Duration, limit int) ([]domain.BusinessPerformance, error) {
	args := m.Called(ctx, window, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BusinessPerformance), args.Error(1)
}
func (m *MockReportingService) RefreshRollups(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)
