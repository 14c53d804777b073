package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/SscSPs/bizcore/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const (
	defaultLedgerPageSize = 20
	maxLedgerPageSize     = 100
	defaultTopBusinesses  = 10

	day = 24 * time.Hour
)

// ReportingService derives read-only views from the ledger and payroll history.
type ReportingService struct {
	BaseService
	employeeRepo portsrepo.EmployeeReader
	ledgerRepo   portsrepo.LedgerReader
	runRepo      portsrepo.PayrollRunRepositoryFacade
}

// NewReportingService creates a new ReportingService
func NewReportingService(reg *registry.Registry, repos portsrepo.RepositoryProvider, opts ...ServiceOption) *ReportingService {
	opts = append([]ServiceOption{WithStaffReaders(repos.EmployeeRepo, repos.PositionRepo)}, opts...)
	return &ReportingService{
		BaseService:  newBaseService(reg, opts),
		employeeRepo: repos.EmployeeRepo,
		ledgerRepo:   repos.LedgerRepo,
		runRepo:      repos.PayrollRunRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// Summary totals the ledger over the trailing window. Payroll expenses are
// estimated from current salaries: Σ(currentSalary) × whole days in the window.
func (s *ReportingService) Summary(ctx context.Context, businessID int64, actorID string, window time.Duration) (*domain.RevenueSummary, error) {
	if window <= 0 {
		return nil, validationErr("report window must be positive")
	}
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireManager(ctx, b, actorID); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	from := now.Add(-window)
	entries, err := s.ledgerRepo.ListLedgerEntriesSince(ctx, businessID, from)
	if err != nil {
		return nil, storeErr(err, "list ledger of business %d", businessID)
	}
	employees, err := s.employeeRepo.ListActiveEmployeesByBusiness(ctx, businessID)
	if err != nil {
		return nil, storeErr(err, "list employees of business %d", businessID)
	}

	summary := &domain.RevenueSummary{
		BusinessID:    businessID,
		From:          from,
		To:            now,
		EntryCount:    len(entries),
		TotalRevenue:  decimal.Zero,
		RevenueByType: make(map[domain.RevenueType]decimal.Decimal),
	}
	for _, e := range entries {
		summary.TotalRevenue = summary.TotalRevenue.Add(e.Amount)
		summary.RevenueByType[e.Type] = summary.RevenueByType[e.Type].Add(e.Amount)
	}
	summary.PayrollExpenses = domain.TotalSalary(employees).Mul(decimal.NewFromInt(domain.WindowDays(window)))
	summary.Profit = summary.TotalRevenue.Sub(summary.PayrollExpenses)
	return summary, nil
}

func (s *ReportingService) ListLedger(ctx context.Context, businessID int64, actorID string, params dto.ListLedgerParams) ([]domain.RevenueLedgerEntry, string, error) {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, "", err
	}
	if err := s.RequireManager(ctx, b, actorID); err != nil {
		return nil, "", err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultLedgerPageSize
	}
	if limit > maxLedgerPageSize {
		limit = maxLedgerPageSize
	}

	var cursor *portsrepo.LedgerCursor
	if params.NextToken != "" {
		ts, id, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, "", validationErr("%v", err)
		}
		cursor = &portsrepo.LedgerCursor{Timestamp: ts, ID: id}
	}

	// one extra row tells whether another page exists
	entries, err := s.ledgerRepo.ListLedgerEntries(ctx, businessID, limit+1, cursor)
	if err != nil {
		return nil, "", storeErr(err, "list ledger of business %d", businessID)
	}

	var nextToken string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		nextToken = pagination.EncodeToken(last.Timestamp, last.ID)
	}
	return entries, nextToken, nil
}

func (s *ReportingService) TopBusinesses(ctx context.Context, window time.Duration, limit int) ([]domain.BusinessPerformance, error) {
	if window <= 0 {
		return nil, validationErr("report window must be positive")
	}
	if limit <= 0 {
		limit = defaultTopBusinesses
	}

	revenue, err := s.ledgerRepo.SumRevenueByBusiness(ctx, s.Clock.Now().Add(-window))
	if err != nil {
		return nil, storeErr(err, "sum revenue")
	}
	headcount, err := s.employeeRepo.CountActiveEmployeesByBusiness(ctx)
	if err != nil {
		return nil, storeErr(err, "count employees")
	}

	var ranking []domain.BusinessPerformance
	for _, b := range s.Registry.All() {
		if !b.IsActive {
			continue
		}
		ranking = append(ranking, domain.BusinessPerformance{
			BusinessID:    b.ID,
			Name:          b.Name,
			OwnerID:       b.OwnerID,
			Revenue:       revenue[b.ID],
			EmployeeCount: headcount[b.ID],
			Balance:       b.Balance,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if c := ranking[i].Revenue.Cmp(ranking[j].Revenue); c != 0 {
			return c > 0
		}
		return ranking[i].BusinessID < ranking[j].BusinessID
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

// RefreshRollups recomputes the revenue projection of every business from the
// ledger and the payroll history.
func (s *ReportingService) RefreshRollups(ctx context.Context) (int, error) {
	now := s.Clock.Now()

	windows := []time.Duration{day, 7 * day, 30 * day}
	sums := make([]map[int64]decimal.Decimal, len(windows))
	for i, w := range windows {
		m, err := s.ledgerRepo.SumRevenueByBusiness(ctx, now.Add(-w))
		if err != nil {
			return 0, storeErr(err, "sum revenue over %s", w)
		}
		sums[i] = m
	}
	total, err := s.ledgerRepo.SumRevenueByBusiness(ctx, time.Time{})
	if err != nil {
		return 0, storeErr(err, "sum lifetime revenue")
	}
	expenses, err := s.runRepo.SumPayrollPaidByBusiness(ctx)
	if err != nil {
		return 0, storeErr(err, "sum payroll expenses")
	}

	refreshed := 0
	var errs []error
	for _, b := range s.Registry.All() {
		rollups := domain.BusinessRollups{
			DailyRevenue:   sums[0][b.ID],
			WeeklyRevenue:  sums[1][b.ID],
			MonthlyRevenue: sums[2][b.ID],
			TotalRevenue:   total[b.ID],
			TotalExpenses:  expenses[b.ID],
			RefreshedAt:    &now,
		}
		if err := s.Registry.RefreshRollups(ctx, b.ID, rollups); err != nil {
			s.LogError(ctx, err, "Failed to refresh rollups", slog.Int64("business_id", b.ID))
			errs = append(errs, fmt.Errorf("business %d: %w", b.ID, err))
			continue
		}
		refreshed++
	}

	s.LogInfo(ctx, "Business rollups refreshed", slog.Int("count", refreshed))
	return refreshed, errors.Join(errs...)
}
