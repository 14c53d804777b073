package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/observability/metrics"
	"github.com/shopspring/decimal"
)

const (
	defaultPayrollRunLimit = 20
	maxPayrollRunLimit     = 100
)

// PayrollService pays wages out of business balances into employee wallets.
type PayrollService struct {
	BaseService
	employeeRepo portsrepo.EmployeeReader
	runRepo      portsrepo.PayrollRunRepositoryFacade
	wallet       portssvc.Wallet
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(reg *registry.Registry, repos portsrepo.RepositoryProvider, wallet portssvc.Wallet, opts ...ServiceOption) *PayrollService {
	opts = append([]ServiceOption{WithStaffReaders(repos.EmployeeRepo, repos.PositionRepo)}, opts...)
	return &PayrollService{
		BaseService:  newBaseService(reg, opts),
		employeeRepo: repos.EmployeeRepo,
		runRepo:      repos.PayrollRunRepo,
		wallet:       wallet,
	}
}

var _ portssvc.PayrollSvcFacade = (*PayrollService)(nil)

// ProcessBusinessPayroll pays every active employee of businessID in employee id
// order. The balance check, the deposits and the single debit of the total happen
// while holding the business lock, so concurrent payrolls cannot overdraw it.
//
// If a wallet deposit fails midway the business is not debited and the deposits
// already made are not reversed; the returned *apperrors.PartialPayrollError
// lists who was paid and a PARTIAL PayrollRun is recorded for remediation.
func (s *PayrollService) ProcessBusinessPayroll(ctx context.Context, businessID int64) (*domain.PayrollResult, error) {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListActiveEmployeesByBusiness(ctx, businessID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load employees for payroll", slog.Int64("business_id", businessID))
		return nil, storeErr(err, "list employees of business %d", businessID)
	}

	result := &domain.PayrollResult{
		BusinessID:    businessID,
		EmployeeCount: len(employees),
		Total:         domain.TotalSalary(employees),
	}
	if len(employees) == 0 {
		metrics.Economy().IncPayroll(metrics.OutcomeSkipped)
		return result, nil
	}

	var paid []domain.Employee
	err = s.Registry.WithBusiness(ctx, businessID, func(tx registry.BalanceTx) error {
		balance := tx.Business().Balance
		if balance.LessThan(result.Total) {
			return fmt.Errorf("%w: business %d holds %s, payroll needs %s",
				apperrors.ErrInsufficientFunds, businessID, balance, result.Total)
		}

		for _, e := range employees {
			if err := s.wallet.Deposit(ctx, e.PlayerID, e.CurrentSalary); err != nil {
				result.Run = s.recordRun(ctx, businessID, result, paid, &e)
				return &apperrors.PartialPayrollError{
					BusinessID:       businessID,
					PaidEmployeeIDs:  employeeIDs(paid),
					FailedEmployeeID: e.ID,
					Cause:            err,
				}
			}
			paid = append(paid, e)
		}

		if _, err := tx.Adjust(result.Total.Neg(), domain.SystemActor); err != nil {
			// every employee holds their wage already; the business balance is now overstated
			s.LogError(ctx, err, "Payroll debit failed after all wages were deposited",
				slog.Int64("business_id", businessID),
				slog.String("amount", result.Total.String()),
				slog.Int("employee_count", len(employees)))
			return err
		}
		result.Run = s.recordRun(ctx, businessID, result, paid, nil)
		return nil
	})

	switch {
	case err == nil:
		metrics.Economy().IncPayroll(metrics.OutcomePaid)
		metrics.Economy().AddPayrollPaid(result.Total)
		s.LogInfo(ctx, "Payroll completed",
			slog.Int64("business_id", businessID),
			slog.Int("employee_count", len(employees)),
			slog.String("amount", result.Total.String()))
		s.notify(ctx, b.OwnerID, "Payroll for %s completed: %s paid to %d employee(s)",
			b.Name, result.Total.StringFixed(2), len(employees))
		for _, e := range employees {
			s.notify(ctx, e.PlayerID, "You received your salary of %s from %s", e.CurrentSalary.StringFixed(2), b.Name)
		}
		return result, nil

	case errors.Is(err, apperrors.ErrPartialPayroll):
		metrics.Economy().IncPayroll(metrics.OutcomePartial)
		metrics.Economy().AddPayrollPaid(domain.TotalSalary(paid))
		s.LogError(ctx, err, "Payroll stopped after a failed deposit",
			slog.Int64("business_id", businessID),
			slog.Int("paid_count", len(paid)),
			slog.String("amount", domain.TotalSalary(paid).String()))
		s.notify(ctx, b.OwnerID, "Payroll for %s stopped after paying %d of %d employee(s); the business was not charged",
			b.Name, len(paid), len(employees))
		for _, e := range paid {
			s.notify(ctx, e.PlayerID, "You received your salary of %s from %s", e.CurrentSalary.StringFixed(2), b.Name)
		}
		return result, err

	case errors.Is(err, apperrors.ErrInsufficientFunds):
		metrics.Economy().IncPayroll(metrics.OutcomeInsufficientFunds)
		s.LogWarn(ctx, "Payroll skipped, insufficient funds",
			slog.Int64("business_id", businessID),
			slog.String("amount", result.Total.String()))
		s.notify(ctx, b.OwnerID, "Payroll for %s could not be paid: %s is needed but the balance is too low",
			b.Name, result.Total.StringFixed(2))
		return result, err

	default:
		metrics.Economy().IncPayroll(metrics.OutcomeFailed)
		return result, err
	}
}

// recordRun appends the payroll history row. Money has already moved, so a
// store failure is logged rather than returned.
func (s *PayrollService) recordRun(ctx context.Context, businessID int64, result *domain.PayrollResult, paid []domain.Employee, failed *domain.Employee) *domain.PayrollRun {
	run := domain.PayrollRun{
		ID:            s.IDs.NextID(),
		BusinessID:    businessID,
		Total:         result.Total,
		EmployeeCount: result.EmployeeCount,
		PaidCount:     len(paid),
		PaidAmount:    domain.TotalSalary(paid),
		Status:        domain.PayrollCompleted,
		ProcessedAt:   s.Clock.Now(),
	}
	if failed != nil {
		id := failed.ID
		run.Status = domain.PayrollPartial
		run.FailedEmployeeID = &id
	}
	if err := s.runRepo.SavePayrollRun(ctx, run); err != nil {
		s.LogError(ctx, err, "Failed to record payroll run",
			slog.Int64("business_id", businessID),
			slog.String("status", string(run.Status)),
			slog.String("amount", run.PaidAmount.String()))
	}
	return &run
}

func employeeIDs(employees []domain.Employee) []int64 {
	ids := make([]int64, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}
	return ids
}

// ProcessPayroll runs payroll for every active business. Insufficient funds is an
// expected outcome and is only counted; other failures are joined into the error.
func (s *PayrollService) ProcessPayroll(ctx context.Context) (domain.PayrollBatchResult, error) {
	batch := domain.PayrollBatchResult{TotalPaid: decimal.Zero}
	var errs []error

	for _, b := range s.Registry.All() {
		if !b.IsActive {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		batch.Processed++

		res, err := s.ProcessBusinessPayroll(ctx, b.ID)
		switch {
		case err == nil && res.EmployeeCount == 0:
			batch.Skipped++
		case err == nil:
			batch.Paid++
			batch.TotalPaid = batch.TotalPaid.Add(res.Total)
		case errors.Is(err, apperrors.ErrPartialPayroll):
			batch.Partial++
			if res != nil && res.Run != nil {
				batch.TotalPaid = batch.TotalPaid.Add(res.Run.PaidAmount)
			}
			errs = append(errs, err)
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			batch.InsufficientFunds++
		default:
			batch.Failed++
			errs = append(errs, fmt.Errorf("business %d: %w", b.ID, err))
		}
	}

	s.LogInfo(ctx, "Payroll sweep finished",
		slog.Int("processed", batch.Processed),
		slog.Int("paid", batch.Paid),
		slog.Int("insufficient_funds", batch.InsufficientFunds),
		slog.Int("partial", batch.Partial),
		slog.Int("failed", batch.Failed),
		slog.String("amount", batch.TotalPaid.String()))
	return batch, errors.Join(errs...)
}

func (s *PayrollService) TriggerPayroll(ctx context.Context, businessID int64, actorID string) (*domain.PayrollResult, error) {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireOwner(ctx, b, actorID); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "On-demand payroll requested",
		slog.Int64("business_id", businessID),
		slog.String("actor_id", actorID))
	return s.ProcessBusinessPayroll(ctx, businessID)
}

func (s *PayrollService) ListPayrollRuns(ctx context.Context, businessID int64, actorID string, limit int) ([]domain.PayrollRun, error) {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireManager(ctx, b, actorID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPayrollRunLimit
	}
	if limit > maxPayrollRunLimit {
		limit = maxPayrollRunLimit
	}
	runs, err := s.runRepo.ListPayrollRuns(ctx, businessID, limit)
	if err != nil {
		return nil, storeErr(err, "list payroll runs of business %d", businessID)
	}
	return runs, nil
}
