package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bizcore/internal/adapters/cache"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/SscSPs/bizcore/internal/observability/metrics"
	"github.com/shopspring/decimal"
)

// DefaultRevenueCooldown is the minimum time between two generations for a business.
const DefaultRevenueCooldown = 10 * time.Minute

// RevenueConfig tunes revenue generation. Zero values select the defaults.
type RevenueConfig struct {
	Cooldown time.Duration
	Tracker  portssvc.CooldownTracker
	Random   portssvc.RandomSource
}

// RevenueService generates model-dependent income and records manual income.
type RevenueService struct {
	BaseService
	employeeRepo portsrepo.EmployeeReader
	ledgerRepo   portsrepo.LedgerWriter
	tracker      portssvc.CooldownTracker
	calculator   *RevenueCalculator
	cooldown     time.Duration
}

// NewRevenueService creates a new RevenueService
func NewRevenueService(reg *registry.Registry, repos portsrepo.RepositoryProvider, cfg RevenueConfig, opts ...ServiceOption) *RevenueService {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultRevenueCooldown
	}
	if cfg.Tracker == nil {
		cfg.Tracker = cache.NewMemoryCooldown()
	}
	return &RevenueService{
		BaseService:  newBaseService(reg, opts),
		employeeRepo: repos.EmployeeRepo,
		ledgerRepo:   repos.LedgerRepo,
		tracker:      cfg.Tracker,
		calculator:   NewRevenueCalculator(cfg.Random),
		cooldown:     cfg.Cooldown,
	}
}

var _ portssvc.RevenueSvcFacade = (*RevenueService)(nil)

func (s *RevenueService) GenerateRevenue(ctx context.Context, businessID int64) (domain.RevenueResult, error) {
	return s.generate(ctx, businessID, domain.SourceScheduler, "")
}

func (s *RevenueService) TriggerRevenue(ctx context.Context, businessID int64, actorID string) (domain.RevenueResult, error) {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return domain.RevenueResult{}, err
	}
	if err := s.RequireOwner(ctx, b, actorID); err != nil {
		return domain.RevenueResult{}, err
	}
	return s.generate(ctx, businessID, domain.SourceOnDemand, actorID)
}

func skipped(result domain.RevenueResult, reason string) (domain.RevenueResult, error) {
	metrics.Economy().IncRevenue(metrics.OutcomeSkipped)
	result.Skipped = true
	result.Reason = reason
	return result, nil
}

func (s *RevenueService) generate(ctx context.Context, businessID int64, source, actorID string) (domain.RevenueResult, error) {
	result := domain.RevenueResult{BusinessID: businessID, Amount: decimal.Zero}

	b, err := s.Registry.Get(businessID)
	if err != nil {
		return result, err
	}
	if !b.IsActive {
		return skipped(result, domain.SkipInactive)
	}

	employees, err := s.employeeRepo.ListActiveEmployeesByBusiness(ctx, businessID)
	if err != nil {
		metrics.Economy().IncRevenue(metrics.OutcomeFailed)
		return result, storeErr(err, "list employees of business %d", businessID)
	}
	result.EmployeeCount = len(employees)
	if len(employees) == 0 {
		return skipped(result, domain.SkipNoEmployees)
	}

	now := s.Clock.Now()
	acquired, err := s.tracker.TryAcquire(ctx, businessID, now, s.cooldown)
	if err != nil {
		metrics.Economy().IncRevenue(metrics.OutcomeFailed)
		s.LogError(ctx, err, "Cooldown check failed", slog.Int64("business_id", businessID))
		return result, storeErr(err, "check revenue cooldown of business %d", businessID)
	}
	if !acquired {
		s.LogDebug(ctx, "Revenue generation skipped, cooldown active", slog.Int64("business_id", businessID))
		return skipped(result, domain.SkipCooldown)
	}

	model := domain.RevenueModelFor(b.RevenueModel)
	amount, breakdown := s.calculator.Compute(model, len(employees), domain.AverageSalary(employees))
	if !amount.IsPositive() {
		s.release(ctx, businessID)
		return skipped(result, domain.SkipZeroAmount)
	}

	metadata, err := json.Marshal(breakdown)
	if err != nil {
		s.release(ctx, businessID)
		return result, fmt.Errorf("encode revenue metadata: %w", err)
	}
	entry := domain.RevenueLedgerEntry{
		ID:          s.IDs.NextID(),
		BusinessID:  businessID,
		Type:        domain.RevenueTypeFor(model.Category),
		Amount:      amount,
		Source:      source,
		GeneratedBy: actorID,
		Timestamp:   now,
		Description: fmt.Sprintf("%s revenue from %d employee(s)", model.DisplayName, len(employees)),
		Metadata:    metadata,
	}

	credited, err := s.credit(ctx, entry, actorOrSystem(actorID))
	if err != nil {
		s.release(ctx, businessID)
		metrics.Economy().IncRevenue(metrics.OutcomeFailed)
		return result, err
	}

	metrics.Economy().IncRevenue(metrics.OutcomeCredited)
	metrics.Economy().AddRevenue(string(entry.Type), amount)
	s.LogInfo(ctx, "Revenue generated",
		slog.Int64("business_id", businessID),
		slog.String("source", source),
		slog.String("revenue_type", string(entry.Type)),
		slog.String("amount", amount.String()),
		slog.String("balance", credited.Balance.String()))
	s.notify(ctx, b.OwnerID, "%s earned %s (%s)", b.Name, amount.StringFixed(2), model.DisplayName)

	result.Amount = amount
	result.Entry = &entry
	return result, nil
}

// credit raises the balance and appends the ledger entry under the business lock.
// A failed append reverses the credit, so the ledger and balance move together.
func (s *RevenueService) credit(ctx context.Context, entry domain.RevenueLedgerEntry, actorID string) (domain.Business, error) {
	var updated domain.Business
	err := s.Registry.WithBusiness(ctx, entry.BusinessID, func(tx registry.BalanceTx) error {
		b, err := tx.Adjust(entry.Amount, actorID)
		if err != nil {
			return err
		}
		if err := s.ledgerRepo.AppendLedgerEntry(ctx, entry); err != nil {
			s.LogError(ctx, err, "Ledger append failed, reversing credit",
				slog.Int64("business_id", entry.BusinessID),
				slog.String("amount", entry.Amount.String()))
			if _, revertErr := tx.Adjust(entry.Amount.Neg(), actorID); revertErr != nil {
				s.LogError(ctx, revertErr, "Credit reversal failed",
					slog.Int64("business_id", entry.BusinessID),
					slog.String("amount", entry.Amount.String()))
				return errors.Join(storeErr(err, "append ledger entry"), revertErr)
			}
			return storeErr(err, "append ledger entry")
		}
		updated = b
		return nil
	})
	return updated, err
}

func (s *RevenueService) release(ctx context.Context, businessID int64) {
	if err := s.tracker.Release(ctx, businessID); err != nil {
		s.LogWarn(ctx, "Cooldown release failed",
			slog.String("error", err.Error()),
			slog.Int64("business_id", businessID))
	}
}

func actorOrSystem(actorID string) string {
	if actorID == "" {
		return domain.SystemActor
	}
	return actorID
}

// GenerateAll runs generation for every active business. A failure for one
// business never stops the others; failures are joined into the returned error.
func (s *RevenueService) GenerateAll(ctx context.Context) (domain.RevenueBatchResult, error) {
	batch := domain.RevenueBatchResult{Total: decimal.Zero}
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

		res, err := s.GenerateRevenue(ctx, b.ID)
		switch {
		case err != nil:
			batch.Failed++
			errs = append(errs, fmt.Errorf("business %d: %w", b.ID, err))
		case res.Skipped:
			batch.Skipped++
		default:
			batch.Credited++
			batch.Total = batch.Total.Add(res.Amount)
		}
	}

	s.LogInfo(ctx, "Revenue sweep finished",
		slog.Int("processed", batch.Processed),
		slog.Int("credited", batch.Credited),
		slog.Int("skipped", batch.Skipped),
		slog.Int("failed", batch.Failed),
		slog.String("amount", batch.Total.String()))
	return batch, errors.Join(errs...)
}

func (s *RevenueService) RecordRevenue(ctx context.Context, businessID int64, req dto.RecordRevenueRequest, actorID string) (*domain.RevenueLedgerEntry, error) {
	if !req.Amount.Round(2).IsPositive() {
		return nil, validationErr("amount must be at least 0.01")
	}
	revenueType := domain.RevenueManual
	if strings.TrimSpace(req.Type) != "" {
		t, ok := domain.ParseRevenueType(req.Type)
		if !ok {
			return nil, validationErr("unknown revenue type %q", req.Type)
		}
		revenueType = t
	}

	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireOwner(ctx, b, actorID); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Manually recorded revenue"
	}
	entry := domain.RevenueLedgerEntry{
		ID:          s.IDs.NextID(),
		BusinessID:  businessID,
		Type:        revenueType,
		Amount:      req.Amount.Round(2),
		Source:      domain.SourceManual,
		GeneratedBy: actorID,
		Timestamp:   s.Clock.Now(),
		Description: description,
	}
	if _, err := s.credit(ctx, entry, actorID); err != nil {
		s.LogError(ctx, err, "Failed to record revenue",
			slog.Int64("business_id", businessID),
			slog.String("actor_id", actorID),
			slog.String("amount", entry.Amount.String()))
		return nil, err
	}

	metrics.Economy().AddRevenue(string(entry.Type), entry.Amount)
	s.LogInfo(ctx, "Revenue recorded",
		slog.Int64("business_id", businessID),
		slog.String("actor_id", actorID),
		slog.String("amount", entry.Amount.String()))
	return &entry, nil
}
