package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

func (s *Store) AppendLedgerEntry(_ context.Context, entry domain.RevenueLedgerEntry) error {
	if entry.Amount.IsNegative() {
		return fmt.Errorf("%w: ledger amount %s is negative", apperrors.ErrValidation, entry.Amount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.ledger {
		if e.ID == entry.ID {
			return fmt.Errorf("%w: ledger entry with ID %d already exists", apperrors.ErrDuplicate, entry.ID)
		}
	}
	s.ledger = append(s.ledger, entry)
	return nil
}

func (s *Store) ListLedgerEntriesSince(_ context.Context, businessID int64, since time.Time) ([]domain.RevenueLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RevenueLedgerEntry
	for _, e := range s.ledger {
		if e.BusinessID == businessID && !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return olderFirst(out[i], out[j]) })
	return out, nil
}

func olderFirst(a, b domain.RevenueLedgerEntry) bool {
	if a.Timestamp.Equal(b.Timestamp) {
		return a.ID < b.ID
	}
	return a.Timestamp.Before(b.Timestamp)
}

func (s *Store) ListLedgerEntries(_ context.Context, businessID int64, limit int, after *portsrepo.LedgerCursor) ([]domain.RevenueLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RevenueLedgerEntry
	for _, e := range s.ledger {
		if e.BusinessID != businessID {
			continue
		}
		if after != nil && !olderFirst(e, domain.RevenueLedgerEntry{Timestamp: after.Timestamp, ID: after.ID}) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return olderFirst(out[j], out[i]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SumRevenueByBusiness(_ context.Context, since time.Time) (map[int64]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := make(map[int64]decimal.Decimal)
	for _, e := range s.ledger {
		if !e.Timestamp.Before(since) {
			sums[e.BusinessID] = sums[e.BusinessID].Add(e.Amount)
		}
	}
	return sums, nil
}

func (s *Store) SavePayrollRun(_ context.Context, run domain.PayrollRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payrollRuns = append(s.payrollRuns, run)
	return nil
}

func (s *Store) ListPayrollRuns(_ context.Context, businessID int64, limit int) ([]domain.PayrollRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PayrollRun
	for i := len(s.payrollRuns) - 1; i >= 0; i-- {
		if s.payrollRuns[i].BusinessID == businessID {
			out = append(out, s.payrollRuns[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) SumPayrollPaidByBusiness(_ context.Context) (map[int64]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := make(map[int64]decimal.Decimal)
	for _, r := range s.payrollRuns {
		sums[r.BusinessID] = sums[r.BusinessID].Add(r.PaidAmount)
	}
	return sums, nil
}
