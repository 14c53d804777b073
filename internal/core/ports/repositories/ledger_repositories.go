package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerCursor marks the position after which the next ledger page starts.
// Pages are ordered newest first by (timestamp, id).
type LedgerCursor struct {
	Timestamp time.Time
	ID        int64
}

// LedgerReader defines read operations for the revenue ledger
type LedgerReader interface {
	// ListLedgerEntriesSince returns entries for businessID with timestamp >= since, oldest first.
	ListLedgerEntriesSince(ctx context.Context, businessID int64, since time.Time) ([]domain.RevenueLedgerEntry, error)

	// ListLedgerEntries returns up to limit entries newest first, starting after cursor when set.
	ListLedgerEntries(ctx context.Context, businessID int64, limit int, after *LedgerCursor) ([]domain.RevenueLedgerEntry, error)

	// SumRevenueByBusiness totals ledger amounts with timestamp >= since, keyed by business id.
	SumRevenueByBusiness(ctx context.Context, since time.Time) (map[int64]decimal.Decimal, error)
}

// LedgerWriter defines write operations for the revenue ledger. There is no update or delete.
type LedgerWriter interface {
	AppendLedgerEntry(ctx context.Context, entry domain.RevenueLedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// PayrollRunRepositoryFacade stores the payroll history.
type PayrollRunRepositoryFacade interface {
	SavePayrollRun(ctx context.Context, run domain.PayrollRun) error

	// ListPayrollRuns returns the most recent runs for businessID, newest first.
	ListPayrollRuns(ctx context.Context, businessID int64, limit int) ([]domain.PayrollRun, error)

	// SumPayrollPaidByBusiness totals the amounts actually paid out, keyed by business id.
	SumPayrollPaidByBusiness(ctx context.Context) (map[int64]decimal.Decimal, error)
}
