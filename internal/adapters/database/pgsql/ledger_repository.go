package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository stores the revenue ledger and the payroll history.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.LedgerRepositoryFacade     = (*PgxLedgerRepository)(nil)
	_ portsrepo.PayrollRunRepositoryFacade = (*PgxLedgerRepository)(nil)
)

const ledgerColumns = `
	entry_id, business_id, revenue_type, amount, source, generated_by, entry_time, description, metadata`

func scanLedgerEntry(row pgx.Row) (domain.RevenueLedgerEntry, error) {
	var e domain.RevenueLedgerEntry
	var metadata []byte
	err := row.Scan(&e.ID, &e.BusinessID, &e.Type, &e.Amount, &e.Source, &e.GeneratedBy, &e.Timestamp, &e.Description, &metadata)
	if len(metadata) > 0 {
		e.Metadata = metadata
	}
	return e, err
}

func (r *PgxLedgerRepository) queryLedger(ctx context.Context, query string, args ...any) ([]domain.RevenueLedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list ledger entries")
	}
	defer rows.Close()

	var out []domain.RevenueLedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, mapError(err, "scan ledger entry")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate ledger entries")
	}
	return out, nil
}

func (r *PgxLedgerRepository) AppendLedgerEntry(ctx context.Context, e domain.RevenueLedgerEntry) error {
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: ledger amount %s is negative", apperrors.ErrValidation, e.Amount)
	}
	var metadata []byte
	if len(e.Metadata) > 0 {
		metadata = e.Metadata
	}
	query := `
		INSERT INTO revenue_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		e.ID, e.BusinessID, e.Type, e.Amount, e.Source, e.GeneratedBy, e.Timestamp, e.Description, metadata,
	)
	return mapError(err, fmt.Sprintf("append ledger entry for business %d", e.BusinessID))
}

func (r *PgxLedgerRepository) ListLedgerEntriesSince(ctx context.Context, businessID int64, since time.Time) ([]domain.RevenueLedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM revenue_ledger
		WHERE business_id = $1 AND entry_time >= $2
		ORDER BY entry_time, entry_id;
	`
	return r.queryLedger(ctx, query, businessID, since)
}

func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, businessID int64, limit int, after *portsrepo.LedgerCursor) ([]domain.RevenueLedgerEntry, error) {
	if after == nil {
		query := `
			SELECT ` + ledgerColumns + `
			FROM revenue_ledger
			WHERE business_id = $1
			ORDER BY entry_time DESC, entry_id DESC
			LIMIT $2;
		`
		return r.queryLedger(ctx, query, businessID, limit)
	}
	query := `
		SELECT ` + ledgerColumns + `
		FROM revenue_ledger
		WHERE business_id = $1 AND (entry_time, entry_id) < ($3, $4)
		ORDER BY entry_time DESC, entry_id DESC
		LIMIT $2;
	`
	return r.queryLedger(ctx, query, businessID, limit, after.Timestamp, after.ID)
}

func sumByBusiness(rows pgx.Rows) (map[int64]decimal.Decimal, error) {
	defer rows.Close()
	sums := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var businessID int64
		var total decimal.Decimal
		if err := rows.Scan(&businessID, &total); err != nil {
			return nil, mapError(err, "scan total")
		}
		sums[businessID] = total
	}
	return sums, mapError(rows.Err(), "iterate totals")
}

func (r *PgxLedgerRepository) SumRevenueByBusiness(ctx context.Context, since time.Time) (map[int64]decimal.Decimal, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT business_id, SUM(amount) FROM revenue_ledger WHERE entry_time >= $1 GROUP BY business_id;`, since)
	if err != nil {
		return nil, mapError(err, "sum revenue")
	}
	return sumByBusiness(rows)
}

func (r *PgxLedgerRepository) SavePayrollRun(ctx context.Context, run domain.PayrollRun) error {
	query := `
		INSERT INTO payroll_runs (
			run_id, business_id, total, employee_count, paid_count, paid_amount, status, failed_employee_id, processed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		run.ID, run.BusinessID, run.Total, run.EmployeeCount, run.PaidCount, run.PaidAmount,
		run.Status, run.FailedEmployeeID, run.ProcessedAt,
	)
	return mapError(err, fmt.Sprintf("save payroll run for business %d", run.BusinessID))
}

func (r *PgxLedgerRepository) ListPayrollRuns(ctx context.Context, businessID int64, limit int) ([]domain.PayrollRun, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT run_id, business_id, total, employee_count, paid_count, paid_amount, status, failed_employee_id, processed_at
		FROM payroll_runs
		WHERE business_id = $1
		ORDER BY processed_at DESC, run_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, businessID, limit)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("list payroll runs of business %d", businessID))
	}
	defer rows.Close()

	var out []domain.PayrollRun
	for rows.Next() {
		var run domain.PayrollRun
		if err := rows.Scan(
			&run.ID, &run.BusinessID, &run.Total, &run.EmployeeCount, &run.PaidCount, &run.PaidAmount,
			&run.Status, &run.FailedEmployeeID, &run.ProcessedAt,
		); err != nil {
			return nil, mapError(err, "scan payroll run")
		}
		out = append(out, run)
	}
	return out, mapError(rows.Err(), "iterate payroll runs")
}

func (r *PgxLedgerRepository) SumPayrollPaidByBusiness(ctx context.Context) (map[int64]decimal.Decimal, error) {
	rows, err := r.Pool.Query(ctx, `SELECT business_id, SUM(paid_amount) FROM payroll_runs GROUP BY business_id;`)
	if err != nil {
		return nil, mapError(err, "sum payroll")
	}
	return sumByBusiness(rows)
}
