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

type PgxBusinessRepository struct {
	BaseRepository
}

func newPgxBusinessRepository(pool *pgxpool.Pool) portsrepo.BusinessRepositoryFacade {
	return &PgxBusinessRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BusinessRepositoryFacade = (*PgxBusinessRepository)(nil)

const businessColumns = `
	business_id, name, owner_id, business_type, description, balance, revenue_model, is_active,
	daily_revenue, weekly_revenue, monthly_revenue, total_revenue, total_expenses, rollups_refreshed_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanBusiness(row pgx.Row) (domain.Business, error) {
	var b domain.Business
	err := row.Scan(
		&b.ID, &b.Name, &b.OwnerID, &b.Type, &b.Description, &b.Balance, &b.RevenueModel, &b.IsActive,
		&b.Rollups.DailyRevenue, &b.Rollups.WeeklyRevenue, &b.Rollups.MonthlyRevenue,
		&b.Rollups.TotalRevenue, &b.Rollups.TotalExpenses, &b.Rollups.RefreshedAt,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
	)
	return b, err
}

func (r *PgxBusinessRepository) FindBusinessByID(ctx context.Context, businessID int64) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE business_id = $1;`
	b, err := scanBusiness(r.Pool.QueryRow(ctx, query, businessID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("find business %d", businessID))
	}
	return &b, nil
}

func (r *PgxBusinessRepository) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses ORDER BY business_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err, "list businesses")
	}
	defer rows.Close()

	var out []domain.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, mapError(err, "scan business")
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate businesses")
	}
	return out, nil
}

func (r *PgxBusinessRepository) SaveBusiness(ctx context.Context, b domain.Business) error {
	query := `
		INSERT INTO businesses (
			business_id, name, owner_id, business_type, description, balance, revenue_model, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		b.ID, b.Name, b.OwnerID, b.Type, b.Description, b.Balance, b.RevenueModel, b.IsActive,
		b.CreatedAt, b.CreatedBy, b.LastUpdatedAt, b.LastUpdatedBy,
	)
	return mapError(err, fmt.Sprintf("save business %q for owner %s", b.Name, b.OwnerID))
}

// expectOne reports apperrors.ErrNotFound when an update matched no row.
func expectOne(affected int64, what string) error {
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	return nil
}

func (r *PgxBusinessRepository) UpdateBusiness(ctx context.Context, b domain.Business) error {
	query := `
		UPDATE businesses
		SET name = $2, business_type = $3, description = $4, is_active = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE business_id = $1;
	`
	what := fmt.Sprintf("update business %d", b.ID)
	tag, err := r.Pool.Exec(ctx, query, b.ID, b.Name, b.Type, b.Description, b.IsActive, b.LastUpdatedAt, b.LastUpdatedBy)
	if err != nil {
		return mapError(err, what)
	}
	return expectOne(tag.RowsAffected(), what)
}

func (r *PgxBusinessRepository) UpdateBusinessBalance(ctx context.Context, businessID int64, balance decimal.Decimal, actorID string, now time.Time) error {
	query := `
		UPDATE businesses SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE business_id = $1;
	`
	what := fmt.Sprintf("update balance of business %d", businessID)
	tag, err := r.Pool.Exec(ctx, query, businessID, balance, now, actorID)
	if err != nil {
		return mapError(err, what)
	}
	return expectOne(tag.RowsAffected(), what)
}

func (r *PgxBusinessRepository) UpdateBusinessRevenueModel(ctx context.Context, businessID int64, model domain.RevenueModelTag, actorID string, now time.Time) error {
	query := `
		UPDATE businesses SET revenue_model = $2, last_updated_at = $3, last_updated_by = $4
		WHERE business_id = $1;
	`
	what := fmt.Sprintf("update revenue model of business %d", businessID)
	tag, err := r.Pool.Exec(ctx, query, businessID, model, now, actorID)
	if err != nil {
		return mapError(err, what)
	}
	return expectOne(tag.RowsAffected(), what)
}

func (r *PgxBusinessRepository) UpdateBusinessRollups(ctx context.Context, businessID int64, rollups domain.BusinessRollups) error {
	query := `
		UPDATE businesses
		SET daily_revenue = $2, weekly_revenue = $3, monthly_revenue = $4,
			total_revenue = $5, total_expenses = $6, rollups_refreshed_at = $7
		WHERE business_id = $1;
	`
	what := fmt.Sprintf("update rollups of business %d", businessID)
	tag, err := r.Pool.Exec(ctx, query, businessID,
		rollups.DailyRevenue, rollups.WeeklyRevenue, rollups.MonthlyRevenue,
		rollups.TotalRevenue, rollups.TotalExpenses, rollups.RefreshedAt,
	)
	if err != nil {
		return mapError(err, what)
	}
	return expectOne(tag.RowsAffected(), what)
}
