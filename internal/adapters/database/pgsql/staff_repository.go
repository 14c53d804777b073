package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxStaffRepository stores positions and employees.
type PgxStaffRepository struct {
	BaseRepository
}

func newPgxStaffRepository(pool *pgxpool.Pool) *PgxStaffRepository {
	return &PgxStaffRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.PositionRepositoryFacade = (*PgxStaffRepository)(nil)
	_ portsrepo.EmployeeRepositoryFacade = (*PgxStaffRepository)(nil)
)

const positionColumns = `
	position_id, business_id, title, base_salary, max_employees, is_manager, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPosition(row pgx.Row) (domain.Position, error) {
	var p domain.Position
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.Title, &p.BaseSalary, &p.MaxEmployees, &p.IsManager, &p.IsActive,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxStaffRepository) FindPositionByID(ctx context.Context, positionID int64) (*domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE position_id = $1;`
	p, err := scanPosition(r.Pool.QueryRow(ctx, query, positionID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("find position %d", positionID))
	}
	return &p, nil
}

func (r *PgxStaffRepository) ListPositionsByBusiness(ctx context.Context, businessID int64, includeInactive bool) ([]domain.Position, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM positions
		WHERE business_id = $1 AND (is_active OR $2)
		ORDER BY position_id;
	`
	rows, err := r.Pool.Query(ctx, query, businessID, includeInactive)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("list positions of business %d", businessID))
	}
	defer rows.Close()

	var out []domain.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, mapError(err, "scan position")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate positions")
	}
	return out, nil
}

func (r *PgxStaffRepository) SavePosition(ctx context.Context, p domain.Position) error {
	query := `
		INSERT INTO positions (
			position_id, business_id, title, base_salary, max_employees, is_manager, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		p.ID, p.BusinessID, p.Title, p.BaseSalary, p.MaxEmployees, p.IsManager, p.IsActive,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	return mapError(err, fmt.Sprintf("save position %q", p.Title))
}

func (r *PgxStaffRepository) UpdatePosition(ctx context.Context, p domain.Position) error {
	query := `
		UPDATE positions
		SET title = $2, base_salary = $3, max_employees = $4, is_manager = $5, is_active = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE position_id = $1;
	`
	what := fmt.Sprintf("update position %d", p.ID)
	tag, err := r.Pool.Exec(ctx, query,
		p.ID, p.Title, p.BaseSalary, p.MaxEmployees, p.IsManager, p.IsActive, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, what)
	}
	return expectOne(tag.RowsAffected(), what)
}

const employeeColumns = `
	employee_id, business_id, position_id, player_id, current_salary, hired_at, is_active, notes, terminated_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanEmployee(row pgx.Row) (domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.ID, &e.BusinessID, &e.PositionID, &e.PlayerID, &e.CurrentSalary, &e.HiredAt, &e.IsActive, &e.Notes, &e.TerminatedAt,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	return e, err
}

func (r *PgxStaffRepository) queryEmployees(ctx context.Context, where string, args ...any) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ` + where + ` ORDER BY employee_id;`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list employees")
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, mapError(err, "scan employee")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate employees")
	}
	return out, nil
}

func (r *PgxStaffRepository) FindEmployeeByID(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = $1;`
	e, err := scanEmployee(r.Pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("find employee %d", employeeID))
	}
	return &e, nil
}

func (r *PgxStaffRepository) FindActiveEmployee(ctx context.Context, businessID int64, playerID string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE business_id = $1 AND player_id = $2 AND is_active;`
	e, err := scanEmployee(r.Pool.QueryRow(ctx, query, businessID, playerID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("find employee %s at business %d", playerID, businessID))
	}
	return &e, nil
}

func (r *PgxStaffRepository) ListActiveEmployeesByBusiness(ctx context.Context, businessID int64) ([]domain.Employee, error) {
	return r.queryEmployees(ctx, `WHERE business_id = $1 AND is_active`, businessID)
}

func (r *PgxStaffRepository) ListEmployeesByBusiness(ctx context.Context, businessID int64, includeInactive bool) ([]domain.Employee, error) {
	return r.queryEmployees(ctx, `WHERE business_id = $1 AND (is_active OR $2)`, businessID, includeInactive)
}

func (r *PgxStaffRepository) ListActiveEmployeesByPlayer(ctx context.Context, playerID string) ([]domain.Employee, error) {
	return r.queryEmployees(ctx, `WHERE player_id = $1 AND is_active`, playerID)
}

func (r *PgxStaffRepository) CountActiveEmployeesByBusiness(ctx context.Context) (map[int64]int, error) {
	rows, err := r.Pool.Query(ctx, `SELECT business_id, COUNT(*) FROM employees WHERE is_active GROUP BY business_id;`)
	if err != nil {
		return nil, mapError(err, "count employees")
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var businessID int64
		var n int
		if err := rows.Scan(&businessID, &n); err != nil {
			return nil, mapError(err, "scan employee count")
		}
		counts[businessID] = n
	}
	return counts, mapError(rows.Err(), "iterate employee counts")
}

// insertEmployee applies the hire guards inside tx. The position row is locked so
// concurrent hires into the same position are serialized, and its capacity is read
// under that lock.
func insertEmployee(ctx context.Context, tx pgx.Tx, e domain.Employee) error {
	var (
		maxEmployees int
		active       bool
	)
	err := tx.QueryRow(ctx,
		`SELECT max_employees, is_active FROM positions WHERE position_id = $1 AND business_id = $2 FOR UPDATE;`,
		e.PositionID, e.BusinessID,
	).Scan(&maxEmployees, &active)
	if err != nil {
		return mapError(err, fmt.Sprintf("lock position %d", e.PositionID))
	}
	if !active {
		return fmt.Errorf("%w: position %d is inactive", apperrors.ErrInvalidState, e.PositionID)
	}

	var employed bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM employees WHERE business_id = $1 AND player_id = $2 AND is_active);`,
		e.BusinessID, e.PlayerID,
	).Scan(&employed)
	if err != nil {
		return mapError(err, "check existing employment")
	}
	if employed {
		return fmt.Errorf("%w: player %s at business %d", apperrors.ErrAlreadyEmployed, e.PlayerID, e.BusinessID)
	}

	var held int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE position_id = $1 AND is_active;`, e.PositionID).Scan(&held)
	if err != nil {
		return mapError(err, "count position headcount")
	}
	if held >= maxEmployees {
		return fmt.Errorf("%w: position %d holds %d of %d", apperrors.ErrPositionFull, e.PositionID, held, maxEmployees)
	}

	query := `
		INSERT INTO employees (
			employee_id, business_id, position_id, player_id, current_salary, hired_at, is_active, notes, terminated_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		e.ID, e.BusinessID, e.PositionID, e.PlayerID, e.CurrentSalary, e.HiredAt, e.IsActive, e.Notes, e.TerminatedAt,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
	)
	if err != nil {
		err = mapError(err, fmt.Sprintf("insert employee %s", e.PlayerID))
		if errors.Is(err, apperrors.ErrDuplicate) {
			// the partial unique index lost a race with another hire
			return fmt.Errorf("%w: player %s at business %d", apperrors.ErrAlreadyEmployed, e.PlayerID, e.BusinessID)
		}
		return err
	}
	return nil
}

func (r *PgxStaffRepository) HireEmployee(ctx context.Context, employee domain.Employee) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return insertEmployee(ctx, tx, employee)
	})
}

func (r *PgxStaffRepository) UpdateEmployeeSalary(ctx context.Context, employeeID int64, salary decimal.Decimal, actorID string, now time.Time) error {
	query := `
		UPDATE employees SET current_salary = $2, last_updated_at = $3, last_updated_by = $4
		WHERE employee_id = $1 AND is_active;
	`
	what := fmt.Sprintf("update salary of employee %d", employeeID)
	tag, err := r.Pool.Exec(ctx, query, employeeID, salary, now, actorID)
	if err != nil {
		return mapError(err, what)
	}
	return expectOne(tag.RowsAffected(), what)
}

func (r *PgxStaffRepository) DeactivateEmployee(ctx context.Context, businessID int64, playerID string, notes string, actorID string, now time.Time) error {
	query := `
		UPDATE employees
		SET is_active = FALSE, terminated_at = $3,
			notes = CASE WHEN $4::text = '' THEN notes ELSE $4::text END,
			last_updated_at = $3, last_updated_by = $5
		WHERE business_id = $1 AND player_id = $2 AND is_active;
	`
	what := fmt.Sprintf("deactivate employee %s at business %d", playerID, businessID)
	tag, err := r.Pool.Exec(ctx, query, businessID, playerID, now, notes, actorID)
	if err != nil {
		return mapError(err, what)
	}
	return expectOne(tag.RowsAffected(), what)
}
