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
)

type PgxHiringRequestRepository struct {
	BaseRepository
}

func newPgxHiringRequestRepository(pool *pgxpool.Pool) portsrepo.HiringRequestRepositoryFacade {
	return &PgxHiringRequestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.HiringRequestRepositoryFacade = (*PgxHiringRequestRepository)(nil)

const hiringColumns = `
	request_id, business_id, position_id, target_player_id, requester_id, offered_salary, message,
	request_time, expiration_time, status, decided_at, decision_reason`

func scanHiringRequest(row pgx.Row) (domain.HiringRequest, error) {
	var h domain.HiringRequest
	err := row.Scan(
		&h.ID, &h.BusinessID, &h.PositionID, &h.TargetPlayerID, &h.RequesterID, &h.OfferedSalary, &h.Message,
		&h.RequestTime, &h.ExpirationTime, &h.Status, &h.DecidedAt, &h.DecisionReason,
	)
	return h, err
}

func (r *PgxHiringRequestRepository) queryRequests(ctx context.Context, where string, args ...any) ([]domain.HiringRequest, error) {
	query := `SELECT ` + hiringColumns + ` FROM hiring_requests ` + where + ` ORDER BY request_time DESC, request_id DESC;`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list hiring requests")
	}
	defer rows.Close()

	var out []domain.HiringRequest
	for rows.Next() {
		h, err := scanHiringRequest(rows)
		if err != nil {
			return nil, mapError(err, "scan hiring request")
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate hiring requests")
	}
	return out, nil
}

func (r *PgxHiringRequestRepository) FindHiringRequestByID(ctx context.Context, requestID int64) (*domain.HiringRequest, error) {
	query := `SELECT ` + hiringColumns + ` FROM hiring_requests WHERE request_id = $1;`
	h, err := scanHiringRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("find hiring request %d", requestID))
	}
	return &h, nil
}

func (r *PgxHiringRequestRepository) FindPendingHiringRequest(ctx context.Context, businessID int64, targetPlayerID string, now time.Time) (*domain.HiringRequest, error) {
	query := `
		SELECT ` + hiringColumns + `
		FROM hiring_requests
		WHERE business_id = $1 AND target_player_id = $2 AND status = 'PENDING' AND expiration_time >= $3
		ORDER BY request_time DESC
		LIMIT 1;
	`
	h, err := scanHiringRequest(r.Pool.QueryRow(ctx, query, businessID, targetPlayerID, now))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("find pending request for %s at business %d", targetPlayerID, businessID))
	}
	return &h, nil
}

func (r *PgxHiringRequestRepository) ListHiringRequestsByBusiness(ctx context.Context, businessID int64, status *domain.HiringRequestStatus) ([]domain.HiringRequest, error) {
	if status == nil {
		return r.queryRequests(ctx, `WHERE business_id = $1`, businessID)
	}
	return r.queryRequests(ctx, `WHERE business_id = $1 AND status = $2`, businessID, *status)
}

func (r *PgxHiringRequestRepository) ListHiringRequestsByPlayer(ctx context.Context, playerID string) ([]domain.HiringRequest, error) {
	return r.queryRequests(ctx, `WHERE target_player_id = $1`, playerID)
}

// hiringLockKey names the advisory lock that serializes creates per (business, target)
// across every process sharing the database.
func hiringLockKey(businessID int64, targetPlayerID string) string {
	return fmt.Sprintf("hiring_request:%d:%s", businessID, targetPlayerID)
}

func (r *PgxHiringRequestRepository) SaveHiringRequest(ctx context.Context, h domain.HiringRequest) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0));`, hiringLockKey(h.BusinessID, h.TargetPlayerID))
		if err != nil {
			return mapError(err, "lock hiring request key")
		}

		var pending bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM hiring_requests
				WHERE business_id = $1 AND target_player_id = $2 AND status = 'PENDING' AND expiration_time >= $3
			);`,
			h.BusinessID, h.TargetPlayerID, h.RequestTime,
		).Scan(&pending)
		if err != nil {
			return mapError(err, "check pending hiring requests")
		}
		if pending {
			return fmt.Errorf("%w: business %d already offered %s a position", apperrors.ErrDuplicatePendingRequest, h.BusinessID, h.TargetPlayerID)
		}

		query := `
			INSERT INTO hiring_requests (` + hiringColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`
		_, err = tx.Exec(ctx, query,
			h.ID, h.BusinessID, h.PositionID, h.TargetPlayerID, h.RequesterID, h.OfferedSalary, h.Message,
			h.RequestTime, h.ExpirationTime, h.Status, h.DecidedAt, h.DecisionReason,
		)
		return mapError(err, fmt.Sprintf("save hiring request %d", h.ID))
	})
}

// decide performs the conditional PENDING -> status transition.
func decide(ctx context.Context, q querier, requestID int64, status domain.HiringRequestStatus, reason string, decidedAt time.Time) error {
	query := `
		UPDATE hiring_requests SET status = $2, decision_reason = $3, decided_at = $4
		WHERE request_id = $1 AND status = 'PENDING';
	`
	what := fmt.Sprintf("decide hiring request %d", requestID)
	tag, err := q.Exec(ctx, query, requestID, status, reason, decidedAt)
	if err != nil {
		return mapError(err, what)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current domain.HiringRequestStatus
	err = q.QueryRow(ctx, `SELECT status FROM hiring_requests WHERE request_id = $1;`, requestID).Scan(&current)
	if err != nil {
		return mapError(err, what)
	}
	return fmt.Errorf("%w: hiring request %d is %s", apperrors.ErrInvalidState, requestID, current)
}

func (r *PgxHiringRequestRepository) DecideHiringRequest(ctx context.Context, requestID int64, status domain.HiringRequestStatus, reason string, decidedAt time.Time) error {
	return decide(ctx, r.Pool, requestID, status, reason, decidedAt)
}

func (r *PgxHiringRequestRepository) AcceptHiringRequest(ctx context.Context, requestID int64, employee domain.Employee, decidedAt time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := decide(ctx, tx, requestID, domain.HiringAccepted, "", decidedAt); err != nil {
			return err
		}
		return insertEmployee(ctx, tx, employee)
	})
}

func (r *PgxHiringRequestRepository) ExpireHiringRequests(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE hiring_requests SET status = 'EXPIRED', decided_at = $1
		WHERE status = 'PENDING' AND expiration_time < $1;
	`
	tag, err := r.Pool.Exec(ctx, query, now)
	if err != nil {
		return 0, mapError(err, "expire hiring requests")
	}
	return tag.RowsAffected(), nil
}
