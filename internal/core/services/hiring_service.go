package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/SscSPs/bizcore/internal/observability/metrics"
	"github.com/SscSPs/bizcore/internal/utils/locking"
)

type hiringKey struct {
	businessID     int64
	targetPlayerID string
}

// HiringService runs the consent-based hiring workflow.
type HiringService struct {
	BaseService
	hiringRepo   portsrepo.HiringRequestRepositoryFacade
	positionRepo portsrepo.PositionReader
	employeeRepo portsrepo.EmployeeReader
	ttl          time.Duration

	// serializes the duplicate check and insert for one (business, target) pair
	creating *locking.KeyedMutex[hiringKey]
}

// NewHiringService creates a new HiringService. A non-positive ttl selects
// domain.DefaultHiringRequestTTL.
func NewHiringService(
	reg *registry.Registry,
	repos portsrepo.RepositoryProvider,
	ttl time.Duration,
	opts ...ServiceOption,
) *HiringService {
	if ttl <= 0 {
		ttl = domain.DefaultHiringRequestTTL
	}
	opts = append([]ServiceOption{WithStaffReaders(repos.EmployeeRepo, repos.PositionRepo)}, opts...)
	return &HiringService{
		BaseService:  newBaseService(reg, opts),
		hiringRepo:   repos.HiringRepo,
		positionRepo: repos.PositionRepo,
		employeeRepo: repos.EmployeeRepo,
		ttl:          ttl,
		creating:     locking.NewKeyedMutex[hiringKey](),
	}
}

var _ portssvc.HiringSvcFacade = (*HiringService)(nil)

func (s *HiringService) CreateHiringRequest(ctx context.Context, req dto.CreateHiringRequest, requesterID string) (*domain.HiringRequest, error) {
	target := strings.TrimSpace(req.TargetPlayerID)
	switch {
	case req.BusinessID <= 0 || req.PositionID <= 0:
		return nil, validationErr("business and position are required")
	case target == "" || strings.TrimSpace(requesterID) == "":
		return nil, validationErr("target and requester are required")
	case target == requesterID:
		return nil, validationErr("a player cannot send a hiring request to themselves")
	}
	if err := amountErr("offered salary", req.OfferedSalary); err != nil {
		return nil, err
	}

	b, err := s.Registry.Get(req.BusinessID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, fmt.Errorf("%w: business %d is inactive", apperrors.ErrNotFound, b.ID)
	}
	position, err := activePosition(ctx, s.positionRepo, b.ID, req.PositionID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireManager(ctx, b, requesterID); err != nil {
		return nil, err
	}

	unlock := s.creating.Lock(hiringKey{businessID: b.ID, targetPlayerID: target})
	defer unlock()

	now := s.Clock.Now()
	if _, err := s.employeeRepo.FindActiveEmployee(ctx, b.ID, target); err == nil {
		return nil, fmt.Errorf("%w: player %s at business %d", apperrors.ErrAlreadyEmployed, target, b.ID)
	} else if !isNotFound(err) {
		return nil, storeErr(err, "check employment of %s", target)
	}
	if _, err := s.hiringRepo.FindPendingHiringRequest(ctx, b.ID, target, now); err == nil {
		return nil, fmt.Errorf("%w: business %d already offered %s a position", apperrors.ErrDuplicatePendingRequest, b.ID, target)
	} else if !isNotFound(err) {
		return nil, storeErr(err, "check pending requests for %s", target)
	}

	request := domain.HiringRequest{
		ID:             s.IDs.NextID(),
		BusinessID:     b.ID,
		PositionID:     position.ID,
		TargetPlayerID: target,
		RequesterID:    requesterID,
		OfferedSalary:  req.OfferedSalary,
		Message:        strings.TrimSpace(req.Message),
		RequestTime:    now,
		ExpirationTime: now.Add(s.ttl),
		Status:         domain.HiringPending,
	}
	if err := s.hiringRepo.SaveHiringRequest(ctx, request); err != nil {
		s.LogError(ctx, err, "Failed to save hiring request",
			slog.Int64("business_id", b.ID),
			slog.String("target_id", target),
			slog.String("actor_id", requesterID))
		return nil, storeErr(err, "save hiring request")
	}

	metrics.Economy().IncHiring(string(domain.HiringPending))
	s.LogInfo(ctx, "Hiring request created",
		slog.Int64("business_id", b.ID),
		slog.Int64("request_id", request.ID),
		slog.String("target_id", target),
		slog.String("actor_id", requesterID),
		slog.String("amount", request.OfferedSalary.String()))
	s.notify(ctx, target, "%s offers you the %s position for %s per pay period. The offer expires at %s.",
		b.Name, position.Title, request.OfferedSalary.StringFixed(2), request.ExpirationTime.Format(time.RFC3339))
	return &request, nil
}

func (s *HiringService) load(ctx context.Context, requestID int64) (*domain.HiringRequest, error) {
	request, err := s.hiringRepo.FindHiringRequestByID(ctx, requestID)
	if err != nil {
		return nil, storeErr(err, "find hiring request %d", requestID)
	}
	return request, nil
}

// checkActionable refuses requests that are terminal or past their expiration.
func checkActionable(request *domain.HiringRequest, now time.Time) error {
	if request.IsActionable(now) {
		return nil
	}
	return fmt.Errorf("%w: hiring request %d is %s", apperrors.ErrInvalidState, request.ID, request.EffectiveStatus(now))
}

func (s *HiringService) AcceptHiringRequest(ctx context.Context, requestID int64, actorID string) (*domain.Employee, error) {
	now := s.Clock.Now()
	request, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.TargetPlayerID != actorID {
		return nil, fmt.Errorf("%w: only the target may accept hiring request %d", apperrors.ErrForbidden, requestID)
	}
	if err := checkActionable(request, now); err != nil {
		return nil, err
	}

	b, err := s.Registry.Get(request.BusinessID)
	if err != nil {
		return nil, err
	}
	position, err := activePosition(ctx, s.positionRepo, request.BusinessID, request.PositionID)
	if err != nil {
		return nil, err
	}

	employee := domain.Employee{
		ID:            s.IDs.NextID(),
		BusinessID:    request.BusinessID,
		PositionID:    request.PositionID,
		PlayerID:      request.TargetPlayerID,
		CurrentSalary: request.OfferedSalary,
		HiredAt:       now,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(actorID, now),
	}
	if err := s.hiringRepo.AcceptHiringRequest(ctx, requestID, employee, now); err != nil {
		s.LogWarn(ctx, "Hiring request acceptance failed, request left pending",
			slog.String("error", err.Error()),
			slog.Int64("business_id", request.BusinessID),
			slog.Int64("request_id", requestID),
			slog.String("actor_id", actorID))
		return nil, storeErr(err, "accept hiring request %d", requestID)
	}

	metrics.Economy().IncHiring(string(domain.HiringAccepted))
	s.LogInfo(ctx, "Hiring request accepted",
		slog.Int64("business_id", request.BusinessID),
		slog.Int64("request_id", requestID),
		slog.Int64("employee_id", employee.ID),
		slog.String("actor_id", actorID))
	s.notify(ctx, request.RequesterID, "%s accepted the %s position at %s", actorID, position.Title, b.Name)
	if b.OwnerID != request.RequesterID {
		s.notify(ctx, b.OwnerID, "%s accepted the %s position at %s", actorID, position.Title, b.Name)
	}
	return &employee, nil
}

func (s *HiringService) RejectHiringRequest(ctx context.Context, requestID int64, actorID string, reason string) (*domain.HiringRequest, error) {
	now := s.Clock.Now()
	request, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.TargetPlayerID != actorID {
		return nil, fmt.Errorf("%w: only the target may reject hiring request %d", apperrors.ErrForbidden, requestID)
	}
	if err := checkActionable(request, now); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if err := s.decide(ctx, request, domain.HiringRejected, reason, now); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Hiring request rejected",
		slog.Int64("business_id", request.BusinessID),
		slog.Int64("request_id", requestID),
		slog.String("actor_id", actorID))
	msg := fmt.Sprintf("%s declined your job offer", actorID)
	if reason != "" {
		msg += ": " + reason
	}
	s.notify(ctx, request.RequesterID, "%s", msg)
	return request, nil
}

func (s *HiringService) CancelHiringRequest(ctx context.Context, requestID int64, actorID string) (*domain.HiringRequest, error) {
	now := s.Clock.Now()
	request, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequesterID != actorID {
		b, err := s.Registry.Get(request.BusinessID)
		if err != nil {
			return nil, err
		}
		if err := s.RequireManager(ctx, b, actorID); err != nil {
			return nil, err
		}
	}
	if err := checkActionable(request, now); err != nil {
		return nil, err
	}

	if err := s.decide(ctx, request, domain.HiringCancelled, "cancelled by "+actorID, now); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Hiring request cancelled",
		slog.Int64("business_id", request.BusinessID),
		slog.Int64("request_id", requestID),
		slog.String("actor_id", actorID))
	s.notify(ctx, request.TargetPlayerID, "A job offer sent to you was withdrawn")
	return request, nil
}

// decide writes a terminal status and mirrors it onto request.
func (s *HiringService) decide(ctx context.Context, request *domain.HiringRequest, status domain.HiringRequestStatus, reason string, now time.Time) error {
	if err := s.hiringRepo.DecideHiringRequest(ctx, request.ID, status, reason, now); err != nil {
		s.LogWarn(ctx, "Hiring request decision failed",
			slog.String("error", err.Error()),
			slog.Int64("request_id", request.ID),
			slog.String("status", string(status)))
		return storeErr(err, "decide hiring request %d", request.ID)
	}
	request.Status = status
	request.DecisionReason = reason
	request.DecidedAt = &now
	metrics.Economy().IncHiring(string(status))
	return nil
}

func (s *HiringService) GetHiringRequest(ctx context.Context, requestID int64, actorID string) (*domain.HiringRequest, error) {
	request, err := s.hiringRepo.FindHiringRequestByID(ctx, requestID)
	if err != nil {
		return nil, storeErr(err, "find hiring request %d", requestID)
	}
	if actorID != request.TargetPlayerID && actorID != request.RequesterID {
		b, err := s.Registry.Get(request.BusinessID)
		if err != nil {
			return nil, err
		}
		if err := s.RequireManager(ctx, b, actorID); err != nil {
			return nil, err
		}
	}
	request.Status = request.EffectiveStatus(s.Clock.Now())
	return request, nil
}

func (s *HiringService) ListForBusiness(ctx context.Context, businessID int64, actorID string, status *domain.HiringRequestStatus) ([]domain.HiringRequest, error) {
	if status != nil && !status.IsValid() {
		return nil, validationErr("unknown hiring request status %q", *status)
	}
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireManager(ctx, b, actorID); err != nil {
		return nil, err
	}

	// filter on the effective status, so stale PENDING rows are listed as EXPIRED
	requests, err := s.hiringRepo.ListHiringRequestsByBusiness(ctx, businessID, nil)
	if err != nil {
		return nil, storeErr(err, "list hiring requests of business %d", businessID)
	}
	return withEffectiveStatus(requests, s.Clock.Now(), status), nil
}

func (s *HiringService) ListForPlayer(ctx context.Context, playerID string) ([]domain.HiringRequest, error) {
	requests, err := s.hiringRepo.ListHiringRequestsByPlayer(ctx, playerID)
	if err != nil {
		return nil, storeErr(err, "list hiring requests of %s", playerID)
	}
	return withEffectiveStatus(requests, s.Clock.Now(), nil), nil
}

func withEffectiveStatus(requests []domain.HiringRequest, now time.Time, status *domain.HiringRequestStatus) []domain.HiringRequest {
	out := make([]domain.HiringRequest, 0, len(requests))
	for _, r := range requests {
		r.Status = r.EffectiveStatus(now)
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *HiringService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.hiringRepo.ExpireHiringRequests(ctx, s.Clock.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to expire stale hiring requests")
		return 0, storeErr(err, "expire hiring requests")
	}
	for i := int64(0); i < n; i++ {
		metrics.Economy().IncHiring(string(domain.HiringExpired))
	}
	if n > 0 {
		s.LogInfo(ctx, "Stale hiring requests expired", slog.Int64("count", n))
	}
	return n, nil
}
