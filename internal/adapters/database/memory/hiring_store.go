package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
)

func (s *Store) FindHiringRequestByID(_ context.Context, requestID int64) (*domain.HiringRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (s *Store) FindPendingHiringRequest(_ context.Context, businessID int64, targetPlayerID string, now time.Time) (*domain.HiringRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.BusinessID == businessID && r.TargetPlayerID == targetPlayerID && r.IsActionable(now) {
			return &r, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) filterRequests(keep func(domain.HiringRequest) bool) []domain.HiringRequest {
	var out []domain.HiringRequest
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestTime.Equal(out[j].RequestTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].RequestTime.After(out[j].RequestTime)
	})
	return out
}

func (s *Store) ListHiringRequestsByBusiness(_ context.Context, businessID int64, status *domain.HiringRequestStatus) ([]domain.HiringRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterRequests(func(r domain.HiringRequest) bool {
		return r.BusinessID == businessID && (status == nil || r.Status == *status)
	}), nil
}

func (s *Store) ListHiringRequestsByPlayer(_ context.Context, playerID string) ([]domain.HiringRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterRequests(func(r domain.HiringRequest) bool {
		return r.TargetPlayerID == playerID
	}), nil
}

func (s *Store) SaveHiringRequest(_ context.Context, request domain.HiringRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[request.ID]; exists {
		return fmt.Errorf("%w: hiring request with ID %d already exists", apperrors.ErrDuplicate, request.ID)
	}
	for _, r := range s.requests {
		if r.BusinessID == request.BusinessID && r.TargetPlayerID == request.TargetPlayerID && r.IsActionable(request.RequestTime) {
			return fmt.Errorf("%w: business %d already offered %s a position", apperrors.ErrDuplicatePendingRequest, request.BusinessID, request.TargetPlayerID)
		}
	}
	s.requests[request.ID] = request
	return nil
}

// decide moves a PENDING request to status. Callers hold s.mu.
func (s *Store) decide(requestID int64, status domain.HiringRequestStatus, reason string, decidedAt time.Time) error {
	r, ok := s.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if r.Status != domain.HiringPending {
		return fmt.Errorf("%w: hiring request %d is %s", apperrors.ErrInvalidState, requestID, r.Status)
	}
	r.Status = status
	r.DecisionReason = reason
	r.DecidedAt = &decidedAt
	s.requests[requestID] = r
	return nil
}

func (s *Store) DecideHiringRequest(_ context.Context, requestID int64, status domain.HiringRequestStatus, reason string, decidedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decide(requestID, status, reason, decidedAt)
}

func (s *Store) AcceptHiringRequest(_ context.Context, requestID int64, employee domain.Employee, decidedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := s.decide(requestID, domain.HiringAccepted, "", decidedAt); err != nil {
		return err
	}
	if err := s.insertEmployee(employee); err != nil {
		s.requests[requestID] = before
		return err
	}
	return nil
}

func (s *Store) ExpireHiringRequests(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.requests {
		if r.IsExpired(now) {
			r.Status = domain.HiringExpired
			r.DecidedAt = &now
			s.requests[id] = r
			n++
		}
	}
	return n, nil
}
