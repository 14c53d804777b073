package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindBusinessByID(_ context.Context, businessID int64) (*domain.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.businesses[businessID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (s *Store) ListBusinesses(_ context.Context) ([]domain.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Business, 0, len(s.businesses))
	for _, b := range s.businesses {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) nameTaken(ownerID, name string, skipID int64) bool {
	for id, b := range s.businesses {
		if id != skipID && b.OwnerID == ownerID && domain.SameName(b.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) SaveBusiness(_ context.Context, business domain.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.businesses[business.ID]; exists {
		return fmt.Errorf("%w: business with ID %d already exists", apperrors.ErrDuplicate, business.ID)
	}
	if s.nameTaken(business.OwnerID, business.Name, business.ID) {
		return fmt.Errorf("%w: business name %q already used by owner %s", apperrors.ErrDuplicate, business.Name, business.OwnerID)
	}
	s.businesses[business.ID] = business
	return nil
}

func (s *Store) UpdateBusiness(_ context.Context, business domain.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.businesses[business.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if s.nameTaken(current.OwnerID, business.Name, business.ID) {
		return fmt.Errorf("%w: business name %q already used by owner %s", apperrors.ErrDuplicate, business.Name, current.OwnerID)
	}
	current.Name = business.Name
	current.Type = business.Type
	current.Description = business.Description
	current.IsActive = business.IsActive
	current.LastUpdatedAt = business.LastUpdatedAt
	current.LastUpdatedBy = business.LastUpdatedBy
	s.businesses[business.ID] = current
	return nil
}

func (s *Store) UpdateBusinessBalance(_ context.Context, businessID int64, balance decimal.Decimal, actorID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.businesses[businessID]
	if !ok {
		return apperrors.ErrNotFound
	}
	b.Balance = balance
	b.Touch(actorID, now)
	s.businesses[businessID] = b
	return nil
}

func (s *Store) UpdateBusinessRevenueModel(_ context.Context, businessID int64, model domain.RevenueModelTag, actorID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.businesses[businessID]
	if !ok {
		return apperrors.ErrNotFound
	}
	b.RevenueModel = model
	b.Touch(actorID, now)
	s.businesses[businessID] = b
	return nil
}

func (s *Store) UpdateBusinessRollups(_ context.Context, businessID int64, rollups domain.BusinessRollups) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.businesses[businessID]
	if !ok {
		return apperrors.ErrNotFound
	}
	b.Rollups = rollups
	s.businesses[businessID] = b
	return nil
}
