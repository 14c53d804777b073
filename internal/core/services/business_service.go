package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizcore/internal/core/domain"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/shopspring/decimal"
)

// BusinessService manages business metadata, revenue models and owner transfers.
type BusinessService struct {
	BaseService
	wallet portssvc.Wallet
}

// NewBusinessService creates a new BusinessService
func NewBusinessService(reg *registry.Registry, wallet portssvc.Wallet, opts ...ServiceOption) *BusinessService {
	return &BusinessService{
		BaseService: newBaseService(reg, opts),
		wallet:      wallet,
	}
}

var _ portssvc.BusinessSvcFacade = (*BusinessService)(nil)

func (s *BusinessService) RegisterBusiness(ctx context.Context, req dto.RegisterBusinessRequest, ownerID string) (*domain.Business, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, validationErr("owner id is required")
	}
	if !domain.ValidateBusinessName(req.Name) {
		return nil, validationErr("business name must be 1-%d characters", domain.MaxBusinessNameLength)
	}

	model := domain.DefaultRevenueModel
	if req.RevenueModel != "" {
		rm, ok := domain.LookupRevenueModel(domain.RevenueModelTag(req.RevenueModel))
		if !ok {
			return nil, validationErr("unknown revenue model %q", req.RevenueModel)
		}
		model = rm.Tag
	}

	now := s.Clock.Now()
	business := domain.Business{
		ID:           s.IDs.NextID(),
		Name:         domain.NormalizeBusinessName(req.Name),
		OwnerID:      ownerID,
		Type:         domain.NormalizeBusinessType(req.Type),
		Description:  strings.TrimSpace(req.Description),
		Balance:      decimal.Zero,
		RevenueModel: model,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(ownerID, now),
	}

	created, err := s.Registry.Register(ctx, business)
	if err != nil {
		s.LogError(ctx, err, "Failed to register business",
			slog.String("owner_id", ownerID),
			slog.String("name", business.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Business registered",
		slog.Int64("business_id", created.ID),
		slog.String("owner_id", ownerID),
		slog.String("revenue_model", string(model)))
	return &created, nil
}

func (s *BusinessService) GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		s.LogDebug(ctx, "Business not found", slog.Int64("business_id", businessID))
		return nil, err
	}
	return &b, nil
}

func (s *BusinessService) GetBusinessByName(ctx context.Context, name string) (*domain.Business, error) {
	b, err := s.Registry.GetByName(name)
	if err != nil {
		s.LogDebug(ctx, "Business not found by name", slog.String("name", name))
		return nil, err
	}
	return &b, nil
}

func (s *BusinessService) ListBusinessesByOwner(_ context.Context, ownerID string) ([]domain.Business, error) {
	return s.Registry.GetByOwner(ownerID), nil
}

func (s *BusinessService) ListBusinesses(_ context.Context) ([]domain.Business, error) {
	return s.Registry.All(), nil
}

func (s *BusinessService) UpdateBusiness(ctx context.Context, businessID int64, req dto.UpdateBusinessRequest, actorID string) (*domain.Business, error) {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireOwner(ctx, b, actorID); err != nil {
		return nil, err
	}

	updated, err := s.Registry.Update(ctx, businessID, actorID, func(b *domain.Business) error {
		if req.Name != nil {
			if !domain.ValidateBusinessName(*req.Name) {
				return validationErr("business name must be 1-%d characters", domain.MaxBusinessNameLength)
			}
			b.Name = domain.NormalizeBusinessName(*req.Name)
		}
		if req.Type != nil {
			b.Type = domain.NormalizeBusinessType(*req.Type)
		}
		if req.Description != nil {
			b.Description = strings.TrimSpace(*req.Description)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update business",
			slog.Int64("business_id", businessID),
			slog.String("actor_id", actorID))
		return nil, err
	}
	return &updated, nil
}

func (s *BusinessService) Deposit(ctx context.Context, businessID int64, actorID string, amount decimal.Decimal) (*domain.Business, error) {
	if err := amountErr("deposit amount", amount); err != nil {
		return nil, err
	}
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireOwner(ctx, b, actorID); err != nil {
		return nil, err
	}

	if err := s.wallet.Withdraw(ctx, actorID, amount); err != nil {
		s.LogWarn(ctx, "Wallet refused deposit funds",
			slog.String("error", err.Error()),
			slog.Int64("business_id", businessID),
			slog.String("actor_id", actorID),
			slog.String("amount", amount.String()))
		return nil, storeErr(err, "withdraw %s from wallet of %s", amount, actorID)
	}

	updated, err := s.Registry.AdjustBalance(ctx, businessID, amount, actorID)
	if err != nil {
		s.LogError(ctx, err, "Business credit failed, refunding wallet",
			slog.Int64("business_id", businessID),
			slog.String("actor_id", actorID),
			slog.String("amount", amount.String()))
		if refundErr := s.wallet.Deposit(ctx, actorID, amount); refundErr != nil {
			s.LogError(ctx, refundErr, "Wallet refund failed after business credit failure",
				slog.Int64("business_id", businessID),
				slog.String("actor_id", actorID),
				slog.String("amount", amount.String()))
			return nil, errors.Join(err, refundErr)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Deposit completed",
		slog.Int64("business_id", businessID),
		slog.String("actor_id", actorID),
		slog.String("amount", amount.String()))
	return &updated, nil
}

func (s *BusinessService) Withdraw(ctx context.Context, businessID int64, actorID string, amount decimal.Decimal) (*domain.Business, error) {
	if err := amountErr("withdraw amount", amount); err != nil {
		return nil, err
	}
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireOwner(ctx, b, actorID); err != nil {
		return nil, err
	}

	updated, err := s.Registry.AdjustBalance(ctx, businessID, amount.Neg(), actorID)
	if err != nil {
		s.LogWarn(ctx, "Business debit refused",
			slog.String("error", err.Error()),
			slog.Int64("business_id", businessID),
			slog.String("actor_id", actorID),
			slog.String("amount", amount.String()))
		return nil, err
	}

	if err := s.wallet.Deposit(ctx, actorID, amount); err != nil {
		s.LogError(ctx, err, "Wallet deposit failed, restoring business balance",
			slog.Int64("business_id", businessID),
			slog.String("actor_id", actorID),
			slog.String("amount", amount.String()))
		if _, restoreErr := s.Registry.AdjustBalance(ctx, businessID, amount, actorID); restoreErr != nil {
			s.LogError(ctx, restoreErr, "Balance restore failed after wallet deposit failure",
				slog.Int64("business_id", businessID),
				slog.String("actor_id", actorID),
				slog.String("amount", amount.String()))
			return nil, errors.Join(storeErr(err, "deposit to wallet of %s", actorID), restoreErr)
		}
		return nil, storeErr(err, "deposit to wallet of %s", actorID)
	}

	s.LogInfo(ctx, "Withdrawal completed",
		slog.Int64("business_id", businessID),
		slog.String("actor_id", actorID),
		slog.String("amount", amount.String()))
	return &updated, nil
}

func (s *BusinessService) SetRevenueModel(ctx context.Context, businessID int64, actorID string, tag domain.RevenueModelTag) (*domain.Business, error) {
	model, ok := domain.LookupRevenueModel(tag)
	if !ok {
		return nil, validationErr("unknown revenue model %q", tag)
	}
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireOwner(ctx, b, actorID); err != nil {
		return nil, err
	}

	updated, err := s.Registry.SetRevenueModel(ctx, businessID, model.Tag, actorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to set revenue model",
			slog.Int64("business_id", businessID),
			slog.String("revenue_model", string(model.Tag)))
		return nil, err
	}
	s.LogInfo(ctx, "Revenue model changed",
		slog.Int64("business_id", businessID),
		slog.String("actor_id", actorID),
		slog.String("revenue_model", string(model.Tag)))
	return &updated, nil
}

func (s *BusinessService) GetRevenueModel(_ context.Context, businessID int64) (domain.RevenueModel, error) {
	b, err := s.Registry.Get(businessID)
	if err != nil {
		return domain.RevenueModel{}, err
	}
	return domain.RevenueModelFor(b.RevenueModel), nil
}

func (s *BusinessService) ListRevenueModels() []domain.RevenueModel {
	return domain.RevenueModels()
}
