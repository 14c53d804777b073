package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bizcore/internal/adapters/database/memory"
	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/clock"
	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock BusinessRepository ---
type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) FindBusinessByID(ctx context.Context, businessID int64) (*domain.Business, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *MockBusinessRepository) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Business), args.Error(1)
}

func (m *MockBusinessRepository) SaveBusiness(ctx context.Context, business domain.Business) error {
	return m.Called(ctx, business).Error(0)
}

func (m *MockBusinessRepository) UpdateBusiness(ctx context.Context, business domain.Business) error {
	return m.Called(ctx, business).Error(0)
}

func (m *MockBusinessRepository) UpdateBusinessBalance(ctx context.Context, businessID int64, balance decimal.Decimal, actorID string, now time.Time) error {
	return m.Called(ctx, businessID, balance, actorID, now).Error(0)
}

func (m *MockBusinessRepository) UpdateBusinessRevenueModel(ctx context.Context, businessID int64, model domain.RevenueModelTag, actorID string, now time.Time) error {
	return m.Called(ctx, businessID, model, actorID, now).Error(0)
}

func (m *MockBusinessRepository) UpdateBusinessRollups(ctx context.Context, businessID int64, rollups domain.BusinessRollups) error {
	return m.Called(ctx, businessID, rollups).Error(0)
}

var (
	t0           = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	errStoreDown = errors.New("connection refused")
)

func business(id int64, owner, name string, balance int64) domain.Business {
	return domain.Business{
		ID:           id,
		Name:         name,
		OwnerID:      owner,
		Type:         "GENERAL",
		Balance:      decimal.NewFromInt(balance),
		RevenueModel: domain.DefaultRevenueModel,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(owner, t0),
	}
}

// --- Test Suite ---
type RegistryTestSuite struct {
	suite.Suite
	mockRepo *MockBusinessRepository
	registry *registry.Registry
	ctx      context.Context
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockBusinessRepository)
	suite.registry = registry.New(suite.mockRepo, registry.WithClock(clock.NewFakeClock(t0)))

	suite.mockRepo.On("ListBusinesses", suite.ctx).Return([]domain.Business{
		business(1, "alice", "Alpha", 1000),
		business(2, "alice", "Beta", 50),
		business(3, "bob", "alpha", 10),
	}, nil).Once()
	suite.Require().NoError(suite.registry.Load(suite.ctx))
}

func (suite *RegistryTestSuite) TestLookups() {
	b, err := suite.registry.Get(2)
	suite.Require().NoError(err)
	suite.Equal("Beta", b.Name)

	_, err = suite.registry.Get(99)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	byName, err := suite.registry.GetByName("ALPHA")
	suite.Require().NoError(err)
	suite.Equal(int64(1), byName.ID, "lowest id wins across owners")

	owned := suite.registry.GetByOwner("alice")
	suite.Require().Len(owned, 2)
	suite.Equal(int64(1), owned[0].ID)
	suite.Len(suite.registry.All(), 3)
}

func (suite *RegistryTestSuite) TestAdjustBalance_Success() {
	suite.mockRepo.On("UpdateBusinessBalance", suite.ctx, int64(1), mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(1250))
	}), "alice", t0).Return(nil).Once()

	b, err := suite.registry.AdjustBalance(suite.ctx, 1, decimal.NewFromInt(250), "alice")
	suite.Require().NoError(err)
	suite.True(b.Balance.Equal(decimal.NewFromInt(1250)))

	cached, _ := suite.registry.Get(1)
	suite.True(cached.Balance.Equal(decimal.NewFromInt(1250)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RegistryTestSuite) TestAdjustBalance_RefusesNegative() {
	_, err := suite.registry.AdjustBalance(suite.ctx, 2, decimal.NewFromInt(-51), "alice")
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	cached, _ := suite.registry.Get(2)
	suite.True(cached.Balance.Equal(decimal.NewFromInt(50)))
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateBusinessBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RegistryTestSuite) TestAdjustBalance_PersistFailureRollsBack() {
	suite.mockRepo.On("UpdateBusinessBalance", suite.ctx, int64(1), mock.Anything, "alice", t0).Return(errStoreDown).Once()

	_, err := suite.registry.AdjustBalance(suite.ctx, 1, decimal.NewFromInt(-100), "alice")
	suite.ErrorIs(err, apperrors.ErrPersistence)
	suite.ErrorIs(err, errStoreDown)

	cached, _ := suite.registry.Get(1)
	suite.True(cached.Balance.Equal(decimal.NewFromInt(1000)), "cache must not diverge from the store")
}

func (suite *RegistryTestSuite) TestAdjustBalance_RefusesSubCentDelta() {
	_, err := suite.registry.AdjustBalance(suite.ctx, 1, decimal.RequireFromString("-0.005"), "alice")
	suite.ErrorIs(err, apperrors.ErrValidation)

	cached, _ := suite.registry.Get(1)
	suite.True(cached.Balance.Equal(decimal.NewFromInt(1000)))
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateBusinessBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RegistryTestSuite) TestSetRevenueModel() {
	suite.mockRepo.On("UpdateBusinessRevenueModel", suite.ctx, int64(1), domain.ModelStartup, "alice", t0).Return(nil).Once()
	b, err := suite.registry.SetRevenueModel(suite.ctx, 1, domain.ModelStartup, "alice")
	suite.Require().NoError(err)
	suite.Equal(domain.ModelStartup, b.RevenueModel)

	suite.mockRepo.On("UpdateBusinessRevenueModel", suite.ctx, int64(2), domain.ModelStartup, "alice", t0).Return(errStoreDown).Once()
	_, err = suite.registry.SetRevenueModel(suite.ctx, 2, domain.ModelStartup, "alice")
	suite.ErrorIs(err, apperrors.ErrPersistence)
	cached, _ := suite.registry.Get(2)
	suite.Equal(domain.DefaultRevenueModel, cached.RevenueModel)
}

func (suite *RegistryTestSuite) TestRegister_DuplicateName() {
	_, err := suite.registry.Register(suite.ctx, business(10, "alice", " beta ", 0))
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveBusiness", mock.Anything, mock.Anything)
}

func (suite *RegistryTestSuite) TestRegister_PersistFailureNotCached() {
	b := business(10, "carol", "Gamma", 0)
	suite.mockRepo.On("SaveBusiness", suite.ctx, b).Return(errStoreDown).Once()

	_, err := suite.registry.Register(suite.ctx, b)
	suite.ErrorIs(err, apperrors.ErrPersistence)
	_, err = suite.registry.Get(10)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RegistryTestSuite) TestUpdate_KeepsBalanceAndChecksName() {
	suite.mockRepo.On("UpdateBusiness", suite.ctx, mock.MatchedBy(func(b domain.Business) bool {
		return b.ID == 1 && b.Name == "Alpha Prime" && b.Balance.Equal(decimal.NewFromInt(1000))
	})).Return(nil).Once()

	b, err := suite.registry.Update(suite.ctx, 1, "alice", func(b *domain.Business) error {
		b.Name = "Alpha Prime"
		b.Balance = decimal.NewFromInt(1_000_000)
		return nil
	})
	suite.Require().NoError(err)
	suite.Equal("Alpha Prime", b.Name)
	suite.True(b.Balance.Equal(decimal.NewFromInt(1000)))

	_, err = suite.registry.Update(suite.ctx, 1, "alice", func(b *domain.Business) error {
		b.Name = "BETA"
		return nil
	})
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RegistryTestSuite) TestLoad_Failure() {
	r := registry.New(suite.mockRepo)
	suite.mockRepo.On("ListBusinesses", suite.ctx).Return(nil, errStoreDown).Once()
	suite.ErrorIs(r.Load(suite.ctx), apperrors.ErrPersistence)
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func TestAdjustBalance_ConcurrentMutationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveBusiness(ctx, business(1, "alice", "Alpha", 0)))

	r := registry.New(store)
	require.NoError(t, r.Load(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = r.AdjustBalance(ctx, 1, decimal.NewFromInt(10), "scheduler")
		}()
		go func() {
			defer wg.Done()
			_, _ = r.AdjustBalance(ctx, 1, decimal.NewFromInt(5), "owner")
		}()
	}
	wg.Wait()

	cached, err := r.Get(1)
	require.NoError(t, err)
	assert.True(t, cached.Balance.Equal(decimal.NewFromInt(1500)), "no lost updates, got %s", cached.Balance)

	stored, err := store.FindBusinessByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(cached.Balance))
}

func TestWithBusiness_HoldsLockAcrossCheckAndDebit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveBusiness(ctx, business(1, "alice", "Alpha", 100)))
	r := registry.New(store)
	require.NoError(t, r.Load(ctx))

	// Each worker debits 30 only if funds cover it; serialized check-then-debit never overdraws.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.WithBusiness(ctx, 1, func(tx registry.BalanceTx) error {
				if tx.Business().Balance.LessThan(decimal.NewFromInt(30)) {
					return apperrors.ErrInsufficientFunds
				}
				_, err := tx.Adjust(decimal.NewFromInt(-30), "payroll")
				return err
			})
		}()
	}
	wg.Wait()

	cached, _ := r.Get(1)
	assert.True(t, cached.Balance.Equal(decimal.NewFromInt(10)))
}

func TestPersistedBusinessReloadsIdentically(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	r := registry.New(store)
	require.NoError(t, r.Load(ctx))

	b := business(7, "dana", "Delta", 321)
	b.RevenueModel = domain.ModelContractWork
	_, err := r.Register(ctx, b)
	require.NoError(t, err)

	reloaded := registry.New(store)
	require.NoError(t, reloaded.Load(ctx))
	got, err := reloaded.Get(7)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, b.Name, got.Name)
	assert.Equal(t, b.OwnerID, got.OwnerID)
	assert.Equal(t, b.Type, got.Type)
	assert.True(t, b.Balance.Equal(got.Balance))
	assert.Equal(t, b.RevenueModel, got.RevenueModel)
}

func TestUpdate_ConcurrentAcrossOwnersCompletes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveBusiness(ctx, business(1, "alice", "Alpha", 0)))
	require.NoError(t, store.SaveBusiness(ctx, business(2, "bob", "Bravo", 0)))
	r := registry.New(store)
	require.NoError(t, r.Load(ctx))

	// Both updates hold their own business before either runs the name check.
	var barrier sync.WaitGroup
	barrier.Add(2)
	rename := func(name string) func(b *domain.Business) error {
		return func(b *domain.Business) error {
			barrier.Done()
			barrier.Wait()
			b.Name = name
			return nil
		}
	}

	errs := make(chan error, 2)
	go func() {
		_, err := r.Update(ctx, 1, "alice", rename("Alpha Prime"))
		errs <- err
	}()
	go func() {
		_, err := r.Update(ctx, 2, "bob", rename("Bravo Prime"))
		errs <- err
	}()

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("concurrent updates of businesses with different owners did not finish")
		}
	}

	a, _ := r.Get(1)
	b, _ := r.Get(2)
	assert.Equal(t, "Alpha Prime", a.Name)
	assert.Equal(t, "Bravo Prime", b.Name)
}

func TestWithBusiness_DoesNotBlockOtherBusinesses(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveBusiness(ctx, business(1, "alice", "Alpha", 0)))
	require.NoError(t, store.SaveBusiness(ctx, business(2, "bob", "Bravo", 50)))
	r := registry.New(store)
	require.NoError(t, r.Load(ctx))

	held := make(chan struct{})
	release := make(chan struct{})
	locked := make(chan error, 1)
	go func() {
		locked <- r.WithBusiness(ctx, 2, func(tx registry.BalanceTx) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := r.Update(ctx, 1, "alice", func(b *domain.Business) error {
			b.Name = "Alpha Two"
			return nil
		})
		assert.NoError(t, err)
		assert.Len(t, r.All(), 2)
		assert.Len(t, r.GetByOwner("bob"), 1)
		found, err := r.GetByName("bravo")
		assert.NoError(t, err)
		assert.True(t, found.Balance.Equal(decimal.NewFromInt(50)))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reads and updates of business 1 waited on the lock of business 2")
	}
	close(release)
	require.NoError(t, <-locked)
}
