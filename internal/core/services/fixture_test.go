package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/bizcore/internal/adapters/database/memory"
	"github.com/SscSPs/bizcore/internal/adapters/notify"
	"github.com/SscSPs/bizcore/internal/clock"
	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/SscSPs/bizcore/internal/core/registry"
	"github.com/SscSPs/bizcore/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// --- Mock Wallet ---
type MockWallet struct {
	mock.Mock
}

func (m *MockWallet) Deposit(ctx context.Context, actorID string, amount decimal.Decimal) error {
	return m.Called(ctx, actorID, amount).Error(0)
}

func (m *MockWallet) Withdraw(ctx context.Context, actorID string, amount decimal.Decimal) error {
	return m.Called(ctx, actorID, amount).Error(0)
}

func (m *MockWallet) BalanceOf(ctx context.Context, actorID string) (decimal.Decimal, error) {
	args := m.Called(ctx, actorID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func amountOf(v int64) interface{} {
	want := decimal.NewFromInt(v)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

type seqIDs struct {
	n atomic.Int64
}

func (s *seqIDs) NextID() int64 {
	return 1000 + s.n.Add(1)
}

// fixedRandom always returns the same draw.
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

// fixture wires services to the memory store, a fake clock and recording adapters.
type fixture struct {
	ctx    context.Context
	store  *memory.Store
	reg    *registry.Registry
	clock  *clock.FakeClock
	notes  *notify.Recorder
	wallet *memory.Wallet
	ids    *seqIDs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:    context.Background(),
		store:  memory.NewStore(),
		clock:  clock.NewFakeClock(t0),
		notes:  notify.NewRecorder(),
		wallet: memory.NewWallet(),
		ids:    &seqIDs{},
	}
	f.reg = registry.New(f.store, registry.WithClock(f.clock))
	return f
}

func (f *fixture) opts(extra ...services.ServiceOption) []services.ServiceOption {
	return append([]services.ServiceOption{
		services.WithClock(f.clock),
		services.WithIDGenerator(f.ids),
		services.WithNotifier(f.notes),
		services.WithAdmins("admin"),
	}, extra...)
}

func (f *fixture) business(t *testing.T, owner, name string, balance int64) domain.Business {
	t.Helper()
	b, err := f.reg.Register(f.ctx, domain.Business{
		ID:           f.ids.NextID(),
		Name:         name,
		OwnerID:      owner,
		Type:         "GENERAL",
		Balance:      decimal.NewFromInt(balance),
		RevenueModel: domain.ModelServiceProvider,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(owner, t0),
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) position(t *testing.T, businessID int64, maxEmployees int, manager bool) domain.Position {
	t.Helper()
	p := domain.Position{
		ID:           f.ids.NextID(),
		BusinessID:   businessID,
		Title:        "Clerk",
		BaseSalary:   decimal.NewFromInt(100),
		MaxEmployees: maxEmployees,
		IsManager:    manager,
		IsActive:     true,
	}
	if manager {
		p.Title = "Manager"
	}
	require.NoError(t, f.store.SavePosition(f.ctx, p))
	return p
}

func (f *fixture) hire(t *testing.T, businessID, positionID int64, player string, salary int64) domain.Employee {
	t.Helper()
	e := domain.Employee{
		ID:            f.ids.NextID(),
		BusinessID:    businessID,
		PositionID:    positionID,
		PlayerID:      player,
		CurrentSalary: decimal.NewFromInt(salary),
		HiredAt:       t0,
		IsActive:      true,
	}
	require.NoError(t, f.store.HireEmployee(f.ctx, e))
	return e
}

func (f *fixture) balance(t *testing.T, businessID int64) decimal.Decimal {
	t.Helper()
	b, err := f.reg.Get(businessID)
	require.NoError(t, err)
	return b.Balance
}

func (f *fixture) storedBalance(t *testing.T, businessID int64) decimal.Decimal {
	t.Helper()
	b, err := f.store.FindBusinessByID(f.ctx, businessID)
	require.NoError(t, err)
	return b.Balance
}

func (f *fixture) ledger(t *testing.T, businessID int64) []domain.RevenueLedgerEntry {
	t.Helper()
	entries, err := f.store.ListLedgerEntriesSince(f.ctx, businessID, time.Time{})
	require.NoError(t, err)
	return entries
}
