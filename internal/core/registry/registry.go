package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/clock"
	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/SscSPs/bizcore/internal/utils/locking"
	"github.com/shopspring/decimal"
)

// Registry caches every Business and is the only component allowed to change a
// business balance. Mutations are serialized per business id; the cached value only
// changes once the store has accepted the write. Reads never wait on a mutation.
type Registry struct {
	repo  portsrepo.BusinessRepositoryFacade
	clock clock.Clock

	mu         sync.RWMutex
	businesses map[int64]*entry

	// serializes registrations per owner so the name check and insert cannot interleave
	owners *locking.KeyedMutex[string]
}

// entry holds one cached business. mu serializes mutations and may be held across
// store and wallet I/O; readers only load the published snapshot.
type entry struct {
	mu  sync.Mutex
	cur atomic.Pointer[domain.Business]
}

func newEntry(b domain.Business) *entry {
	e := &entry{}
	e.publish(b)
	return e
}

func (e *entry) read() domain.Business {
	return *e.cur.Load()
}

func (e *entry) publish(b domain.Business) {
	e.cur.Store(&b)
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the clock used for audit timestamps.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		r.clock = c
	}
}

func New(repo portsrepo.BusinessRepositoryFacade, opts ...Option) *Registry {
	r := &Registry{
		repo:       repo,
		clock:      clock.Real(),
		businesses: make(map[int64]*entry),
		owners:     locking.NewKeyedMutex[string](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the cache with the businesses held by the store.
func (r *Registry) Load(ctx context.Context) error {
	businesses, err := r.repo.ListBusinesses(ctx)
	if err != nil {
		return fmt.Errorf("%w: load businesses: %w", apperrors.ErrPersistence, err)
	}

	loaded := make(map[int64]*entry, len(businesses))
	for _, b := range businesses {
		loaded[b.ID] = newEntry(b)
	}

	r.mu.Lock()
	r.businesses = loaded
	r.mu.Unlock()

	middleware.GetLoggerFromCtx(ctx).Info("Business registry loaded", slog.Int("count", len(loaded)))
	return nil
}

func (r *Registry) lookup(id int64) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.businesses[id]
	return e, ok
}

func (r *Registry) snapshot() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entry, 0, len(r.businesses))
	for _, e := range r.businesses {
		out = append(out, e)
	}
	return out
}

// Get returns a copy of the cached business.
func (r *Registry) Get(id int64) (domain.Business, error) {
	e, ok := r.lookup(id)
	if !ok {
		return domain.Business{}, fmt.Errorf("%w: business %d", apperrors.ErrNotFound, id)
	}
	return e.read(), nil
}

// GetByName resolves a case-insensitive name across all owners. The business with the
// lowest id wins when several owners use the same name.
func (r *Registry) GetByName(name string) (domain.Business, error) {
	var (
		found domain.Business
		ok    bool
	)
	for _, e := range r.snapshot() {
		b := e.read()
		if !domain.SameName(b.Name, name) {
			continue
		}
		if !ok || b.ID < found.ID {
			found, ok = b, true
		}
	}
	if !ok {
		return domain.Business{}, fmt.Errorf("%w: business named %q", apperrors.ErrNotFound, name)
	}
	return found, nil
}

// GetByOwner returns the businesses of ownerID ordered by id.
func (r *Registry) GetByOwner(ownerID string) []domain.Business {
	var out []domain.Business
	for _, e := range r.snapshot() {
		if b := e.read(); b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sortByID(out)
	return out
}

// All returns every cached business ordered by id.
func (r *Registry) All() []domain.Business {
	entries := r.snapshot()
	out := make([]domain.Business, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.read())
	}
	sortByID(out)
	return out
}

func sortByID(businesses []domain.Business) {
	sort.Slice(businesses, func(i, j int) bool { return businesses[i].ID < businesses[j].ID })
}

// Register persists a new business and adds it to the cache.
func (r *Registry) Register(ctx context.Context, business domain.Business) (domain.Business, error) {
	unlock := r.owners.Lock(business.OwnerID)
	defer unlock()

	for _, existing := range r.GetByOwner(business.OwnerID) {
		if domain.SameName(existing.Name, business.Name) {
			return domain.Business{}, fmt.Errorf("%w: owner %s already has a business named %q", apperrors.ErrDuplicate, business.OwnerID, business.Name)
		}
	}
	if _, exists := r.lookup(business.ID); exists {
		return domain.Business{}, fmt.Errorf("%w: business %d", apperrors.ErrDuplicate, business.ID)
	}

	if err := r.repo.SaveBusiness(ctx, business); err != nil {
		return domain.Business{}, persistErr(err, "save business %d", business.ID)
	}

	r.mu.Lock()
	r.businesses[business.ID] = newEntry(business)
	r.mu.Unlock()
	return business, nil
}

// AdjustBalance adds delta (possibly negative) to the balance of business id.
// A result below zero is refused with apperrors.ErrInsufficientFunds.
func (r *Registry) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal, actorID string) (domain.Business, error) {
	var updated domain.Business
	err := r.WithBusiness(ctx, id, func(tx BalanceTx) error {
		b, err := tx.Adjust(delta, actorID)
		updated = b
		return err
	})
	return updated, err
}

// BalanceTx gives a WithBusiness callback access to the locked business.
type BalanceTx interface {
	// Business returns the current cached state.
	Business() domain.Business
	// Adjust persists balance+delta and updates the cache. It never goes below zero
	// and refuses deltas finer than a cent.
	Adjust(delta decimal.Decimal, actorID string) (domain.Business, error)
}

type balanceTx struct {
	ctx context.Context
	r   *Registry
	e   *entry
}

func (t *balanceTx) Business() domain.Business {
	return t.e.read()
}

func (t *balanceTx) Adjust(delta decimal.Decimal, actorID string) (domain.Business, error) {
	prev := t.e.read()
	if !domain.IsCents(delta) {
		return prev, fmt.Errorf("%w: business %d cannot move %s, amounts are whole cents", apperrors.ErrValidation, prev.ID, delta)
	}
	next := prev
	next.Balance = prev.Balance.Add(delta)
	if next.Balance.IsNegative() {
		return prev, fmt.Errorf("%w: business %d balance %s cannot cover %s", apperrors.ErrInsufficientFunds, prev.ID, prev.Balance, delta.Neg())
	}
	now := t.r.clock.Now()
	next.Touch(actorID, now)

	if err := t.r.repo.UpdateBusinessBalance(t.ctx, prev.ID, next.Balance, actorID, now); err != nil {
		middleware.GetLoggerFromCtx(t.ctx).Error("Balance update rejected by store, cache kept at previous value",
			slog.String("error", err.Error()),
			slog.Int64("business_id", prev.ID),
			slog.String("actor_id", actorID),
			slog.String("amount", delta.String()))
		return prev, persistErr(err, "update balance of business %d", prev.ID)
	}
	t.e.publish(next)
	return next, nil
}

// WithBusiness runs fn while holding the lock of business id. Balance changes made
// through the BalanceTx are serialized with every other mutation of that business.
// fn must not call back into Registry mutations for the same business.
func (r *Registry) WithBusiness(ctx context.Context, id int64, fn func(tx BalanceTx) error) error {
	e, ok := r.lookup(id)
	if !ok {
		return fmt.Errorf("%w: business %d", apperrors.ErrNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&balanceTx{ctx: ctx, r: r, e: e})
}

// SetRevenueModel assigns a catalog model to business id.
func (r *Registry) SetRevenueModel(ctx context.Context, id int64, model domain.RevenueModelTag, actorID string) (domain.Business, error) {
	e, ok := r.lookup(id)
	if !ok {
		return domain.Business{}, fmt.Errorf("%w: business %d", apperrors.ErrNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := r.clock.Now()
	next := e.read()
	if err := r.repo.UpdateBusinessRevenueModel(ctx, id, model, actorID, now); err != nil {
		return next, persistErr(err, "update revenue model of business %d", id)
	}
	next.RevenueModel = model
	next.Touch(actorID, now)
	e.publish(next)
	return next, nil
}

// Update applies fn to a copy of business id and persists the metadata it changed.
// Balance, revenue model, owner and rollups are not editable through Update.
func (r *Registry) Update(ctx context.Context, id int64, actorID string, fn func(b *domain.Business) error) (domain.Business, error) {
	e, ok := r.lookup(id)
	if !ok {
		return domain.Business{}, fmt.Errorf("%w: business %d", apperrors.ErrNotFound, id)
	}

	unlockOwner := r.owners.Lock(e.read().OwnerID)
	defer unlockOwner()

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.read()
	next := prev
	if err := fn(&next); err != nil {
		return prev, err
	}
	next.ID, next.OwnerID = prev.ID, prev.OwnerID
	next.Balance, next.RevenueModel, next.Rollups = prev.Balance, prev.RevenueModel, prev.Rollups

	for _, other := range r.ownerPeers(prev.OwnerID, prev.ID) {
		if domain.SameName(other.Name, next.Name) {
			return prev, fmt.Errorf("%w: owner %s already has a business named %q", apperrors.ErrDuplicate, prev.OwnerID, next.Name)
		}
	}

	next.Touch(actorID, r.clock.Now())
	if err := r.repo.UpdateBusiness(ctx, next); err != nil {
		return prev, persistErr(err, "update business %d", id)
	}
	e.publish(next)
	return next, nil
}

// ownerPeers lists the other businesses of ownerID. It takes no entry lock.
func (r *Registry) ownerPeers(ownerID string, skipID int64) []domain.Business {
	var out []domain.Business
	for _, b := range r.GetByOwner(ownerID) {
		if b.ID != skipID {
			out = append(out, b)
		}
	}
	return out
}

// RefreshRollups stores a freshly computed revenue projection for business id.
func (r *Registry) RefreshRollups(ctx context.Context, id int64, rollups domain.BusinessRollups) error {
	e, ok := r.lookup(id)
	if !ok {
		return fmt.Errorf("%w: business %d", apperrors.ErrNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := r.repo.UpdateBusinessRollups(ctx, id, rollups); err != nil {
		return persistErr(err, "update rollups of business %d", id)
	}
	next := e.read()
	next.Rollups = rollups
	e.publish(next)
	return nil
}

// persistErr wraps store failures with apperrors.ErrPersistence. Store errors that
// already carry a domain meaning are passed through.
func persistErr(err error, format string, args ...any) error {
	if errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf(format+": %w", append(args, err)...)
	}
	return fmt.Errorf("%w: "+format+": %w", append(append([]any{apperrors.ErrPersistence}, args...), err)...)
}
