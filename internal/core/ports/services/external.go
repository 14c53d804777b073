package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the external economy service holding players' personal funds.
type Wallet interface {
	// Deposit credits amount to actorID. A returned error means no money moved.
	Deposit(ctx context.Context, actorID string, amount decimal.Decimal) error

	// Withdraw debits amount from actorID, failing with apperrors.ErrInsufficientFunds
	// when the wallet holds less than amount.
	Withdraw(ctx context.Context, actorID string, amount decimal.Decimal) error

	// BalanceOf returns the wallet balance of actorID.
	BalanceOf(ctx context.Context, actorID string) (decimal.Decimal, error)
}

// Notifier delivers best-effort messages to players. Failures are swallowed by
// implementations since the player may be offline.
type Notifier interface {
	Notify(ctx context.Context, actorID string, message string)
}

// CooldownTracker remembers when revenue was last generated for each business.
type CooldownTracker interface {
	// TryAcquire records now as the last generation time for businessID and returns
	// true, unless the previous generation happened less than cooldown ago.
	TryAcquire(ctx context.Context, businessID int64, now time.Time, cooldown time.Duration) (bool, error)

	// Release forgets the mark set by a TryAcquire that was not followed by a credit.
	Release(ctx context.Context, businessID int64) error
}

// RandomSource yields uniformly distributed floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

// IDGenerator hands out unique, roughly time-ordered entity ids.
type IDGenerator interface {
	NextID() int64
}
