package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/bizcore/internal/apperrors"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Wallet is an in-process wallet service.
type Wallet struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

var _ portssvc.Wallet = (*Wallet)(nil)

func NewWallet() *Wallet {
	return &Wallet{balances: make(map[string]decimal.Decimal)}
}

func (w *Wallet) Deposit(_ context.Context, actorID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: deposit amount %s is negative", apperrors.ErrValidation, amount)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balances[actorID] = w.balances[actorID].Add(amount)
	return nil
}

func (w *Wallet) Withdraw(_ context.Context, actorID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: withdraw amount %s is negative", apperrors.ErrValidation, amount)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	current := w.balances[actorID]
	if current.LessThan(amount) {
		return fmt.Errorf("%w: wallet of %s holds %s", apperrors.ErrInsufficientFunds, actorID, current)
	}
	w.balances[actorID] = current.Sub(amount)
	return nil
}

func (w *Wallet) BalanceOf(_ context.Context, actorID string) (decimal.Decimal, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balances[actorID], nil
}
