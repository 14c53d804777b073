package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bizcore/internal/apperrors"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxWallet keeps player funds in the player_wallets table.
type PgxWallet struct {
	BaseRepository
}

var _ portssvc.Wallet = (*PgxWallet)(nil)

func NewPgxWallet(pool *pgxpool.Pool) *PgxWallet {
	return &PgxWallet{BaseRepository: BaseRepository{Pool: pool}}
}

func (w *PgxWallet) Deposit(ctx context.Context, actorID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: deposit amount %s is negative", apperrors.ErrValidation, amount)
	}
	query := `
		INSERT INTO player_wallets (player_id, balance, last_updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (player_id) DO UPDATE
		SET balance = player_wallets.balance + EXCLUDED.balance, last_updated_at = NOW();
	`
	_, err := w.Pool.Exec(ctx, query, actorID, amount)
	return mapError(err, fmt.Sprintf("deposit %s to wallet of %s", amount, actorID))
}

func (w *PgxWallet) Withdraw(ctx context.Context, actorID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: withdraw amount %s is negative", apperrors.ErrValidation, amount)
	}
	query := `
		UPDATE player_wallets SET balance = balance - $2, last_updated_at = NOW()
		WHERE player_id = $1 AND balance >= $2;
	`
	tag, err := w.Pool.Exec(ctx, query, actorID, amount)
	if err != nil {
		return mapError(err, fmt.Sprintf("withdraw %s from wallet of %s", amount, actorID))
	}
	if tag.RowsAffected() == 0 {
		current, err := w.BalanceOf(ctx, actorID)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: wallet of %s holds %s", apperrors.ErrInsufficientFunds, actorID, current)
	}
	return nil
}

func (w *PgxWallet) BalanceOf(ctx context.Context, actorID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := w.Pool.QueryRow(ctx, `SELECT balance FROM player_wallets WHERE player_id = $1;`, actorID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, mapError(err, fmt.Sprintf("read wallet of %s", actorID))
	}
	return balance, nil
}
