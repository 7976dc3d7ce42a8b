package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/orders"
	"github.com/broichancy/eishbot/internal/domain/wallet"
)

const walletCols = `user_id, balance, hold, updated_at`

func scanWallet(row pgx.Row) (wallet.Wallet, error) {
	var w wallet.Wallet
	err := row.Scan(&w.UserID, &w.Balance, &w.Hold, &w.UpdatedAt)
	return w, err
}

func (s *Store) GetWallet(ctx context.Context, userID int64) (wallet.Wallet, error) {
	w, err := scanWallet(s.pool.QueryRow(ctx, `
		SELECT `+walletCols+` FROM wallets WHERE user_id = $1
	`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return wallet.Wallet{UserID: userID}, nil
	}
	return w, err
}

func (s *Store) Credit(ctx context.Context, userID, amount int64) (wallet.Wallet, error) {
	return s.credit(ctx, s.pool, userID, amount)
}

func (s *Store) Reserve(ctx context.Context, userID, amount int64) (wallet.Wallet, error) {
	return s.reserve(ctx, s.pool, userID, amount)
}

func (s *Store) Release(ctx context.Context, userID, amount int64) (wallet.Wallet, error) {
	return s.release(ctx, s.pool, userID, amount)
}

func (s *Store) Settle(ctx context.Context, userID, amount int64) (wallet.Wallet, error) {
	return s.settle(ctx, s.pool, userID, amount)
}

// credit adds directly to the spendable balance.
func (s *Store) credit(ctx context.Context, q dbtx, userID, amount int64) (wallet.Wallet, error) {
	if amount <= 0 {
		return wallet.Wallet{}, apperrors.ErrInvalidState
	}
	return scanWallet(q.QueryRow(ctx, `
		INSERT INTO wallets (user_id, balance, hold)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id) DO UPDATE SET
			balance = wallets.balance + EXCLUDED.balance,
			updated_at = now()
		RETURNING `+walletCols, userID, amount))
}

// reserve moves amount from balance to hold. The balance guard in the WHERE
// clause makes the check and the move one atomic statement.
func (s *Store) reserve(ctx context.Context, q dbtx, userID, amount int64) (wallet.Wallet, error) {
	if amount <= 0 {
		return wallet.Wallet{}, apperrors.ErrInvalidState
	}
	w, err := scanWallet(q.QueryRow(ctx, `
		UPDATE wallets SET
			balance = balance - $2,
			hold = hold + $2,
			updated_at = now()
		WHERE user_id = $1 AND balance >= $2
		RETURNING `+walletCols, userID, amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return wallet.Wallet{}, apperrors.ErrInsufficientFunds
	}
	return w, err
}

// release returns held funds to balance (rejection/cancellation).
func (s *Store) release(ctx context.Context, q dbtx, userID, amount int64) (wallet.Wallet, error) {
	if amount <= 0 {
		return wallet.Wallet{}, apperrors.ErrInvalidState
	}
	w, err := scanWallet(q.QueryRow(ctx, `
		UPDATE wallets SET
			balance = balance + $2,
			hold = hold - $2,
			updated_at = now()
		WHERE user_id = $1 AND hold >= $2
		RETURNING `+walletCols, userID, amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return wallet.Wallet{}, apperrors.ErrInvalidState
	}
	return w, err
}

// settle burns held funds after an approved withdrawal is paid out.
func (s *Store) settle(ctx context.Context, q dbtx, userID, amount int64) (wallet.Wallet, error) {
	if amount <= 0 {
		return wallet.Wallet{}, apperrors.ErrInvalidState
	}
	w, err := scanWallet(q.QueryRow(ctx, `
		UPDATE wallets SET
			hold = hold - $2,
			updated_at = now()
		WHERE user_id = $1 AND hold >= $2
		RETURNING `+walletCols, userID, amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return wallet.Wallet{}, apperrors.ErrInvalidState
	}
	return w, err
}

// Adjust applies a signed admin correction to the balance, refusing to take
// it below zero.
func (s *Store) Adjust(ctx context.Context, userID, delta int64) (wallet.Wallet, error) {
	if delta == 0 {
		return s.GetWallet(ctx, userID)
	}
	if delta > 0 {
		return s.credit(ctx, s.pool, userID, delta)
	}
	w, err := scanWallet(s.pool.QueryRow(ctx, `
		UPDATE wallets SET
			balance = balance + $2,
			updated_at = now()
		WHERE user_id = $1 AND balance + $2 >= 0
		RETURNING `+walletCols, userID, delta))
	if errors.Is(err, pgx.ErrNoRows) {
		return wallet.Wallet{}, apperrors.ErrInsufficientFunds
	}
	return w, err
}

// applyEffect runs one ledger effect inside an order transaction.
func (s *Store) applyEffect(ctx context.Context, q dbtx, userID, amount int64, e orders.LedgerEffect) error {
	var err error
	switch e {
	case orders.EffectNone:
	case orders.EffectCredit:
		_, err = s.credit(ctx, q, userID, amount)
	case orders.EffectRelease:
		_, err = s.release(ctx, q, userID, amount)
	case orders.EffectSettle:
		_, err = s.settle(ctx, q, userID, amount)
	}
	return err
}
