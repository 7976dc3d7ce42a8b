package jsonfile

import (
	"context"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/orders"
	"github.com/broichancy/eishbot/internal/domain/wallet"
)

func (s *Store) GetWallet(ctx context.Context, userID int64) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[key(userID)]
	if !ok {
		return wallet.Wallet{UserID: userID}, nil
	}
	return w, nil
}

// apply runs fn against the user's wallet in memory only and returns the
// previous entry, so multi-file operations can roll the wallet back when a
// later write fails.
func (s *Store) apply(userID int64, fn func(*wallet.Wallet) error) (prev wallet.Wallet, existed bool, err error) {
	k := key(userID)
	prev, existed = s.wallets[k]
	w := prev
	if !existed {
		w = wallet.Wallet{UserID: userID}
	}
	if err = fn(&w); err != nil {
		return wallet.Wallet{}, false, err
	}
	w.UpdatedAt = now()
	s.wallets[k] = w
	return prev, existed, nil
}

func (s *Store) restoreWallet(userID int64, prev wallet.Wallet, existed bool) {
	k := key(userID)
	if existed {
		s.wallets[k] = prev
	} else {
		delete(s.wallets, k)
	}
}

// mutate applies fn and persists on success only, so a refused or failed
// operation leaves both memory and disk untouched.
func (s *Store) mutate(userID int64, fn func(*wallet.Wallet) error) (wallet.Wallet, error) {
	prev, existed, err := s.apply(userID, fn)
	if err != nil {
		return wallet.Wallet{}, err
	}
	if err = s.save(fileWallets, s.wallets); err != nil {
		s.restoreWallet(userID, prev, existed)
		return wallet.Wallet{}, err
	}
	return s.wallets[key(userID)], nil
}

func creditOp(amount int64) func(*wallet.Wallet) error {
	return func(w *wallet.Wallet) error {
		if amount <= 0 {
			return apperrors.ErrInvalidState
		}
		w.Balance += amount
		return nil
	}
}

func reserveOp(amount int64) func(*wallet.Wallet) error {
	return func(w *wallet.Wallet) error {
		if amount <= 0 {
			return apperrors.ErrInvalidState
		}
		if w.Balance < amount {
			return apperrors.ErrInsufficientFunds
		}
		w.Balance -= amount
		w.Hold += amount
		return nil
	}
}

func releaseOp(amount int64) func(*wallet.Wallet) error {
	return func(w *wallet.Wallet) error {
		if amount <= 0 || w.Hold < amount {
			return apperrors.ErrInvalidState
		}
		w.Hold -= amount
		w.Balance += amount
		return nil
	}
}

func settleOp(amount int64) func(*wallet.Wallet) error {
	return func(w *wallet.Wallet) error {
		if amount <= 0 || w.Hold < amount {
			return apperrors.ErrInvalidState
		}
		w.Hold -= amount
		return nil
	}
}

func (s *Store) Credit(ctx context.Context, userID, amount int64) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(userID, creditOp(amount))
}

func (s *Store) Reserve(ctx context.Context, userID, amount int64) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(userID, reserveOp(amount))
}

func (s *Store) Release(ctx context.Context, userID, amount int64) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(userID, releaseOp(amount))
}

func (s *Store) Settle(ctx context.Context, userID, amount int64) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(userID, settleOp(amount))
}

func (s *Store) Adjust(ctx context.Context, userID, delta int64) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(userID, func(w *wallet.Wallet) error {
		if w.Balance+delta < 0 {
			return apperrors.ErrInsufficientFunds
		}
		w.Balance += delta
		return nil
	})
}

func effectOp(e orders.LedgerEffect, amount int64) func(*wallet.Wallet) error {
	switch e {
	case orders.EffectCredit:
		return creditOp(amount)
	case orders.EffectRelease:
		return releaseOp(amount)
	case orders.EffectSettle:
		return settleOp(amount)
	}
	return func(*wallet.Wallet) error { return nil }
}
