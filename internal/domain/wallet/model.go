package wallet

import "time"

// Wallet holds one user's custodial funds in SYP. Balance is spendable,
// hold is reserved against pending withdrawals. Both are kept non-negative
// by every storage backend.
type Wallet struct {
	UserID    int64
	Balance   int64
	Hold      int64
	UpdatedAt time.Time
}

func (w Wallet) Total() int64 { return w.Balance + w.Hold }
