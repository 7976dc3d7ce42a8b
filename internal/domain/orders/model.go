package orders

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBotTopup     Type = "bot_topup"
	TypeBotWithdraw  Type = "bot_withdraw"
	TypeEishTopup    Type = "eish_topup"
	TypeEishWithdraw Type = "eish_withdraw"
	TypeEishCreate   Type = "eish_create"
)

// Reserves reports whether order creation must move the amount from
// balance to hold up front. Withdrawals lock funds while awaiting the
// admin decision; topups move funds in only on approval.
func (t Type) Reserves() bool {
	return t == TypeBotWithdraw || t == TypeEishWithdraw
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusCanceled Status = "canceled"
)

func (s Status) Terminal() bool { return s != StatusPending }

// LedgerEffect is the wallet mutation a status transition carries. The
// storage backend applies it in the same transaction as the transition.
type LedgerEffect int

const (
	EffectNone LedgerEffect = iota
	EffectCredit
	EffectRelease
	EffectSettle
)

// DecisionEffect maps order type × terminal status to the ledger effect.
func DecisionEffect(t Type, to Status) LedgerEffect {
	switch to {
	case StatusApproved:
		switch t {
		case TypeBotTopup, TypeEishTopup:
			return EffectCredit
		case TypeBotWithdraw, TypeEishWithdraw:
			return EffectSettle
		}
	case StatusRejected, StatusCanceled:
		if t.Reserves() {
			return EffectRelease
		}
	}
	return EffectNone
}

type Order struct {
	ID        uuid.UUID
	UserID    int64
	Type      Type
	Status    Status
	Amount    int64
	Payload   Payload
	AdminID   *int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DecidedAt *time.Time
}
