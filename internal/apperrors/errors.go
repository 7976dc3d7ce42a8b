package apperrors

import "errors"

// Error kinds of the wallet/order workflow. All of them are recoverable at
// the request level: the handler replies with a user-facing message and the
// request is dropped without partial ledger effect.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("invalid ledger state")
	ErrAlreadyDecided    = errors.New("order already decided")
	ErrPoolExhausted     = errors.New("credential pool exhausted")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMaintenanceActive = errors.New("maintenance active")
	ErrNotFound          = errors.New("not found")
	ErrBanned            = errors.New("user banned")
	ErrOrderLimit        = errors.New("pending order limit reached")
)
