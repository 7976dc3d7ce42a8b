package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/broichancy/eishbot/internal/dialog"
	"github.com/broichancy/eishbot/internal/domain/admins"
	"github.com/broichancy/eishbot/internal/domain/orders"
	"github.com/broichancy/eishbot/internal/domain/pool"
	"github.com/broichancy/eishbot/internal/domain/users"
	"github.com/broichancy/eishbot/internal/domain/wallet"
)

// Maintenance is the single global gate for user-facing mutations.
type Maintenance struct {
	Enabled   bool
	Message   string
	UpdatedAt time.Time
}

// Code is an allowed Syriatel Cash receiving code shown to users on topup.
type Code struct {
	Code      string
	IsActive  bool
	Note      string
	CreatedAt time.Time
}

type OrderFilter struct {
	UserID int64         // 0 = any
	Status orders.Status // "" = any
	Type   orders.Type   // "" = any
	Limit  int           // 0 = no limit
}

type Stats struct {
	Users         int64
	TotalBalance  int64
	TotalHold     int64
	Orders        int64
	Pending       int64
	Approved      int64
	Rejected      int64
	Canceled      int64
	PoolAvailable int64
}

// Store is the persistence contract shared by the postgres and flat-file
// backends.
//
// Every ledger method is atomic and all-or-nothing: on error the wallet is
// left unchanged and never observed negative. CreateOrder with a reserving
// type, and DecideOrder with its effect, each run as one transaction so two
// concurrent admin decisions on the same order cannot both apply.
type Store interface {
	// Users.
	UpsertUser(ctx context.Context, u users.User) (*users.User, error)
	GetUser(ctx context.Context, id int64) (*users.User, error)
	SetBanned(ctx context.Context, id int64, banned bool, reason string) error

	// Wallet ledger. Amounts are strictly positive except Adjust's delta.
	GetWallet(ctx context.Context, userID int64) (wallet.Wallet, error)
	Credit(ctx context.Context, userID, amount int64) (wallet.Wallet, error)
	Reserve(ctx context.Context, userID, amount int64) (wallet.Wallet, error)
	Release(ctx context.Context, userID, amount int64) (wallet.Wallet, error)
	Settle(ctx context.Context, userID, amount int64) (wallet.Wallet, error)
	Adjust(ctx context.Context, userID, delta int64) (wallet.Wallet, error)

	// Orders. CreateOrder reserves o.Amount when o.Type.Reserves().
	// DecideOrder transitions pending → to, applies effect, and reports
	// ErrAlreadyDecided when the order is terminal; adminID 0 records no
	// decider (owner cancellation).
	CreateOrder(ctx context.Context, o orders.Order) (*orders.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*orders.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]orders.Order, error)
	DecideOrder(ctx context.Context, id uuid.UUID, adminID int64, to orders.Status, effect orders.LedgerEffect) (*orders.Order, error)

	// Linked platform account (soft-deleted on removal).
	GetEishAccount(ctx context.Context, userID int64) (*users.EishAccount, error)
	SetEishAccount(ctx context.Context, userID int64, username, password string) error
	RemoveEishAccount(ctx context.Context, userID int64) error

	// Credential pool.
	AddPoolEntry(ctx context.Context, username, password string) (*pool.Entry, error)
	AcquirePoolEntry(ctx context.Context, userID int64) (*pool.Entry, error)
	ReleasePoolEntry(ctx context.Context, id int64) error
	ListPool(ctx context.Context) ([]pool.Entry, error)

	// Admin roles.
	GetAdminRole(ctx context.Context, userID int64) (*admins.Grant, error)
	GrantAdmin(ctx context.Context, userID int64, role admins.Role, grantedBy int64) error
	RevokeAdmin(ctx context.Context, userID int64) error
	ListAdmins(ctx context.Context) ([]admins.Grant, error)

	// Maintenance gate.
	GetMaintenance(ctx context.Context) (Maintenance, error)
	SetMaintenance(ctx context.Context, enabled bool, message string) error

	// Syriatel codes.
	ListCodes(ctx context.Context, activeOnly bool) ([]Code, error)
	AddCode(ctx context.Context, code, note string) error
	SetCodeActive(ctx context.Context, code string, active bool) error

	// Dialog FSM.
	GetDialog(ctx context.Context, chatID int64) (*dialog.Item, error)
	SetDialog(ctx context.Context, chatID int64, state dialog.State, payload dialog.Payload) error
	ResetDialog(ctx context.Context, chatID int64) error

	Stats(ctx context.Context) (Stats, error)

	Close()
}
