package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/orders"
	"github.com/broichancy/eishbot/internal/domain/pool"
	"github.com/broichancy/eishbot/internal/infra/metrics"
	"github.com/broichancy/eishbot/internal/storage"
)

// Limits are the minimum accepted amounts per operation, in SYP.
type Limits struct {
	MinTopup    int64
	MinWithdraw int64
}

// Orders runs the order workflow: creation with its gates, admin
// decisions, and owner cancellation.
type Orders struct {
	store  storage.Store
	limits Limits
	admin  *Admin
	log    *slog.Logger
}

func NewOrders(store storage.Store, limits Limits, admin *Admin, log *slog.Logger) *Orders {
	return &Orders{store: store, limits: limits, admin: admin, log: log}
}

// Decision is the outcome of an admin decision. Credentials is set only
// when approving an account-creation order.
type Decision struct {
	Order       *orders.Order
	Credentials *pool.Entry
}

func (s *Orders) gate(ctx context.Context, userID int64) error {
	mnt, err := s.store.GetMaintenance(ctx)
	if err != nil {
		return err
	}
	if mnt.Enabled {
		return apperrors.ErrMaintenanceActive
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsBanned {
		return apperrors.ErrBanned
	}
	return nil
}

// onePending enforces one open order per user per type.
func (s *Orders) onePending(ctx context.Context, userID int64, t orders.Type) error {
	open, err := s.store.ListOrders(ctx, storage.OrderFilter{
		UserID: userID,
		Status: orders.StatusPending,
		Type:   t,
		Limit:  1,
	})
	if err != nil {
		return err
	}
	if len(open) > 0 {
		return apperrors.ErrOrderLimit
	}
	return nil
}

func (s *Orders) create(ctx context.Context, userID int64, t orders.Type, amount int64, p orders.Payload) (*orders.Order, error) {
	if err := s.gate(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.onePending(ctx, userID, t); err != nil {
		return nil, err
	}
	o, err := s.store.CreateOrder(ctx, orders.Order{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    t,
		Amount:  amount,
		Payload: p,
	})
	if err != nil {
		return nil, err
	}
	metrics.OrdersCreated.WithLabelValues(string(t)).Inc()
	s.log.Info("order created",
		slog.String("order_id", o.ID.String()),
		slog.String("type", string(t)),
		slog.Int64("user_id", userID),
		slog.Int64("amount", amount))
	return o, nil
}

// CreateTopup opens a wallet topup order for a Syriatel Cash transfer the
// user already sent, identified by its operation number.
func (s *Orders) CreateTopup(ctx context.Context, userID, amount int64, operationNo string) (*orders.Order, error) {
	if amount < s.limits.MinTopup {
		return nil, fmt.Errorf("%w: minimum topup is %d", apperrors.ErrInvalidState, s.limits.MinTopup)
	}
	return s.create(ctx, userID, orders.TypeBotTopup, amount, orders.TopupPayload{OperationNo: operationNo})
}

// CreateWithdraw opens a payout order and reserves the amount immediately.
func (s *Orders) CreateWithdraw(ctx context.Context, userID, amount int64, receiverNo string) (*orders.Order, error) {
	if amount < s.limits.MinWithdraw {
		return nil, fmt.Errorf("%w: minimum withdrawal is %d", apperrors.ErrInvalidState, s.limits.MinWithdraw)
	}
	return s.create(ctx, userID, orders.TypeBotWithdraw, amount, orders.WithdrawPayload{ReceiverNo: receiverNo})
}

// CreateEishTopup opens an order to move funds onto the user's linked
// platform account; the user pays externally and the wallet is credited
// when an admin approves.
func (s *Orders) CreateEishTopup(ctx context.Context, userID, amount int64) (*orders.Order, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidState
	}
	acc, err := s.store.GetEishAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, userID, orders.TypeEishTopup, amount, orders.EishPayload{Username: acc.Username})
}

// CreateEishWithdraw opens an order to pull funds off the linked platform
// account into the wallet, reserving the amount as collateral.
func (s *Orders) CreateEishWithdraw(ctx context.Context, userID, amount int64) (*orders.Order, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidState
	}
	acc, err := s.store.GetEishAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, userID, orders.TypeEishWithdraw, amount, orders.EishPayload{Username: acc.Username})
}

// CreateEishAccount opens a zero-amount order asking for a pool credential.
// Refused when the user already has a linked account.
func (s *Orders) CreateEishAccount(ctx context.Context, userID int64) (*orders.Order, error) {
	if _, err := s.store.GetEishAccount(ctx, userID); err == nil {
		return nil, apperrors.ErrInvalidState
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.create(ctx, userID, orders.TypeEishCreate, 0, orders.EishCreatePayload{})
}

// Approve settles a pending order. For account-creation orders a pool
// credential is acquired first and handed back if the decision fails, so
// an already-decided order never consumes one.
func (s *Orders) Approve(ctx context.Context, adminID int64, orderID uuid.UUID) (*Decision, error) {
	if err := s.admin.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var cred *pool.Entry
	if o.Type == orders.TypeEishCreate {
		cred, err = s.store.AcquirePoolEntry(ctx, o.UserID)
		if err != nil {
			return nil, err
		}
	}

	decided, err := s.store.DecideOrder(ctx, orderID, adminID, orders.StatusApproved, orders.DecisionEffect(o.Type, orders.StatusApproved))
	if err != nil {
		if cred != nil {
			if rerr := s.store.ReleasePoolEntry(ctx, cred.ID); rerr != nil {
				s.log.Error("release pool entry after failed decision",
					slog.Int64("entry_id", cred.ID), slog.Any("error", rerr))
			}
		}
		return nil, err
	}

	if cred != nil {
		if err = s.store.SetEishAccount(ctx, o.UserID, cred.Username, cred.Password); err != nil {
			return nil, err
		}
	}

	metrics.OrdersDecided.WithLabelValues(string(orders.StatusApproved)).Inc()
	s.log.Info("order approved",
		slog.String("order_id", orderID.String()),
		slog.Int64("admin_id", adminID))
	return &Decision{Order: decided, Credentials: cred}, nil
}

// Reject closes a pending order, returning any held funds.
func (s *Orders) Reject(ctx context.Context, adminID int64, orderID uuid.UUID) (*Decision, error) {
	if err := s.admin.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	decided, err := s.store.DecideOrder(ctx, orderID, adminID, orders.StatusRejected, orders.DecisionEffect(o.Type, orders.StatusRejected))
	if err != nil {
		return nil, err
	}
	metrics.OrdersDecided.WithLabelValues(string(orders.StatusRejected)).Inc()
	s.log.Info("order rejected",
		slog.String("order_id", orderID.String()),
		slog.Int64("admin_id", adminID))
	return &Decision{Order: decided}, nil
}

// Cancel lets the owner withdraw a still-pending order. Cancellation is a
// user-facing mutation, so the maintenance gate applies just like creation.
func (s *Orders) Cancel(ctx context.Context, userID int64, orderID uuid.UUID) (*orders.Order, error) {
	if err := s.gate(ctx, userID); err != nil {
		return nil, err
	}
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperrors.ErrUnauthorized
	}
	decided, err := s.store.DecideOrder(ctx, orderID, 0, orders.StatusCanceled, orders.DecisionEffect(o.Type, orders.StatusCanceled))
	if err != nil {
		return nil, err
	}
	metrics.OrdersDecided.WithLabelValues(string(orders.StatusCanceled)).Inc()
	s.log.Info("order canceled",
		slog.String("order_id", orderID.String()),
		slog.Int64("user_id", userID))
	return decided, nil
}

// ListPending returns open orders oldest first for the admin queue.
func (s *Orders) ListPending(ctx context.Context, limit int) ([]orders.Order, error) {
	return s.store.ListOrders(ctx, storage.OrderFilter{Status: orders.StatusPending, Limit: limit})
}

// ListForUser returns the user's recent orders.
func (s *Orders) ListForUser(ctx context.Context, userID int64, limit int) ([]orders.Order, error) {
	return s.store.ListOrders(ctx, storage.OrderFilter{UserID: userID, Limit: limit})
}
