package jsonfile

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/orders"
	"github.com/broichancy/eishbot/internal/domain/wallet"
	"github.com/broichancy/eishbot/internal/storage"
)

type orderRec struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	Type      orders.Type     `json:"type"`
	Status    orders.Status   `json:"status"`
	Amount    int64           `json:"amount"`
	Payload   json.RawMessage `json:"payload"`
	AdminID   *int64          `json:"admin_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DecidedAt *time.Time      `json:"decided_at,omitempty"`
}

func fromOrder(o orders.Order) (orderRec, error) {
	raw, err := orders.MarshalPayload(o.Payload)
	if err != nil {
		return orderRec{}, err
	}
	return orderRec{
		ID:        o.ID.String(),
		UserID:    o.UserID,
		Type:      o.Type,
		Status:    o.Status,
		Amount:    o.Amount,
		Payload:   raw,
		AdminID:   o.AdminID,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		DecidedAt: o.DecidedAt,
	}, nil
}

func (r orderRec) toOrder() (orders.Order, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return orders.Order{}, err
	}
	p, err := orders.UnmarshalPayload(r.Type, r.Payload)
	if err != nil {
		return orders.Order{}, err
	}
	return orders.Order{
		ID:        id,
		UserID:    r.UserID,
		Type:      r.Type,
		Status:    r.Status,
		Amount:    r.Amount,
		Payload:   p,
		AdminID:   r.AdminID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		DecidedAt: r.DecidedAt,
	}, nil
}

// CreateOrder inserts the order and, for reserving types, moves the amount
// to hold. Both updates are staged in memory first and rolled back together
// if a file write fails, so a hold never outlives its order.
func (s *Store) CreateOrder(ctx context.Context, o orders.Order) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := now()
	o.Status = orders.StatusPending
	o.CreatedAt = ts
	o.UpdatedAt = ts
	rec, err := fromOrder(o)
	if err != nil {
		return nil, err
	}

	var prevW wallet.Wallet
	var hadW bool
	if o.Type.Reserves() {
		if prevW, hadW, err = s.apply(o.UserID, reserveOp(o.Amount)); err != nil {
			return nil, err
		}
	}
	s.orders[rec.ID] = rec

	rollback := func() {
		delete(s.orders, rec.ID)
		if o.Type.Reserves() {
			s.restoreWallet(o.UserID, prevW, hadW)
		}
	}
	if err = s.save(fileOrders, s.orders); err != nil {
		rollback()
		return nil, err
	}
	if o.Type.Reserves() {
		if err = s.save(fileWallets, s.wallets); err != nil {
			rollback()
			_ = s.save(fileOrders, s.orders)
			return nil, err
		}
	}
	return &o, nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[id.String()]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	o, err := rec.toOrder()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, f storage.OrderFilter) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []orders.Order
	for _, rec := range s.orders {
		if f.UserID != 0 && rec.UserID != f.UserID {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.Type != "" && rec.Type != f.Type {
			continue
		}
		o, err := rec.toOrder()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) DecideOrder(ctx context.Context, id uuid.UUID, adminID int64, to orders.Status, effect orders.LedgerEffect) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[id.String()]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if rec.Status != orders.StatusPending {
		return nil, apperrors.ErrAlreadyDecided
	}
	prevRec := rec

	var prevW wallet.Wallet
	var hadW bool
	var err error
	if effect != orders.EffectNone {
		if prevW, hadW, err = s.apply(rec.UserID, effectOp(effect, rec.Amount)); err != nil {
			return nil, err
		}
	}

	ts := now()
	rec.Status = to
	rec.UpdatedAt = ts
	rec.DecidedAt = &ts
	if adminID != 0 {
		rec.AdminID = &adminID
	}
	s.orders[rec.ID] = rec

	// On a failed write the order stays pending and the effect is undone,
	// so a retried decision applies exactly once.
	rollback := func() {
		s.orders[prevRec.ID] = prevRec
		if effect != orders.EffectNone {
			s.restoreWallet(rec.UserID, prevW, hadW)
		}
	}
	if err = s.save(fileOrders, s.orders); err != nil {
		rollback()
		return nil, err
	}
	if effect != orders.EffectNone {
		if err = s.save(fileWallets, s.wallets); err != nil {
			rollback()
			_ = s.save(fileOrders, s.orders)
			return nil, err
		}
	}

	o, err := rec.toOrder()
	if err != nil {
		return nil, err
	}
	return &o, nil
}
