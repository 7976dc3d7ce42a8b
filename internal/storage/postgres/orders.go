package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/orders"
	"github.com/broichancy/eishbot/internal/storage"
)

const orderCols = `order_id, user_id, type, status, amount, payload, admin_id, created_at, updated_at, decided_at`

func scanOrder(row pgx.Row) (*orders.Order, error) {
	var o orders.Order
	var raw []byte
	if err := row.Scan(&o.ID, &o.UserID, &o.Type, &o.Status, &o.Amount,
		&raw, &o.AdminID, &o.CreatedAt, &o.UpdatedAt, &o.DecidedAt); err != nil {
		return nil, err
	}
	p, err := orders.UnmarshalPayload(o.Type, raw)
	if err != nil {
		return nil, err
	}
	o.Payload = p
	return &o, nil
}

// CreateOrder inserts the order and, for reserving types, moves the amount
// to hold in the same transaction: the order either exists with its funds
// locked or not at all.
func (s *Store) CreateOrder(ctx context.Context, o orders.Order) (*orders.Order, error) {
	raw, err := orders.MarshalPayload(o.Payload)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if o.Type.Reserves() {
		if _, err = s.reserve(ctx, tx, o.UserID, o.Amount); err != nil {
			return nil, err
		}
	}

	out, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (order_id, user_id, type, status, amount, payload)
		VALUES ($1,$2,$3,'pending',$4,$5)
		RETURNING `+orderCols, o.ID, o.UserID, string(o.Type), o.Amount, raw))
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, `
		SELECT `+orderCols+` FROM orders WHERE order_id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return o, err
}

func (s *Store) ListOrders(ctx context.Context, f storage.OrderFilter) ([]orders.Order, error) {
	where := []string{"TRUE"}
	args := []any{}
	if f.UserID != 0 {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	q := `SELECT ` + orderCols + ` FROM orders WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at`
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// DecideOrder transitions a pending order to a terminal status and applies
// the ledger effect atomically. The status guard in the UPDATE is the
// compare-and-set: a second decision finds no pending row and reports
// ErrAlreadyDecided instead of re-applying the effect.
func (s *Store) DecideOrder(ctx context.Context, id uuid.UUID, adminID int64, to orders.Status, effect orders.LedgerEffect) (*orders.Order, error) {
	if !to.Terminal() {
		return nil, apperrors.ErrInvalidState
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var adminArg any
	if adminID != 0 {
		adminArg = adminID
	}

	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET
			status = $2,
			admin_id = $3,
			decided_at = now(),
			updated_at = now()
		WHERE order_id = $1 AND status = 'pending'
		RETURNING `+orderCols, id, string(to), adminArg))
	if errors.Is(err, pgx.ErrNoRows) {
		var status string
		if err2 := tx.QueryRow(ctx, `SELECT status FROM orders WHERE order_id = $1`, id).Scan(&status); err2 != nil {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.ErrAlreadyDecided
	}
	if err != nil {
		return nil, err
	}

	if err = s.applyEffect(ctx, tx, o.UserID, o.Amount, effect); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
