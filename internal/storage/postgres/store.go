package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/broichancy/eishbot/internal/storage"
)

// dbtx is the subset of pgxpool.Pool and pgx.Tx the queries need, so ledger
// helpers can run both standalone and inside an order transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Stats(ctx context.Context) (storage.Stats, error) {
	var st storage.Stats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users),
			COALESCE((SELECT sum(balance) FROM wallets), 0),
			COALESCE((SELECT sum(hold) FROM wallets), 0),
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM orders WHERE status = 'pending'),
			(SELECT count(*) FROM orders WHERE status = 'approved'),
			(SELECT count(*) FROM orders WHERE status = 'rejected'),
			(SELECT count(*) FROM orders WHERE status = 'canceled'),
			(SELECT count(*) FROM eish_pool WHERE status = 'available')
	`).Scan(&st.Users, &st.TotalBalance, &st.TotalHold, &st.Orders,
		&st.Pending, &st.Approved, &st.Rejected, &st.Canceled, &st.PoolAvailable)
	return st, err
}
