package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/pool"
)

const poolCols = `id, username, password, status, assigned_to, assigned_at, created_at`

func scanPoolEntry(row pgx.Row) (*pool.Entry, error) {
	var e pool.Entry
	if err := row.Scan(&e.ID, &e.Username, &e.Password, &e.Status,
		&e.AssignedTo, &e.AssignedAt, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) AddPoolEntry(ctx context.Context, username, password string) (*pool.Entry, error) {
	return scanPoolEntry(s.pool.QueryRow(ctx, `
		INSERT INTO eish_pool (username, password)
		VALUES ($1,$2)
		RETURNING `+poolCols, username, password))
}

// AcquirePoolEntry claims the oldest available credential. SKIP LOCKED keeps
// two concurrent acquisitions off the same row.
func (s *Store) AcquirePoolEntry(ctx context.Context, userID int64) (*pool.Entry, error) {
	e, err := scanPoolEntry(s.pool.QueryRow(ctx, `
		UPDATE eish_pool SET
			status = 'assigned',
			assigned_to = $1,
			assigned_at = now()
		WHERE id = (
			SELECT id FROM eish_pool
			WHERE status = 'available'
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+poolCols, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrPoolExhausted
	}
	return e, err
}

func (s *Store) ReleasePoolEntry(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE eish_pool SET
			status = 'available',
			assigned_to = NULL,
			assigned_at = NULL
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *Store) ListPool(ctx context.Context) ([]pool.Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+poolCols+` FROM eish_pool ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pool.Entry
	for rows.Next() {
		e, err := scanPoolEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
