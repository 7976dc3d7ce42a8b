package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/users"
)

func (s *Store) UpsertUser(ctx context.Context, u users.User) (*users.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE SET
			username   = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			last_seen  = now(),
			is_active  = TRUE,
			updated_at = now()
		RETURNING user_id, username, first_name, last_name,
		          is_active, is_banned, COALESCE(ban_reason, ''),
		          joined_at, last_seen, updated_at
	`, u.ID, u.Username, u.FirstName, u.LastName)

	var out users.User
	if err = row.Scan(&out.ID, &out.Username, &out.FirstName, &out.LastName,
		&out.IsActive, &out.IsBanned, &out.BanReason,
		&out.JoinedAt, &out.LastSeen, &out.UpdatedAt); err != nil {
		return nil, err
	}

	// Every user owns exactly one wallet.
	if _, err = tx.Exec(ctx, `
		INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, u.ID); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*users.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, username, first_name, last_name,
		       is_active, is_banned, COALESCE(ban_reason, ''),
		       joined_at, last_seen, updated_at
		FROM users WHERE user_id = $1
	`, id)

	var u users.User
	if err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName,
		&u.IsActive, &u.IsBanned, &u.BanReason,
		&u.JoinedAt, &u.LastSeen, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) SetBanned(ctx context.Context, id int64, banned bool, reason string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET is_banned = $2, ban_reason = NULLIF($3, ''), updated_at = now()
		WHERE user_id = $1
	`, id, banned, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
