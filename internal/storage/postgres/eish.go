package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/users"
)

func (s *Store) GetEishAccount(ctx context.Context, userID int64) (*users.EishAccount, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, eish_username, eish_password, created_at, deleted_at
		FROM eish_accounts
		WHERE user_id = $1 AND deleted_at IS NULL
	`, userID)

	var a users.EishAccount
	if err := row.Scan(&a.UserID, &a.Username, &a.Password, &a.CreatedAt, &a.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) SetEishAccount(ctx context.Context, userID int64, username, password string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO eish_accounts (user_id, eish_username, eish_password)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET
			eish_username = EXCLUDED.eish_username,
			eish_password = EXCLUDED.eish_password,
			deleted_at = NULL,
			updated_at = now()
	`, userID, username, password)
	return err
}

func (s *Store) RemoveEishAccount(ctx context.Context, userID int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE eish_accounts SET deleted_at = now(), updated_at = now()
		WHERE user_id = $1 AND deleted_at IS NULL
	`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
