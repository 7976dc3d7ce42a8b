package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/admins"
)

func (s *Store) GetAdminRole(ctx context.Context, userID int64) (*admins.Grant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, role, COALESCE(granted_by, 0), created_at
		FROM admin_roles WHERE user_id = $1
	`, userID)

	var g admins.Grant
	if err := row.Scan(&g.UserID, &g.Role, &g.GrantedBy, &g.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (s *Store) GrantAdmin(ctx context.Context, userID int64, role admins.Role, grantedBy int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admin_roles (user_id, role, granted_by)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET
			role = EXCLUDED.role,
			granted_by = EXCLUDED.granted_by
	`, userID, string(role), grantedBy)
	return err
}

func (s *Store) RevokeAdmin(ctx context.Context, userID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM admin_roles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]admins.Grant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, role, COALESCE(granted_by, 0), created_at
		FROM admin_roles ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []admins.Grant
	for rows.Next() {
		var g admins.Grant
		if err = rows.Scan(&g.UserID, &g.Role, &g.GrantedBy, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
