package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/broichancy/eishbot/internal/storage"
)

func (s *Store) GetMaintenance(ctx context.Context) (storage.Maintenance, error) {
	var m storage.Maintenance
	err := s.pool.QueryRow(ctx, `
		SELECT enabled, COALESCE(message, ''), updated_at FROM maintenance WHERE id = 1
	`).Scan(&m.Enabled, &m.Message, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// No row yet means the gate is off.
		return storage.Maintenance{}, nil
	}
	return m, err
}

func (s *Store) SetMaintenance(ctx context.Context, enabled bool, message string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO maintenance (id, enabled, message, updated_at)
		VALUES (1, $1, NULLIF($2, ''), now())
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			message = EXCLUDED.message,
			updated_at = now()
	`, enabled, message)
	return err
}
