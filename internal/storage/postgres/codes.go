package postgres

import (
	"context"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/storage"
)

func (s *Store) ListCodes(ctx context.Context, activeOnly bool) ([]storage.Code, error) {
	q := `SELECT code, is_active, COALESCE(note, ''), created_at FROM syriatel_codes`
	if activeOnly {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY created_at`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.Code
	for rows.Next() {
		var c storage.Code
		if err = rows.Scan(&c.Code, &c.IsActive, &c.Note, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) AddCode(ctx context.Context, code, note string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO syriatel_codes (code, note)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (code) DO UPDATE SET is_active = TRUE, note = EXCLUDED.note
	`, code, note)
	return err
}

func (s *Store) SetCodeActive(ctx context.Context, code string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE syriatel_codes SET is_active = $2 WHERE code = $1
	`, code, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
