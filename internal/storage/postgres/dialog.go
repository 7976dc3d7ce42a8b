package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/broichancy/eishbot/internal/dialog"
)

func (s *Store) GetDialog(ctx context.Context, chatID int64) (*dialog.Item, error) {
	row := s.pool.QueryRow(ctx, `SELECT state, payload FROM dialog_states WHERE chat_id = $1`, chatID)
	var state string
	var raw []byte
	if err := row.Scan(&state, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// no row — the chat is idle
			return &dialog.Item{ChatID: chatID, State: dialog.StateIdle, Payload: dialog.Payload{}}, nil
		}
		return nil, err
	}
	var p dialog.Payload
	_ = json.Unmarshal(raw, &p)
	return &dialog.Item{ChatID: chatID, State: dialog.State(state), Payload: p}, nil
}

func (s *Store) SetDialog(ctx context.Context, chatID int64, state dialog.State, payload dialog.Payload) error {
	raw, _ := json.Marshal(payload)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO dialog_states (chat_id, state, payload, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (chat_id) DO UPDATE SET
		  state = $2, payload = $3, updated_at = now()
	`, chatID, string(state), raw)
	return err
}

func (s *Store) ResetDialog(ctx context.Context, chatID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM dialog_states WHERE chat_id = $1`, chatID)
	return err
}
