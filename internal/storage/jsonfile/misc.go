package jsonfile

import (
	"context"
	"encoding/json"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/dialog"
	"github.com/broichancy/eishbot/internal/storage"
)

func (s *Store) GetMaintenance(ctx context.Context) (storage.Maintenance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mnt, nil
}

func (s *Store) SetMaintenance(ctx context.Context, enabled bool, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mnt = storage.Maintenance{Enabled: enabled, Message: message, UpdatedAt: now()}
	return s.save(fileMaintenance, s.mnt)
}

func (s *Store) ListCodes(ctx context.Context, activeOnly bool) ([]storage.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []storage.Code
	for _, c := range s.codes {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) AddCode(ctx context.Context, code, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.codes {
		if s.codes[i].Code == code {
			s.codes[i].IsActive = true
			s.codes[i].Note = note
			return s.save(fileCodes, s.codes)
		}
	}
	s.codes = append(s.codes, storage.Code{Code: code, IsActive: true, Note: note, CreatedAt: now()})
	return s.save(fileCodes, s.codes)
}

func (s *Store) SetCodeActive(ctx context.Context, code string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.codes {
		if s.codes[i].Code == code {
			s.codes[i].IsActive = active
			return s.save(fileCodes, s.codes)
		}
	}
	return apperrors.ErrNotFound
}

func (s *Store) GetDialog(ctx context.Context, chatID int64) (*dialog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.dialogs[key(chatID)]
	if !ok {
		return &dialog.Item{ChatID: chatID, State: dialog.StateIdle, Payload: dialog.Payload{}}, nil
	}
	var p dialog.Payload
	_ = json.Unmarshal(rec.Payload, &p)
	if p == nil {
		p = dialog.Payload{}
	}
	return &dialog.Item{ChatID: chatID, State: dialog.State(rec.State), Payload: p}, nil
}

func (s *Store) SetDialog(ctx context.Context, chatID int64, state dialog.State, payload dialog.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, _ := json.Marshal(payload)
	s.dialogs[key(chatID)] = dialogRec{State: string(state), Payload: raw}
	return s.save(fileDialogs, s.dialogs)
}

func (s *Store) ResetDialog(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.dialogs, key(chatID))
	return s.save(fileDialogs, s.dialogs)
}
