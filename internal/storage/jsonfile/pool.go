package jsonfile

import (
	"context"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/pool"
)

func (s *Store) AddPoolEntry(ctx context.Context, username, password string) (*pool.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pool.NextID++
	e := pool.Entry{
		ID:        s.pool.NextID,
		Username:  username,
		Password:  password,
		Status:    pool.StatusAvailable,
		CreatedAt: now(),
	}
	s.pool.Entries = append(s.pool.Entries, e)
	if err := s.save(filePool, s.pool); err != nil {
		return nil, err
	}
	return &e, nil
}

// AcquirePoolEntry hands out the oldest available credential. Entries are
// appended in id order so a linear scan is already FIFO.
func (s *Store) AcquirePoolEntry(ctx context.Context, userID int64) (*pool.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.pool.Entries {
		if s.pool.Entries[i].Status != pool.StatusAvailable {
			continue
		}
		ts := now()
		s.pool.Entries[i].Status = pool.StatusAssigned
		s.pool.Entries[i].AssignedTo = &userID
		s.pool.Entries[i].AssignedAt = &ts
		if err := s.save(filePool, s.pool); err != nil {
			return nil, err
		}
		e := s.pool.Entries[i]
		return &e, nil
	}
	return nil, apperrors.ErrPoolExhausted
}

func (s *Store) ReleasePoolEntry(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.pool.Entries {
		if s.pool.Entries[i].ID != id {
			continue
		}
		s.pool.Entries[i].Status = pool.StatusAvailable
		s.pool.Entries[i].AssignedTo = nil
		s.pool.Entries[i].AssignedAt = nil
		return s.save(filePool, s.pool)
	}
	return apperrors.ErrNotFound
}

func (s *Store) ListPool(ctx context.Context) ([]pool.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]pool.Entry, len(s.pool.Entries))
	copy(out, s.pool.Entries)
	return out, nil
}
