package jsonfile

import (
	"context"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/users"
	"github.com/broichancy/eishbot/internal/domain/wallet"
)

func (s *Store) UpsertUser(ctx context.Context, u users.User) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(u.ID)
	ts := now()
	rec, ok := s.users[k]
	if !ok {
		rec = users.User{ID: u.ID, JoinedAt: ts}
	}
	rec.Username = u.Username
	rec.FirstName = u.FirstName
	rec.LastName = u.LastName
	rec.IsActive = true
	rec.LastSeen = ts
	rec.UpdatedAt = ts
	s.users[k] = rec

	if _, ok := s.wallets[k]; !ok {
		s.wallets[k] = wallet.Wallet{UserID: u.ID, UpdatedAt: ts}
		if err := s.save(fileWallets, s.wallets); err != nil {
			return nil, err
		}
	}
	if err := s.save(fileUsers, s.users); err != nil {
		return nil, err
	}
	out := rec
	return &out, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[key(id)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := rec
	return &out, nil
}

func (s *Store) SetBanned(ctx context.Context, id int64, banned bool, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(id)
	rec, ok := s.users[k]
	if !ok {
		return apperrors.ErrNotFound
	}
	rec.IsBanned = banned
	rec.BanReason = reason
	if !banned {
		rec.BanReason = ""
	}
	rec.UpdatedAt = now()
	s.users[k] = rec
	return s.save(fileUsers, s.users)
}

func (s *Store) GetEishAccount(ctx context.Context, userID int64) (*users.EishAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.eish[key(userID)]
	if !ok || rec.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	out := rec
	return &out, nil
}

func (s *Store) SetEishAccount(ctx context.Context, userID int64, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eish[key(userID)] = users.EishAccount{
		UserID:    userID,
		Username:  username,
		Password:  password,
		CreatedAt: now(),
	}
	return s.save(fileEish, s.eish)
}

func (s *Store) RemoveEishAccount(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(userID)
	rec, ok := s.eish[k]
	if !ok || rec.DeletedAt != nil {
		return apperrors.ErrNotFound
	}
	ts := now()
	rec.DeletedAt = &ts
	s.eish[k] = rec
	return s.save(fileEish, s.eish)
}
