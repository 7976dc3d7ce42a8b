package jsonfile

import (
	"context"
	"sort"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/admins"
)

func (s *Store) GetAdminRole(ctx context.Context, userID int64) (*admins.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.admins[key(userID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := g
	return &out, nil
}

func (s *Store) GrantAdmin(ctx context.Context, userID int64, role admins.Role, grantedBy int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.admins[key(userID)] = admins.Grant{
		UserID:    userID,
		Role:      role,
		GrantedBy: grantedBy,
		CreatedAt: now(),
	}
	return s.save(fileAdmins, s.admins)
}

func (s *Store) RevokeAdmin(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(userID)
	if _, ok := s.admins[k]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.admins, k)
	return s.save(fileAdmins, s.admins)
}

func (s *Store) ListAdmins(ctx context.Context) ([]admins.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]admins.Grant, 0, len(s.admins))
	for _, g := range s.admins {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
