package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/admins"
	"github.com/broichancy/eishbot/internal/domain/pool"
	"github.com/broichancy/eishbot/internal/domain/wallet"
	"github.com/broichancy/eishbot/internal/storage"
)

// Admin gates every privileged operation behind the role table. The
// configured super admin id always passes, even with an empty table, so
// the bot is administrable on first run.
type Admin struct {
	store      storage.Store
	superAdmin int64
	log        *slog.Logger
}

func NewAdmin(store storage.Store, superAdmin int64, log *slog.Logger) *Admin {
	return &Admin{store: store, superAdmin: superAdmin, log: log}
}

func (s *Admin) RoleOf(ctx context.Context, userID int64) (admins.Role, error) {
	if userID == s.superAdmin {
		return admins.RoleSuper, nil
	}
	g, err := s.store.GetAdminRole(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrUnauthorized
		}
		return "", err
	}
	return g.Role, nil
}

func (s *Admin) IsAdmin(ctx context.Context, userID int64) bool {
	_, err := s.RoleOf(ctx, userID)
	return err == nil
}

func (s *Admin) requireAdmin(ctx context.Context, userID int64) error {
	_, err := s.RoleOf(ctx, userID)
	return err
}

func (s *Admin) requireSuper(ctx context.Context, userID int64) error {
	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		return err
	}
	if role != admins.RoleSuper {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func (s *Admin) Grant(ctx context.Context, actorID, userID int64, role admins.Role) error {
	if err := s.requireSuper(ctx, actorID); err != nil {
		return err
	}
	if err := s.store.GrantAdmin(ctx, userID, role, actorID); err != nil {
		return err
	}
	s.log.Info("admin granted",
		slog.Int64("user_id", userID),
		slog.String("role", string(role)),
		slog.Int64("by", actorID))
	return nil
}

func (s *Admin) Revoke(ctx context.Context, actorID, userID int64) error {
	if err := s.requireSuper(ctx, actorID); err != nil {
		return err
	}
	if userID == s.superAdmin {
		return apperrors.ErrUnauthorized
	}
	if err := s.store.RevokeAdmin(ctx, userID); err != nil {
		return err
	}
	s.log.Info("admin revoked", slog.Int64("user_id", userID), slog.Int64("by", actorID))
	return nil
}

func (s *Admin) ListAdmins(ctx context.Context, actorID int64) ([]admins.Grant, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.store.ListAdmins(ctx)
}

func (s *Admin) Ban(ctx context.Context, actorID, userID int64, reason string) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if s.IsAdmin(ctx, userID) {
		return apperrors.ErrUnauthorized
	}
	if err := s.store.SetBanned(ctx, userID, true, reason); err != nil {
		return err
	}
	s.log.Info("user banned", slog.Int64("user_id", userID), slog.Int64("by", actorID))
	return nil
}

func (s *Admin) Unban(ctx context.Context, actorID, userID int64) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.store.SetBanned(ctx, userID, false, ""); err != nil {
		return err
	}
	s.log.Info("user unbanned", slog.Int64("user_id", userID), slog.Int64("by", actorID))
	return nil
}

// AdjustWallet applies a manual balance correction. Negative deltas that
// would take the balance below zero are refused by the store.
func (s *Admin) AdjustWallet(ctx context.Context, actorID, userID, delta int64) (wallet.Wallet, error) {
	if err := s.requireSuper(ctx, actorID); err != nil {
		return wallet.Wallet{}, err
	}
	w, err := s.store.Adjust(ctx, userID, delta)
	if err != nil {
		return wallet.Wallet{}, err
	}
	s.log.Info("wallet adjusted",
		slog.Int64("user_id", userID),
		slog.Int64("delta", delta),
		slog.Int64("by", actorID))
	return w, nil
}

func (s *Admin) SetMaintenance(ctx context.Context, actorID int64, enabled bool, message string) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.store.SetMaintenance(ctx, enabled, message); err != nil {
		return err
	}
	s.log.Info("maintenance set", slog.Bool("enabled", enabled), slog.Int64("by", actorID))
	return nil
}

func (s *Admin) Maintenance(ctx context.Context) (storage.Maintenance, error) {
	return s.store.GetMaintenance(ctx)
}

func (s *Admin) AddPoolEntry(ctx context.Context, actorID int64, username, password string) (*pool.Entry, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.store.AddPoolEntry(ctx, username, password)
}

// ReleasePoolEntry force-returns an assigned credential to the pool.
func (s *Admin) ReleasePoolEntry(ctx context.Context, actorID, entryID int64) error {
	if err := s.requireSuper(ctx, actorID); err != nil {
		return err
	}
	if err := s.store.ReleasePoolEntry(ctx, entryID); err != nil {
		return err
	}
	s.log.Info("pool entry released", slog.Int64("entry_id", entryID), slog.Int64("by", actorID))
	return nil
}

func (s *Admin) ListPool(ctx context.Context, actorID int64) ([]pool.Entry, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.store.ListPool(ctx)
}

func (s *Admin) AddCode(ctx context.Context, actorID int64, code, note string) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.store.AddCode(ctx, code, note)
}

func (s *Admin) SetCodeActive(ctx context.Context, actorID int64, code string, active bool) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.store.SetCodeActive(ctx, code, active)
}

func (s *Admin) ListCodes(ctx context.Context, activeOnly bool) ([]storage.Code, error) {
	return s.store.ListCodes(ctx, activeOnly)
}

func (s *Admin) Stats(ctx context.Context, actorID int64) (storage.Stats, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return storage.Stats{}, err
	}
	return s.store.Stats(ctx)
}
