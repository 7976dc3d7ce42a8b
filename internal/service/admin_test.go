package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/admins"
	"github.com/broichancy/eishbot/internal/storage/jsonfile"
)

const superID int64 = 1000

func setupAdmin(t *testing.T) (*jsonfile.Store, *Admin) {
	t.Helper()
	store, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err)
	return store, NewAdmin(store, superID, testLogger())
}

func TestSuperAdminAlwaysRecognized(t *testing.T) {
	ctx := context.Background()
	_, svc := setupAdmin(t)

	role, err := svc.RoleOf(ctx, superID)
	require.NoError(t, err)
	require.Equal(t, admins.RoleSuper, role)

	_, err = svc.RoleOf(ctx, 5)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestGrantRequiresSuper(t *testing.T) {
	ctx := context.Background()
	_, svc := setupAdmin(t)

	require.NoError(t, svc.Grant(ctx, superID, 5, admins.RoleAdmin))
	require.True(t, svc.IsAdmin(ctx, 5))

	// a plain admin cannot grant
	err := svc.Grant(ctx, 5, 6, admins.RoleAdmin)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	_, svc := setupAdmin(t)

	require.NoError(t, svc.Grant(ctx, superID, 5, admins.RoleAdmin))
	require.NoError(t, svc.Revoke(ctx, superID, 5))
	require.False(t, svc.IsAdmin(ctx, 5))

	err := svc.Revoke(ctx, superID, superID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestBanRequiresAdminAndSparesAdmins(t *testing.T) {
	ctx := context.Background()
	store, svc := setupAdmin(t)
	addUser(t, store, 7)

	err := svc.Ban(ctx, 7, 7, "x")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, svc.Ban(ctx, superID, 7, "spam"))
	u, err := store.GetUser(ctx, 7)
	require.NoError(t, err)
	require.True(t, u.IsBanned)
	require.Equal(t, "spam", u.BanReason)

	require.NoError(t, svc.Unban(ctx, superID, 7))
	u, err = store.GetUser(ctx, 7)
	require.NoError(t, err)
	require.False(t, u.IsBanned)

	// admins cannot be banned
	require.NoError(t, svc.Grant(ctx, superID, 8, admins.RoleAdmin))
	err = svc.Ban(ctx, superID, 8, "x")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAdjustWalletSuperOnly(t *testing.T) {
	ctx := context.Background()
	store, svc := setupAdmin(t)
	addUser(t, store, 7)
	require.NoError(t, svc.Grant(ctx, superID, 5, admins.RoleAdmin))

	_, err := svc.AdjustWallet(ctx, 5, 7, 100)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	w, err := svc.AdjustWallet(ctx, superID, 7, 100)
	require.NoError(t, err)
	require.EqualValues(t, 100, w.Balance)

	_, err = svc.AdjustWallet(ctx, superID, 7, -200)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
}

func TestMaintenanceToggle(t *testing.T) {
	ctx := context.Background()
	_, svc := setupAdmin(t)

	require.NoError(t, svc.SetMaintenance(ctx, superID, true, "عودة قريباً"))
	mnt, err := svc.Maintenance(ctx)
	require.NoError(t, err)
	require.True(t, mnt.Enabled)

	err = svc.SetMaintenance(ctx, 5, false, "")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestStatsGated(t *testing.T) {
	ctx := context.Background()
	store, svc := setupAdmin(t)
	addUser(t, store, 7)

	_, err := svc.Stats(ctx, 7)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	st, err := svc.Stats(ctx, superID)
	require.NoError(t, err)
	require.EqualValues(t, 1, st.Users)
}
