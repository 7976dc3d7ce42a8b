package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/orders"
	"github.com/broichancy/eishbot/internal/domain/users"
	"github.com/broichancy/eishbot/internal/storage/jsonfile"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testSuperID int64 = 42

func setup(t *testing.T) (*jsonfile.Store, *Orders) {
	t.Helper()
	store, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err)
	admin := NewAdmin(store, testSuperID, testLogger())
	svc := NewOrders(store, Limits{MinTopup: 100, MinWithdraw: 200}, admin, testLogger())
	return store, svc
}

func addUser(t *testing.T, store *jsonfile.Store, id int64) {
	t.Helper()
	_, err := store.UpsertUser(context.Background(), users.User{ID: id})
	require.NoError(t, err)
}

func TestCreateTopupBelowMinimum(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)

	_, err := svc.CreateTopup(ctx, 1, 50, "123456")
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestMaintenanceBlocksCreation(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)
	require.NoError(t, store.SetMaintenance(ctx, true, ""))

	_, err := svc.CreateTopup(ctx, 1, 500, "123456")
	require.ErrorIs(t, err, apperrors.ErrMaintenanceActive)
}

func TestMaintenanceBlocksCancel(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)
	_, err := store.Credit(ctx, 1, 1000)
	require.NoError(t, err)

	o, err := svc.CreateWithdraw(ctx, 1, 300, "0999999999")
	require.NoError(t, err)

	require.NoError(t, store.SetMaintenance(ctx, true, ""))

	_, err = svc.Cancel(ctx, 1, o.ID)
	require.ErrorIs(t, err, apperrors.ErrMaintenanceActive)

	// the hold stays in place and the order stays pending
	w, err := store.GetWallet(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 700, w.Balance)
	require.EqualValues(t, 300, w.Hold)

	got, err := store.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, got.Status)
}

func TestBannedUserBlocked(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)
	require.NoError(t, store.SetBanned(ctx, 1, true, "spam"))

	_, err := svc.CreateTopup(ctx, 1, 500, "123456")
	require.ErrorIs(t, err, apperrors.ErrBanned)
}

func TestOnePendingPerType(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)

	_, err := svc.CreateTopup(ctx, 1, 500, "111111")
	require.NoError(t, err)

	_, err = svc.CreateTopup(ctx, 1, 600, "222222")
	require.ErrorIs(t, err, apperrors.ErrOrderLimit)

	// a different type is still allowed
	_, err = store.Credit(ctx, 1, 1000)
	require.NoError(t, err)
	_, err = svc.CreateWithdraw(ctx, 1, 300, "0999999999")
	require.NoError(t, err)
}

func TestApproveTopupCreditsWallet(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)

	o, err := svc.CreateTopup(ctx, 1, 500, "111111")
	require.NoError(t, err)

	d, err := svc.Approve(ctx, 42, o.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusApproved, d.Order.Status)
	require.Nil(t, d.Credentials)

	w, err := store.GetWallet(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 500, w.Balance)
}

func TestCancelWithdrawReleasesHold(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)
	_, err := store.Credit(ctx, 1, 1000)
	require.NoError(t, err)

	o, err := svc.CreateWithdraw(ctx, 1, 300, "0999999999")
	require.NoError(t, err)

	w, err := store.GetWallet(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 300, w.Hold)

	_, err = svc.Cancel(ctx, 1, o.ID)
	require.NoError(t, err)

	w, err = store.GetWallet(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1000, w.Balance)
	require.EqualValues(t, 0, w.Hold)
}

func TestCancelForeignOrderRefused(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)
	addUser(t, store, 2)

	o, err := svc.CreateTopup(ctx, 1, 500, "111111")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, 2, o.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestEishCreateConsumesPool(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)
	_, err := store.AddPoolEntry(ctx, "acc1", "p1")
	require.NoError(t, err)

	o, err := svc.CreateEishAccount(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 0, o.Amount)

	d, err := svc.Approve(ctx, 42, o.ID)
	require.NoError(t, err)
	require.NotNil(t, d.Credentials)
	require.Equal(t, "acc1", d.Credentials.Username)

	acc, err := store.GetEishAccount(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "acc1", acc.Username)

	// a second request is refused once the account exists
	_, err = svc.CreateEishAccount(ctx, 1)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestEishCreatePoolExhaustedStaysPending(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)

	o, err := svc.CreateEishAccount(ctx, 1)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, 42, o.ID)
	require.ErrorIs(t, err, apperrors.ErrPoolExhausted)

	got, err := store.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, got.Status)
}

func TestEishTopupRequiresLinkedAccount(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)

	_, err := svc.CreateEishTopup(ctx, 1, 500)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, store.SetEishAccount(ctx, 1, "player1", "pw"))
	o, err := svc.CreateEishTopup(ctx, 1, 500)
	require.NoError(t, err)
	p, ok := o.Payload.(orders.EishPayload)
	require.True(t, ok)
	require.Equal(t, "player1", p.Username)
}

func TestDecisionRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)
	addUser(t, store, 7)

	o, err := svc.CreateTopup(ctx, 1, 500, "111111")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, 7, o.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = svc.Reject(ctx, 7, o.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	got, err := store.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, got.Status)
}

func TestDoubleApproveRefused(t *testing.T) {
	ctx := context.Background()
	store, svc := setup(t)
	addUser(t, store, 1)

	o, err := svc.CreateTopup(ctx, 1, 500, "111111")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, 42, o.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, 42, o.ID)
	require.ErrorIs(t, err, apperrors.ErrAlreadyDecided)
	_, err = svc.Reject(ctx, 42, o.ID)
	require.ErrorIs(t, err, apperrors.ErrAlreadyDecided)

	w, err := store.GetWallet(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 500, w.Balance)
}
