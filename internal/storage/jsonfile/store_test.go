package jsonfile

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/domain/orders"
	"github.com/broichancy/eishbot/internal/domain/users"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func seedUser(t *testing.T, s *Store, id int64) {
	t.Helper()
	_, err := s.UpsertUser(context.Background(), users.User{ID: id, Username: "u"})
	require.NoError(t, err)
}

func TestWalletReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, 1)

	_, err := s.Credit(ctx, 1, 1000)
	require.NoError(t, err)

	w, err := s.Reserve(ctx, 1, 300)
	require.NoError(t, err)
	require.EqualValues(t, 700, w.Balance)
	require.EqualValues(t, 300, w.Hold)

	w, err = s.Release(ctx, 1, 300)
	require.NoError(t, err)
	require.EqualValues(t, 1000, w.Balance)
	require.EqualValues(t, 0, w.Hold)
}

func TestWalletReserveInsufficient(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, 1)

	_, err := s.Credit(ctx, 1, 100)
	require.NoError(t, err)

	_, err = s.Reserve(ctx, 1, 200)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	w, err := s.GetWallet(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 100, w.Balance)
	require.EqualValues(t, 0, w.Hold)
}

func TestWalletSettle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, 1)

	_, err := s.Credit(ctx, 1, 1000)
	require.NoError(t, err)
	_, err = s.Reserve(ctx, 1, 400)
	require.NoError(t, err)

	w, err := s.Settle(ctx, 1, 400)
	require.NoError(t, err)
	require.EqualValues(t, 600, w.Balance)
	require.EqualValues(t, 0, w.Hold)

	_, err = s.Settle(ctx, 1, 1)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestAdjustNeverNegative(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, 1)

	_, err := s.Adjust(ctx, 1, 500)
	require.NoError(t, err)

	_, err = s.Adjust(ctx, 1, -600)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	w, err := s.Adjust(ctx, 1, -500)
	require.NoError(t, err)
	require.EqualValues(t, 0, w.Balance)
}

func TestCreateWithdrawReservesAndDecide(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, 7)
	_, err := s.Credit(ctx, 7, 1000)
	require.NoError(t, err)

	o, err := s.CreateOrder(ctx, orders.Order{
		ID:      uuid.New(),
		UserID:  7,
		Type:    orders.TypeBotWithdraw,
		Amount:  300,
		Payload: orders.WithdrawPayload{ReceiverNo: "0999999999"},
	})
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, o.Status)

	w, err := s.GetWallet(ctx, 7)
	require.NoError(t, err)
	require.EqualValues(t, 700, w.Balance)
	require.EqualValues(t, 300, w.Hold)

	decided, err := s.DecideOrder(ctx, o.ID, 99, orders.StatusApproved,
		orders.DecisionEffect(o.Type, orders.StatusApproved))
	require.NoError(t, err)
	require.Equal(t, orders.StatusApproved, decided.Status)
	require.NotNil(t, decided.AdminID)
	require.EqualValues(t, 99, *decided.AdminID)

	w, err = s.GetWallet(ctx, 7)
	require.NoError(t, err)
	require.EqualValues(t, 700, w.Balance)
	require.EqualValues(t, 0, w.Hold)
}

func TestDecideOrderIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, 7)

	o, err := s.CreateOrder(ctx, orders.Order{
		ID:      uuid.New(),
		UserID:  7,
		Type:    orders.TypeBotTopup,
		Amount:  500,
		Payload: orders.TopupPayload{OperationNo: "123456"},
	})
	require.NoError(t, err)

	_, err = s.DecideOrder(ctx, o.ID, 1, orders.StatusApproved, orders.EffectCredit)
	require.NoError(t, err)

	_, err = s.DecideOrder(ctx, o.ID, 2, orders.StatusRejected, orders.EffectNone)
	require.ErrorIs(t, err, apperrors.ErrAlreadyDecided)

	w, err := s.GetWallet(ctx, 7)
	require.NoError(t, err)
	require.EqualValues(t, 500, w.Balance)
}

func TestRejectReleasesHold(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, 3)
	_, err := s.Credit(ctx, 3, 1000)
	require.NoError(t, err)

	o, err := s.CreateOrder(ctx, orders.Order{
		ID:      uuid.New(),
		UserID:  3,
		Type:    orders.TypeEishWithdraw,
		Amount:  250,
		Payload: orders.EishPayload{Username: "player1"},
	})
	require.NoError(t, err)

	_, err = s.DecideOrder(ctx, o.ID, 1, orders.StatusRejected,
		orders.DecisionEffect(o.Type, orders.StatusRejected))
	require.NoError(t, err)

	w, err := s.GetWallet(ctx, 3)
	require.NoError(t, err)
	require.EqualValues(t, 1000, w.Balance)
	require.EqualValues(t, 0, w.Hold)
}

func TestCreateOrderRollbackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	seedUser(t, s, 7)
	_, err = s.Credit(ctx, 7, 1000)
	require.NoError(t, err)

	// removing the directory makes every file write fail
	require.NoError(t, os.RemoveAll(dir))

	id := uuid.New()
	_, err = s.CreateOrder(ctx, orders.Order{
		ID:      id,
		UserID:  7,
		Type:    orders.TypeBotWithdraw,
		Amount:  300,
		Payload: orders.WithdrawPayload{ReceiverNo: "0999999999"},
	})
	require.Error(t, err)

	// neither the order nor the hold survives a failed write
	_, err = s.GetOrder(ctx, id)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	w, err := s.GetWallet(ctx, 7)
	require.NoError(t, err)
	require.EqualValues(t, 1000, w.Balance)
	require.EqualValues(t, 0, w.Hold)

	require.NoError(t, os.MkdirAll(dir, 0o755))
	_, err = s.CreateOrder(ctx, orders.Order{
		ID:      id,
		UserID:  7,
		Type:    orders.TypeBotWithdraw,
		Amount:  300,
		Payload: orders.WithdrawPayload{ReceiverNo: "0999999999"},
	})
	require.NoError(t, err)

	w, err = s.GetWallet(ctx, 7)
	require.NoError(t, err)
	require.EqualValues(t, 700, w.Balance)
	require.EqualValues(t, 300, w.Hold)
}

func TestDecideOrderRollbackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	seedUser(t, s, 7)
	_, err = s.Credit(ctx, 7, 1000)
	require.NoError(t, err)

	o, err := s.CreateOrder(ctx, orders.Order{
		ID:      uuid.New(),
		UserID:  7,
		Type:    orders.TypeBotWithdraw,
		Amount:  300,
		Payload: orders.WithdrawPayload{ReceiverNo: "0999999999"},
	})
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))

	_, err = s.DecideOrder(ctx, o.ID, 99, orders.StatusApproved, orders.EffectSettle)
	require.Error(t, err)
	require.NotErrorIs(t, err, apperrors.ErrAlreadyDecided)

	// the order is still pending and the hold is untouched
	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, got.Status)
	w, err := s.GetWallet(ctx, 7)
	require.NoError(t, err)
	require.EqualValues(t, 700, w.Balance)
	require.EqualValues(t, 300, w.Hold)

	// a retry after the fault clears settles exactly once
	require.NoError(t, os.MkdirAll(dir, 0o755))
	decided, err := s.DecideOrder(ctx, o.ID, 99, orders.StatusApproved, orders.EffectSettle)
	require.NoError(t, err)
	require.Equal(t, orders.StatusApproved, decided.Status)

	w, err = s.GetWallet(ctx, 7)
	require.NoError(t, err)
	require.EqualValues(t, 700, w.Balance)
	require.EqualValues(t, 0, w.Hold)
}

func TestPoolFIFOAndExhaustion(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first, err := s.AddPoolEntry(ctx, "acc1", "p1")
	require.NoError(t, err)
	_, err = s.AddPoolEntry(ctx, "acc2", "p2")
	require.NoError(t, err)

	got, err := s.AcquirePoolEntry(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, "acc1", got.Username)

	_, err = s.AcquirePoolEntry(ctx, 11)
	require.NoError(t, err)

	_, err = s.AcquirePoolEntry(ctx, 12)
	require.ErrorIs(t, err, apperrors.ErrPoolExhausted)

	require.NoError(t, s.ReleasePoolEntry(ctx, first.ID))
	again, err := s.AcquirePoolEntry(ctx, 12)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	seedUser(t, s, 5)
	_, err = s.Credit(ctx, 5, 777)
	require.NoError(t, err)
	o, err := s.CreateOrder(ctx, orders.Order{
		ID:      uuid.New(),
		UserID:  5,
		Type:    orders.TypeBotTopup,
		Amount:  100,
		Payload: orders.TopupPayload{OperationNo: "42"},
	})
	require.NoError(t, err)

	reopened, err := Open(dir)
	require.NoError(t, err)

	w, err := reopened.GetWallet(ctx, 5)
	require.NoError(t, err)
	require.EqualValues(t, 777, w.Balance)

	got, err := reopened.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, got.Status)
	p, ok := got.Payload.(orders.TopupPayload)
	require.True(t, ok)
	require.Equal(t, "42", p.OperationNo)
}

func TestEishAccountSoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, 9)

	require.NoError(t, s.SetEishAccount(ctx, 9, "player9", "secret"))
	acc, err := s.GetEishAccount(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, "player9", acc.Username)

	require.NoError(t, s.RemoveEishAccount(ctx, 9))
	_, err = s.GetEishAccount(ctx, 9)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, s.SetEishAccount(ctx, 9, "player9b", "secret2"))
	acc, err = s.GetEishAccount(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, "player9b", acc.Username)
}

func TestMaintenanceDefaultOff(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	mnt, err := s.GetMaintenance(ctx)
	require.NoError(t, err)
	require.False(t, mnt.Enabled)

	require.NoError(t, s.SetMaintenance(ctx, true, "قريباً"))
	mnt, err = s.GetMaintenance(ctx)
	require.NoError(t, err)
	require.True(t, mnt.Enabled)
	require.Equal(t, "قريباً", mnt.Message)
}
