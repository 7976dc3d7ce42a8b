// Package jsonfile is the flat-file storage backend: one JSON file per
// entity under a data directory, as deployed on hosts without Postgres.
// A single mutex serializes every operation, which is enough for the
// one-update-at-a-time Telegram loop; writes go through a temp file and
// rename so a crash never leaves a half-written file behind.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/broichancy/eishbot/internal/domain/admins"
	"github.com/broichancy/eishbot/internal/domain/orders"
	"github.com/broichancy/eishbot/internal/domain/pool"
	"github.com/broichancy/eishbot/internal/domain/users"
	"github.com/broichancy/eishbot/internal/domain/wallet"
	"github.com/broichancy/eishbot/internal/storage"
)

const (
	fileUsers       = "users.json"
	fileWallets     = "balances.json"
	fileOrders      = "orders.json"
	fileEish        = "eish_accounts.json"
	filePool        = "eish_pool.json"
	fileAdmins      = "admins.json"
	fileMaintenance = "maintenance.json"
	fileCodes       = "syriatel_codes.json"
	fileDialogs     = "dialog_states.json"
)

type poolState struct {
	NextID  int64        `json:"next_id"`
	Entries []pool.Entry `json:"entries"`
}

type dialogRec struct {
	State   string          `json:"state"`
	Payload json.RawMessage `json:"payload"`
}

type Store struct {
	mu  sync.Mutex
	dir string

	users   map[string]users.User
	wallets map[string]wallet.Wallet
	orders  map[string]orderRec
	eish    map[string]users.EishAccount
	pool    poolState
	admins  map[string]admins.Grant
	mnt     storage.Maintenance
	codes   []storage.Code
	dialogs map[string]dialogRec
}

var _ storage.Store = (*Store)(nil)

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{
		dir:     dir,
		users:   map[string]users.User{},
		wallets: map[string]wallet.Wallet{},
		orders:  map[string]orderRec{},
		eish:    map[string]users.EishAccount{},
		admins:  map[string]admins.Grant{},
		dialogs: map[string]dialogRec{},
	}
	for name, v := range map[string]any{
		fileUsers:       &s.users,
		fileWallets:     &s.wallets,
		fileOrders:      &s.orders,
		fileEish:        &s.eish,
		filePool:        &s.pool,
		fileAdmins:      &s.admins,
		fileMaintenance: &s.mnt,
		fileCodes:       &s.codes,
		fileDialogs:     &s.dialogs,
	} {
		if err := s.load(name, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Close() {}

func (s *Store) load(name string, v any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}

func now() time.Time { return time.Now().UTC() }

func key(id int64) string { return fmt.Sprintf("%d", id) }

func (s *Store) Stats(ctx context.Context) (storage.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := storage.Stats{
		Users:  int64(len(s.users)),
		Orders: int64(len(s.orders)),
	}
	for _, w := range s.wallets {
		st.TotalBalance += w.Balance
		st.TotalHold += w.Hold
	}
	for _, o := range s.orders {
		switch o.Status {
		case orders.StatusPending:
			st.Pending++
		case orders.StatusApproved:
			st.Approved++
		case orders.StatusRejected:
			st.Rejected++
		case orders.StatusCanceled:
			st.Canceled++
		}
	}
	for _, e := range s.pool.Entries {
		if e.Status == pool.StatusAvailable {
			st.PoolAvailable++
		}
	}
	return st, nil
}
