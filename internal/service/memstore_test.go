// internal/service/memstore_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"upi-wallet/internal/domain"
	"upi-wallet/internal/repository"
	"upi-wallet/internal/util"
	"upi-wallet/pkg/db"
)

var errNotSQL = errors.New("memstore: raw SQL is not supported")

// memState is the data held by memStore.
type memState struct {
	nextUserID  int64
	nextAdminID int64
	nextSeq     int64
	users       map[int64]domain.User
	recharges   []domain.RechargeEntry
	withdrawals []domain.WithdrawalEntry
	admins      []domain.Admin
}

func (st *memState) clone() *memState {
	c := *st
	c.users = make(map[int64]domain.User, len(st.users))
	for id, u := range st.users {
		c.users[id] = u
	}
	c.recharges = append([]domain.RechargeEntry(nil), st.recharges...)
	c.withdrawals = append([]domain.WithdrawalEntry(nil), st.withdrawals...)
	c.admins = append([]domain.Admin(nil), st.admins...)
	return &c
}

// memStore is an in-memory stand-in for PostgreSQL. A transaction holds the
// store mutex from begin to commit/rollback, which serializes writers the way
// row locks do, and rollback restores the snapshot taken at begin.
type memStore struct {
	mu    sync.Mutex
	state *memState
}

func newMemStore() *memStore {
	return &memStore{state: &memState{users: map[int64]domain.User{}}}
}

type memTx struct {
	store *memStore
	snap  *memState
	done  bool
}

func (s *memStore) begin(ctx context.Context, _ db.DBTxBeginner) (db.TxController, error) {
	s.mu.Lock()
	return &memTx{store: s, snap: s.state.clone()}, nil
}

func (tx *memTx) Commit() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.done = true
	tx.store.mu.Unlock()
	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		return sql.ErrTxDone
	}
	tx.store.state = tx.snap
	tx.done = true
	tx.store.mu.Unlock()
	return nil
}

// The store and its transactions satisfy the executor interfaces so they can
// be handed to services; repositories below never issue SQL through them.
func (s *memStore) BeginTxx(context.Context, *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, errNotSQL
}
func (s *memStore) GetContext(context.Context, interface{}, string, ...interface{}) error {
	return errNotSQL
}
func (s *memStore) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	return errNotSQL
}
func (s *memStore) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNotSQL
}
func (s *memStore) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}
func (tx *memTx) GetContext(context.Context, interface{}, string, ...interface{}) error {
	return errNotSQL
}
func (tx *memTx) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	return errNotSQL
}
func (tx *memTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNotSQL
}
func (tx *memTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

// with runs fn against the live state, taking the mutex unless q is a
// transaction that already holds it.
func (s *memStore) with(q repository.DBExecutor, fn func(st *memState) error) error {
	if _, inTx := q.(*memTx); !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.state)
}

func commitMem(tx db.TxController) error { return tx.Commit() }

func rollbackMem(tx db.TxController) { _ = tx.Rollback() }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedUser inserts a user with the given balance directly.
func (s *memStore) seedUser(username string, balance decimal.Decimal) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextUserID++
	id := s.state.nextUserID
	u := domain.NewUser(username, username, username+"@example.com", fmt.Sprintf("98765%05d", id), "hash", nil)
	u.ID = id
	u.Balance = balance
	s.state.users[u.ID] = *u
	return *u
}

func (s *memStore) balance(id int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.users[id].Balance
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	return r.store.with(q, func(st *memState) error {
		for _, u := range st.users {
			switch {
			case u.Username == user.Username:
				return util.ErrUsernameTaken
			case u.Email == user.Email:
				return util.ErrEmailTaken
			case u.PhoneNumber == user.PhoneNumber:
				return util.ErrPhoneTaken
			}
		}
		st.nextUserID++
		user.ID = st.nextUserID
		st.users[user.ID] = *user
		return nil
	})
}

func (r *memUserRepo) find(q repository.DBExecutor, match func(domain.User) bool) (*domain.User, error) {
	var found *domain.User
	err := r.store.with(q, func(st *memState) error {
		for _, u := range st.users {
			if match(u) {
				u := u
				found = &u
				return nil
			}
		}
		return util.ErrUserNotFound
	})
	return found, err
}

func (r *memUserRepo) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	return r.find(q, func(u domain.User) bool { return u.ID == id })
}

func (r *memUserRepo) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	return r.find(q, func(u domain.User) bool { return u.Username == username })
}

func (r *memUserRepo) LockUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	return r.GetUserByID(ctx, q, id)
}

func (r *memUserRepo) LockUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	return r.GetUserByUsername(ctx, q, username)
}

func (r *memUserRepo) LockUserByIdentifier(ctx context.Context, q repository.DBExecutor, identifier string) (*domain.User, error) {
	if u, err := r.GetUserByUsername(ctx, q, identifier); err == nil {
		return u, nil
	}
	email := strings.ToLower(identifier)
	return r.find(q, func(u domain.User) bool { return u.Email == email })
}

func (r *memUserRepo) ListUsers(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.User, int64, error) {
	var all []domain.User
	_ = r.store.with(q, func(st *memState) error {
		for _, u := range st.users {
			all = append(all, u)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *memUserRepo) UpdateUserInfo(ctx context.Context, q repository.DBExecutor, id int64, username, email *string) (*domain.User, error) {
	var updated domain.User
	err := r.store.with(q, func(st *memState) error {
		u, ok := st.users[id]
		if !ok {
			return util.ErrUserNotFound
		}
		for _, other := range st.users {
			if other.ID == id {
				continue
			}
			if username != nil && other.Username == *username {
				return util.ErrUsernameTaken
			}
			if email != nil && other.Email == *email {
				return util.ErrEmailTaken
			}
		}
		if username != nil {
			u.Username = *username
		}
		if email != nil {
			u.Email = *email
		}
		st.users[id] = u
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *memUserRepo) AdjustBalance(ctx context.Context, q repository.DBExecutor, id int64, delta decimal.Decimal, allowNegative bool) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.store.with(q, func(st *memState) error {
		u, ok := st.users[id]
		if !ok {
			return util.ErrUserNotFound
		}
		next := u.Balance.Add(delta)
		if !allowNegative && next.IsNegative() {
			return util.ErrBalanceTooLow
		}
		u.Balance = next
		st.users[id] = u
		balance = next
		return nil
	})
	return balance, err
}

func (r *memUserRepo) SetResetToken(ctx context.Context, q repository.DBExecutor, id int64, token string, expiresAt time.Time) error {
	return r.store.with(q, func(st *memState) error {
		u, ok := st.users[id]
		if !ok {
			return util.ErrUserNotFound
		}
		u.ResetToken = &token
		u.ResetTokenExpiry = &expiresAt
		st.users[id] = u
		return nil
	})
}

func (r *memUserRepo) ConsumeResetToken(ctx context.Context, q repository.DBExecutor, id int64, token, passwordHash string) (bool, error) {
	consumed := false
	err := r.store.with(q, func(st *memState) error {
		u, ok := st.users[id]
		if !ok || u.ResetToken == nil || *u.ResetToken != token {
			return nil
		}
		u.PasswordHash = passwordHash
		u.ResetToken = nil
		u.ResetTokenExpiry = nil
		st.users[id] = u
		consumed = true
		return nil
	})
	return consumed, err
}

type memRechargeRepo struct{ store *memStore }

func (r *memRechargeRepo) CreateRecharge(ctx context.Context, q repository.DBExecutor, entry *domain.RechargeEntry) error {
	return r.store.with(q, func(st *memState) error {
		for _, e := range st.recharges {
			if e.UTR == entry.UTR {
				return util.ErrDuplicateUTR
			}
		}
		st.nextSeq++
		entry.Seq = st.nextSeq
		st.recharges = append(st.recharges, *entry)
		return nil
	})
}

func (r *memRechargeRepo) GetRechargeByUTR(ctx context.Context, q repository.DBExecutor, userID int64, utr string) (*domain.RechargeEntry, error) {
	var found *domain.RechargeEntry
	err := r.store.with(q, func(st *memState) error {
		for _, e := range st.recharges {
			if e.UserID == userID && e.UTR == utr {
				e := e
				found = &e
				return nil
			}
		}
		return util.ErrEntryNotFound
	})
	return found, err
}

func (r *memRechargeRepo) TransitionRecharge(ctx context.Context, q repository.DBExecutor, id uuid.UUID, status domain.RequestStatus, decidedAt time.Time) (bool, error) {
	swapped := false
	err := r.store.with(q, func(st *memState) error {
		for i := range st.recharges {
			if st.recharges[i].ID == id && st.recharges[i].Status == domain.RequestStatusPending {
				st.recharges[i].Status = status
				st.recharges[i].DecidedAt = &decidedAt
				swapped = true
			}
		}
		return nil
	})
	return swapped, err
}

func (r *memRechargeRepo) ListRecharges(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.RechargeEntry, int64, error) {
	var all []domain.RechargeEntry
	_ = r.store.with(q, func(st *memState) error {
		all = append(all, st.recharges...)
		return nil
	})
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Seq < all[j].Seq
	})
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *memRechargeRepo) ListRechargesByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.RechargeEntry, error) {
	all, _, _ := r.ListRecharges(ctx, q, 1<<30, 0)
	out := []domain.RechargeEntry{}
	for _, e := range all {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memWithdrawalRepo struct{ store *memStore }

func (r *memWithdrawalRepo) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, entry *domain.WithdrawalEntry) error {
	return r.store.with(q, func(st *memState) error {
		st.nextSeq++
		entry.Seq = st.nextSeq
		st.withdrawals = append(st.withdrawals, *entry)
		return nil
	})
}

func (r *memWithdrawalRepo) GetWithdrawalByID(ctx context.Context, q repository.DBExecutor, userID int64, id uuid.UUID) (*domain.WithdrawalEntry, error) {
	var found *domain.WithdrawalEntry
	err := r.store.with(q, func(st *memState) error {
		for _, e := range st.withdrawals {
			if e.UserID == userID && e.ID == id {
				e := e
				found = &e
				return nil
			}
		}
		return util.ErrEntryNotFound
	})
	return found, err
}

func (r *memWithdrawalRepo) TransitionWithdrawal(ctx context.Context, q repository.DBExecutor, id uuid.UUID, status domain.RequestStatus, decidedAt time.Time) (bool, error) {
	swapped := false
	err := r.store.with(q, func(st *memState) error {
		for i := range st.withdrawals {
			if st.withdrawals[i].ID == id && st.withdrawals[i].Status == domain.RequestStatusPending {
				st.withdrawals[i].Status = status
				st.withdrawals[i].DecidedAt = &decidedAt
				swapped = true
			}
		}
		return nil
	})
	return swapped, err
}

func (r *memWithdrawalRepo) ListWithdrawals(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.WithdrawalEntry, int64, error) {
	var all []domain.WithdrawalEntry
	_ = r.store.with(q, func(st *memState) error {
		all = append(all, st.withdrawals...)
		return nil
	})
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Seq < all[j].Seq
	})
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *memWithdrawalRepo) ListWithdrawalsByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.WithdrawalEntry, error) {
	all, _, _ := r.ListWithdrawals(ctx, q, 1<<30, 0)
	out := []domain.WithdrawalEntry{}
	for _, e := range all {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memAdminRepo struct{ store *memStore }

func (r *memAdminRepo) CreateAdmin(ctx context.Context, q repository.DBExecutor, admin *domain.Admin) error {
	return r.store.with(q, func(st *memState) error {
		for _, a := range st.admins {
			if a.Email == admin.Email {
				return util.ErrAdminEmailTaken
			}
		}
		st.nextAdminID++
		admin.ID = st.nextAdminID
		st.admins = append(st.admins, *admin)
		return nil
	})
}

func (r *memAdminRepo) GetAdminByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.Admin, error) {
	var found *domain.Admin
	err := r.store.with(q, func(st *memState) error {
		for _, a := range st.admins {
			if a.Email == strings.ToLower(email) {
				a := a
				found = &a
				return nil
			}
		}
		return util.ErrAdminNotFound
	})
	return found, err
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
