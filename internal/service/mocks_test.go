// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"upi-wallet/internal/domain"
	"upi-wallet/internal/repository"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) userResult(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	return m.userResult(m.Called(ctx, q, id))
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, q, username))
}

func (m *MockUserRepository) LockUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	return m.userResult(m.Called(ctx, q, id))
}

func (m *MockUserRepository) LockUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, q, username))
}

func (m *MockUserRepository) LockUserByIdentifier(ctx context.Context, q repository.DBExecutor, identifier string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, q, identifier))
}

func (m *MockUserRepository) ListUsers(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateUserInfo(ctx context.Context, q repository.DBExecutor, id int64, username, email *string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, q, id, username, email))
}

func (m *MockUserRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, id int64, delta decimal.Decimal, allowNegative bool) (decimal.Decimal, error) {
	args := m.Called(ctx, q, id, delta, allowNegative)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, q repository.DBExecutor, id int64, token string, expiresAt time.Time) error {
	args := m.Called(ctx, q, id, token, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ConsumeResetToken(ctx context.Context, q repository.DBExecutor, id int64, token, passwordHash string) (bool, error) {
	args := m.Called(ctx, q, id, token, passwordHash)
	return args.Bool(0), args.Error(1)
}

// MockRechargeRepository is a mock implementation of repository.RechargeRepository.
type MockRechargeRepository struct {
	mock.Mock
}

func (m *MockRechargeRepository) CreateRecharge(ctx context.Context, q repository.DBExecutor, entry *domain.RechargeEntry) error {
	args := m.Called(ctx, q, entry)
	return args.Error(0)
}

func (m *MockRechargeRepository) GetRechargeByUTR(ctx context.Context, q repository.DBExecutor, userID int64, utr string) (*domain.RechargeEntry, error) {
	args := m.Called(ctx, q, userID, utr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RechargeEntry), args.Error(1)
}

func (m *MockRechargeRepository) TransitionRecharge(ctx context.Context, q repository.DBExecutor, id uuid.UUID, status domain.RequestStatus, decidedAt time.Time) (bool, error) {
	args := m.Called(ctx, q, id, status, decidedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockRechargeRepository) ListRecharges(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.RechargeEntry, int64, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]domain.RechargeEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockRechargeRepository) ListRechargesByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.RechargeEntry, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.RechargeEntry), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of repository.WithdrawalRepository.
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, entry *domain.WithdrawalEntry) error {
	args := m.Called(ctx, q, entry)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetWithdrawalByID(ctx context.Context, q repository.DBExecutor, userID int64, id uuid.UUID) (*domain.WithdrawalEntry, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalEntry), args.Error(1)
}

func (m *MockWithdrawalRepository) TransitionWithdrawal(ctx context.Context, q repository.DBExecutor, id uuid.UUID, status domain.RequestStatus, decidedAt time.Time) (bool, error) {
	args := m.Called(ctx, q, id, status, decidedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockWithdrawalRepository) ListWithdrawals(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.WithdrawalEntry, int64, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]domain.WithdrawalEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockWithdrawalRepository) ListWithdrawalsByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.WithdrawalEntry, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.WithdrawalEntry), args.Error(1)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implicitly implements repository.DBExecutor for testing purposes
// by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}
