// internal/api/handler/mocks_test.go
package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"upi-wallet/internal/domain"
	"upi-wallet/internal/service"
	"upi-wallet/internal/validation"
)

// MockIdentityService is a mock implementation of service.IdentityService.
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) userResult(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockIdentityService) Register(ctx context.Context, in validation.SignupInput) (*domain.User, error) {
	return m.userResult(m.Called(ctx, in))
}

func (m *MockIdentityService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, username, password))
}

func (m *MockIdentityService) IssuePasswordResetToken(ctx context.Context, identifier string) (*service.ResetTicket, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResetTicket), args.Error(1)
}

func (m *MockIdentityService) ConsumeResetToken(ctx context.Context, in validation.ResetPasswordInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockIdentityService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *MockIdentityService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockIdentityService) UpdateUserInfo(ctx context.Context, id int64, in validation.UpdateUserInfoInput) (*domain.User, error) {
	return m.userResult(m.Called(ctx, id, in))
}

func (m *MockIdentityService) RegisterAdmin(ctx context.Context, in validation.AdminSignupInput) (*domain.Admin, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockIdentityService) AuthenticateAdmin(ctx context.Context, email, password string) (*domain.Admin, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

// MockLedgerService is a mock implementation of service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) SubmitRecharge(ctx context.Context, userID int64, in validation.RechargeInput) (*domain.RechargeEntry, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RechargeEntry), args.Error(1)
}

func (m *MockLedgerService) DecideRecharge(ctx context.Context, username, utr string, decision domain.RequestStatus) (*domain.RechargeEntry, decimal.Decimal, error) {
	args := m.Called(ctx, username, utr, decision)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(*domain.RechargeEntry), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedgerService) SubmitWithdrawal(ctx context.Context, userID int64, in validation.WithdrawalInput) (*domain.WithdrawalEntry, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalEntry), args.Error(1)
}

func (m *MockLedgerService) DecideWithdrawal(ctx context.Context, username string, requestID uuid.UUID, decision domain.WithdrawalDecision) (*domain.WithdrawalEntry, decimal.Decimal, error) {
	args := m.Called(ctx, username, requestID, decision)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(*domain.WithdrawalEntry), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedgerService) ListRechargeRequests(ctx context.Context, limit, offset int) ([]domain.RechargeEntry, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.RechargeEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) ListWithdrawalRequests(ctx context.Context, limit, offset int) ([]domain.WithdrawalEntry, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.WithdrawalEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) GetHistory(ctx context.Context, userID int64) (*domain.History, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.History), args.Error(1)
}

// MockPinger is a mock implementation of handler.Pinger.
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
