// internal/service/identity_service.go
package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"upi-wallet/internal/auth"
	"upi-wallet/internal/domain"
	"upi-wallet/internal/repository"
	"upi-wallet/internal/util"
	"upi-wallet/internal/validation"
	"upi-wallet/pkg/db"
)

const resetCodeDigits = 6

// IdentityService defines account registration, authentication and password
// reset, plus the admin account operations.
type IdentityService interface {
	Register(ctx context.Context, in validation.SignupInput) (*domain.User, error)
	// Authenticate returns nil, nil when the username is unknown or the
	// password does not match.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	IssuePasswordResetToken(ctx context.Context, identifier string) (*ResetTicket, error)
	ConsumeResetToken(ctx context.Context, in validation.ResetPasswordInput) error

	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	UpdateUserInfo(ctx context.Context, id int64, in validation.UpdateUserInfoInput) (*domain.User, error)

	RegisterAdmin(ctx context.Context, in validation.AdminSignupInput) (*domain.Admin, error)
	// AuthenticateAdmin returns nil, nil on any mismatch.
	AuthenticateAdmin(ctx context.Context, email, password string) (*domain.Admin, error)
}

// ResetTicket is the outcome of a reset request. Token is handed to the
// out-of-band delivery channel.
type ResetTicket struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Token     string    `json:"accessToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type IdentityConfig struct {
	ResetTokenTTL time.Duration
	// AdminSignupKey, when set, must accompany every admin signup.
	AdminSignupKey string
}

type identityService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	adminRepo  repository.AdminRepository
	hasher     auth.PasswordHasher
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	cfg        IdentityConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewIdentityService creates a new instance of IdentityService.
func NewIdentityService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	hasher auth.PasswordHasher,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	cfg IdentityConfig,
	logger *slog.Logger,
) IdentityService {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 15 * time.Minute
	}
	return &identityService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		hasher:     hasher,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		cfg:        cfg,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *identityService) Register(ctx context.Context, in validation.SignupInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	var referral *string
	if in.ReferralCode != nil {
		if code := strings.TrimSpace(*in.ReferralCode); code != "" {
			referral = &code
		}
	}

	user := domain.NewUser(in.Username, in.Name, in.Email, in.PhoneNumber, hash, referral)
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *identityService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return user, nil
}

// IssuePasswordResetToken stores a fresh numeric code for the account named
// by identifier, replacing any outstanding one.
func (s *identityService) IssuePasswordResetToken(ctx context.Context, identifier string) (*ResetTicket, error) {
	if err := (validation.ForgotPasswordInput{Identifier: identifier}).Validate(); err != nil {
		return nil, err
	}

	token, err := generateResetCode()
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("issue reset token: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("issue reset token: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.LockUserByIdentifier(ctx, txExecutor, strings.TrimSpace(identifier))
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}

	expiresAt := s.now().Add(s.cfg.ResetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, txExecutor, user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("issue reset token: failed to commit transaction: %w", err)
	}

	s.logger.Info("password reset token issued", "user_id", user.ID, "expires_at", expiresAt)
	return &ResetTicket{
		Username:  user.Username,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ConsumeResetToken sets a new password if in.AccessToken matches the live
// reset token. The token is cleared in the same write.
func (s *identityService) ConsumeResetToken(ctx context.Context, in validation.ResetPasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("consume reset token: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("consume reset token: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.LockUserByIdentifier(ctx, txExecutor, strings.TrimSpace(in.Identifier))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrInvalidToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	token := strings.TrimSpace(in.AccessToken)
	if user.ResetToken == nil || subtle.ConstantTimeCompare([]byte(*user.ResetToken), []byte(token)) != 1 {
		return util.ErrInvalidToken
	}
	if !user.HasLiveResetToken(s.now()) {
		return util.ErrTokenExpired
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	consumed, err := s.userRepo.ConsumeResetToken(ctx, txExecutor, user.ID, token, hash)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !consumed {
		return util.ErrInvalidToken
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("consume reset token: failed to commit transaction: %w", err)
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

func (s *identityService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *identityService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	limit, offset = NormalizePage(limit, offset)
	users, total, err := s.userRepo.ListUsers(ctx, s.dbExecutor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *identityService) UpdateUserInfo(ctx context.Context, id int64, in validation.UpdateUserInfoInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var username, email *string
	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		username = &v
	}
	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		email = &v
	}

	user, err := s.userRepo.UpdateUserInfo(ctx, s.dbExecutor, id, username, email)
	if err != nil {
		return nil, fmt.Errorf("update user info: %w", err)
	}
	return user, nil
}

func (s *identityService) RegisterAdmin(ctx context.Context, in validation.AdminSignupInput) (*domain.Admin, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.AdminSignupKey != "" &&
		subtle.ConstantTimeCompare([]byte(s.cfg.AdminSignupKey), []byte(in.SignupKey)) != 1 {
		return nil, fmt.Errorf("register admin: invalid signup key: %w", util.ErrUnauthorized)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register admin: %w", err)
	}

	admin := domain.NewAdmin(in.Username, in.Email, hash)
	if err := s.adminRepo.CreateAdmin(ctx, s.dbExecutor, admin); err != nil {
		return nil, fmt.Errorf("register admin: %w", err)
	}

	s.logger.Info("admin registered", "admin_id", admin.ID, "email", admin.Email)
	return admin, nil
}

func (s *identityService) AuthenticateAdmin(ctx context.Context, email, password string) (*domain.Admin, error) {
	admin, err := s.adminRepo.GetAdminByEmail(ctx, s.dbExecutor, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("authenticate admin: %w", err)
	}

	ok, err := s.hasher.Verify(admin.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("authenticate admin: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return admin, nil
}

// generateResetCode returns a uniformly distributed zero-padded numeric code.
func generateResetCode() (string, error) {
	upper := big.NewInt(1)
	for i := 0; i < resetCodeDigits; i++ {
		upper.Mul(upper, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%0*d", resetCodeDigits, n.Int64()), nil
}
