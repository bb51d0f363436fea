// internal/repository/user_repo.go
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"upi-wallet/internal/domain"
)

// UserRepository defines the interface for user data operations.
// Lookups that miss return util.ErrUserNotFound.
type UserRepository interface {
	// CreateUser inserts the user and sets its ID. A uniqueness violation is
	// reported as ErrUsernameTaken, ErrEmailTaken or ErrPhoneTaken.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)

	// The Lock variants take a row lock and must run inside a transaction.
	LockUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	LockUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// LockUserByIdentifier matches identifier against username or email.
	LockUserByIdentifier(ctx context.Context, q DBExecutor, identifier string) (*domain.User, error)

	ListUsers(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.User, int64, error)
	UpdateUserInfo(ctx context.Context, q DBExecutor, id int64, username, email *string) (*domain.User, error)

	// AdjustBalance adds delta to the balance and returns the new balance.
	// When allowNegative is false and the result would drop below zero it
	// returns util.ErrBalanceTooLow without changing anything.
	AdjustBalance(ctx context.Context, q DBExecutor, id int64, delta decimal.Decimal, allowNegative bool) (decimal.Decimal, error)

	SetResetToken(ctx context.Context, q DBExecutor, id int64, token string, expiresAt time.Time) error
	// ConsumeResetToken replaces the password hash and clears the token only
	// if the stored token still equals token. It reports whether a row changed.
	ConsumeResetToken(ctx context.Context, q DBExecutor, id int64, token, passwordHash string) (bool, error)
}
