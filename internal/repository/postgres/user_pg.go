// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"upi-wallet/internal/domain"
	"upi-wallet/internal/repository"
	"upi-wallet/internal/util"
)

const userColumns = `id, username, name, email, phone_number, password_hash, referral_code,
	balance, reset_token, reset_token_expiry, created_at, updated_at`

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository. Methods receive their
// DBExecutor per call so the same repository serves pooled and transactional work.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (username, name, email, phone_number, password_hash, referral_code, balance, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		user.Username,
		user.Name,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.ReferralCode,
		user.Balance,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if mapped := userConflict(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	return r.getOne(ctx, q, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
func (r *UserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	return r.getOne(ctx, q, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) LockUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	return r.getOne(ctx, q, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *UserRepository) LockUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	return r.getOne(ctx, q, `SELECT `+userColumns+` FROM users WHERE username = $1 FOR UPDATE`, username)
}

// LockUserByIdentifier prefers a username match over an email match.
func (r *UserRepository) LockUserByIdentifier(ctx context.Context, q repository.DBExecutor, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE username = $1 OR email = LOWER($1)
		ORDER BY (username = $1) DESC
		LIMIT 1
		FOR UPDATE`
	return r.getOne(ctx, q, query, identifier)
}

func (r *UserRepository) getOne(ctx context.Context, q repository.DBExecutor, query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	if err := q.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by %v: %w", arg, err)
	}
	return &user, nil
}

// ListUsers retrieves a page of users ordered by signup time, newest first,
// together with the total count.
func (r *UserRepository) ListUsers(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.User, int64, error) {
	users := []domain.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return users, total, nil
}

// UpdateUserInfo applies the non-nil profile fields and returns the updated row.
func (r *UserRepository) UpdateUserInfo(ctx context.Context, q repository.DBExecutor, id int64, username, email *string) (*domain.User, error) {
	var user domain.User
	query := `UPDATE users
		SET username = COALESCE($2, username), email = COALESCE($3, email), updated_at = $4
		WHERE id = $1
		RETURNING ` + userColumns
	err := q.GetContext(ctx, &user, query, id, username, email, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrUserNotFound
		}
		if mapped := userConflict(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return &user, nil
}

// AdjustBalance updates the balance of a specific user using the provided DBExecutor.
func (r *UserRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, id int64, delta decimal.Decimal, allowNegative bool) (decimal.Decimal, error) {
	query := `UPDATE users SET balance = balance + $2, updated_at = $3 WHERE id = $1 RETURNING balance`
	if !allowNegative {
		query = `UPDATE users SET balance = balance + $2, updated_at = $3
			WHERE id = $1 AND balance + $2 >= 0 RETURNING balance`
	}

	var balance decimal.Decimal
	err := q.QueryRowContext(ctx, query, id, delta, time.Now().UTC()).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("failed to update balance for user %d: %w", id, err)
	}
	if allowNegative {
		return decimal.Zero, util.ErrUserNotFound
	}
	if _, err := r.GetUserByID(ctx, q, id); err != nil {
		return decimal.Zero, err
	}
	return decimal.Zero, util.ErrBalanceTooLow
}

// SetResetToken stores token and its expiry, replacing any previous token.
func (r *UserRepository) SetResetToken(ctx context.Context, q repository.DBExecutor, id int64, token string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_token = $2, reset_token_expiry = $3, updated_at = $4 WHERE id = $1`
	result, err := q.ExecContext(ctx, query, id, token, expiresAt.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store reset token for user %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after storing reset token for user %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, q repository.DBExecutor, id int64, token, passwordHash string) (bool, error) {
	query := `UPDATE users
		SET password_hash = $3, reset_token = NULL, reset_token_expiry = NULL, updated_at = $4
		WHERE id = $1 AND reset_token = $2`
	result, err := q.ExecContext(ctx, query, id, token, passwordHash, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to consume reset token for user %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected after consuming reset token for user %d: %w", id, err)
	}
	return rowsAffected == 1, nil
}

func userConflict(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case usersUsernameKey:
		return util.ErrUsernameTaken
	case usersEmailKey:
		return util.ErrEmailTaken
	case usersPhoneNumberKey:
		return util.ErrPhoneTaken
	default:
		return fmt.Errorf("unique constraint %s: %w", constraint, util.ErrConflict)
	}
}
