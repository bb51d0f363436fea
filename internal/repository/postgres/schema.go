// internal/repository/postgres/schema.go
package postgres

import (
	"context"
	"fmt"

	"upi-wallet/internal/repository"
)

// Constraint names the repositories translate into domain errors.
const (
	usersUsernameKey    = "users_username_key"
	usersEmailKey       = "users_email_key"
	usersPhoneNumberKey = "users_phone_number_key"
	rechargeUTRKey      = "recharge_requests_utr_key"
	adminsEmailKey      = "admins_email_key"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		referral_code TEXT,
		balance NUMERIC NOT NULL DEFAULT 0,
		reset_token TEXT,
		reset_token_expiry TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_phone_number_key UNIQUE (phone_number),
		CONSTRAINT users_reset_token_pair CHECK ((reset_token IS NULL) = (reset_token_expiry IS NULL))
	);`,
	`CREATE TABLE IF NOT EXISTS recharge_requests (
		id UUID PRIMARY KEY,
		seq BIGSERIAL NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id),
		amount NUMERIC NOT NULL CHECK (amount > 0),
		utr TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'SUCCESS', 'FAILED')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		decided_at TIMESTAMPTZ,
		CONSTRAINT recharge_requests_utr_key UNIQUE (utr)
	);`,
	`CREATE INDEX IF NOT EXISTS recharge_requests_user_idx ON recharge_requests (user_id, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS recharge_requests_feed_idx ON recharge_requests (created_at DESC, seq);`,
	`CREATE TABLE IF NOT EXISTS withdrawal_requests (
		id UUID PRIMARY KEY,
		seq BIGSERIAL NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id),
		amount NUMERIC NOT NULL CHECK (amount > 0),
		upi_id TEXT NOT NULL,
		holder_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'SUCCESS', 'FAILED')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		decided_at TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS withdrawal_requests_user_idx ON withdrawal_requests (user_id, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS withdrawal_requests_feed_idx ON withdrawal_requests (created_at DESC, seq);`,
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'admin',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT admins_email_key UNIQUE (email)
	);`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, q repository.DBExecutor) error {
	for _, stmt := range schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
