// internal/domain/admin.go
package domain

import (
	"strings"
	"time"
)

// Role values carried in access tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Admin is an operator account allowed to decide ledger requests.
type Admin struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// NewAdmin creates an Admin record.
func NewAdmin(username, email, passwordHash string) *Admin {
	return &Admin{
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
}
