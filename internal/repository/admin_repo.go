// internal/repository/admin_repo.go
package repository

import (
	"context"

	"upi-wallet/internal/domain"
)

// AdminRepository defines the interface for admin account operations.
type AdminRepository interface {
	// CreateAdmin returns util.ErrAdminEmailTaken on a duplicate email.
	CreateAdmin(ctx context.Context, q DBExecutor, admin *domain.Admin) error
	GetAdminByEmail(ctx context.Context, q DBExecutor, email string) (*domain.Admin, error)
}
