// internal/repository/postgres/admin_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"upi-wallet/internal/domain"
	"upi-wallet/internal/repository"
	"upi-wallet/internal/util"
)

// AdminRepository implements repository.AdminRepository for PostgreSQL.
type AdminRepository struct{}

func NewAdminRepository() repository.AdminRepository {
	return &AdminRepository{}
}

func (r *AdminRepository) CreateAdmin(ctx context.Context, q repository.DBExecutor, admin *domain.Admin) error {
	query := `INSERT INTO admins (username, email, password_hash, role, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query, admin.Username, admin.Email, admin.PasswordHash, admin.Role, admin.CreatedAt).Scan(&admin.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == adminsEmailKey {
			return util.ErrAdminEmailTaken
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *AdminRepository) GetAdminByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.Admin, error) {
	var admin domain.Admin
	query := `SELECT id, username, email, password_hash, role, created_at FROM admins WHERE email = LOWER($1)`
	if err := q.GetContext(ctx, &admin, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return &admin, nil
}
