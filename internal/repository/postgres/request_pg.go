// internal/repository/postgres/request_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"upi-wallet/internal/domain"
	"upi-wallet/internal/repository"
	"upi-wallet/internal/util"
)

const rechargeSelect = `SELECT r.id, r.seq, r.user_id, u.username, r.amount, r.utr, r.status, r.created_at, r.decided_at
	FROM recharge_requests r JOIN users u ON u.id = r.user_id`

const withdrawalSelect = `SELECT w.id, w.seq, w.user_id, u.username, w.amount, w.upi_id, w.holder_name, w.status, w.created_at, w.decided_at
	FROM withdrawal_requests w JOIN users u ON u.id = w.user_id`

// RechargeRepository implements repository.RechargeRepository for PostgreSQL.
type RechargeRepository struct{}

func NewRechargeRepository() repository.RechargeRepository {
	return &RechargeRepository{}
}

// CreateRecharge appends a recharge request. The UTR unique index rejects reuse.
func (r *RechargeRepository) CreateRecharge(ctx context.Context, q repository.DBExecutor, entry *domain.RechargeEntry) error {
	query := `INSERT INTO recharge_requests (id, user_id, amount, utr, status, created_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING seq`
	err := q.QueryRowContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Amount,
		entry.UTR,
		entry.Status,
		entry.CreatedAt,
	).Scan(&entry.Seq)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == rechargeUTRKey {
			return util.ErrDuplicateUTR
		}
		return fmt.Errorf("failed to create recharge request: %w", err)
	}
	return nil
}

func (r *RechargeRepository) GetRechargeByUTR(ctx context.Context, q repository.DBExecutor, userID int64, utr string) (*domain.RechargeEntry, error) {
	var entry domain.RechargeEntry
	err := q.GetContext(ctx, &entry, rechargeSelect+` WHERE r.user_id = $1 AND r.utr = $2`, userID, utr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get recharge request %s for user %d: %w", utr, userID, err)
	}
	return &entry, nil
}

func (r *RechargeRepository) TransitionRecharge(ctx context.Context, q repository.DBExecutor, id uuid.UUID, status domain.RequestStatus, decidedAt time.Time) (bool, error) {
	return transition(ctx, q, "recharge_requests", id, status, decidedAt)
}

// ListRecharges retrieves a paginated feed of every user's recharge requests.
// It performs two queries: one for the data and one for the total count.
func (r *RechargeRepository) ListRecharges(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.RechargeEntry, int64, error) {
	entries := []domain.RechargeEntry{}
	query := rechargeSelect + ` ORDER BY r.created_at DESC, r.seq ASC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &entries, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch recharge requests: %w", err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM recharge_requests`); err != nil {
		return nil, 0, fmt.Errorf("failed to count recharge requests: %w", err)
	}
	return entries, total, nil
}

func (r *RechargeRepository) ListRechargesByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.RechargeEntry, error) {
	entries := []domain.RechargeEntry{}
	query := rechargeSelect + ` WHERE r.user_id = $1 ORDER BY r.created_at DESC, r.seq ASC`
	if err := q.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch recharge requests for user %d: %w", userID, err)
	}
	return entries, nil
}

// WithdrawalRepository implements repository.WithdrawalRepository for PostgreSQL.
type WithdrawalRepository struct{}

func NewWithdrawalRepository() repository.WithdrawalRepository {
	return &WithdrawalRepository{}
}

func (r *WithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, entry *domain.WithdrawalEntry) error {
	query := `INSERT INTO withdrawal_requests (id, user_id, amount, upi_id, holder_name, status, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING seq`
	err := q.QueryRowContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Amount,
		entry.UPIID,
		entry.HolderName,
		entry.Status,
		entry.CreatedAt,
	).Scan(&entry.Seq)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	return nil
}

func (r *WithdrawalRepository) GetWithdrawalByID(ctx context.Context, q repository.DBExecutor, userID int64, id uuid.UUID) (*domain.WithdrawalEntry, error) {
	var entry domain.WithdrawalEntry
	err := q.GetContext(ctx, &entry, withdrawalSelect+` WHERE w.user_id = $1 AND w.id = $2`, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal request %s for user %d: %w", id, userID, err)
	}
	return &entry, nil
}

func (r *WithdrawalRepository) TransitionWithdrawal(ctx context.Context, q repository.DBExecutor, id uuid.UUID, status domain.RequestStatus, decidedAt time.Time) (bool, error) {
	return transition(ctx, q, "withdrawal_requests", id, status, decidedAt)
}

func (r *WithdrawalRepository) ListWithdrawals(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.WithdrawalEntry, int64, error) {
	entries := []domain.WithdrawalEntry{}
	query := withdrawalSelect + ` ORDER BY w.created_at DESC, w.seq ASC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &entries, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch withdrawal requests: %w", err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM withdrawal_requests`); err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawal requests: %w", err)
	}
	return entries, total, nil
}

func (r *WithdrawalRepository) ListWithdrawalsByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.WithdrawalEntry, error) {
	entries := []domain.WithdrawalEntry{}
	query := withdrawalSelect + ` WHERE w.user_id = $1 ORDER BY w.created_at DESC, w.seq ASC`
	if err := q.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch withdrawal requests for user %d: %w", userID, err)
	}
	return entries, nil
}

// transition is the compare-and-swap on status shared by both request tables.
// table is always one of the package's own constants.
func transition(ctx context.Context, q repository.DBExecutor, table string, id uuid.UUID, status domain.RequestStatus, decidedAt time.Time) (bool, error) {
	query := `UPDATE ` + table + ` SET status = $2, decided_at = $3 WHERE id = $1 AND status = 'PENDING'`
	result, err := q.ExecContext(ctx, query, id, status, decidedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to update %s status for %s: %w", table, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected after updating %s status for %s: %w", table, id, err)
	}
	return rowsAffected == 1, nil
}
