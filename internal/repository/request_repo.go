// internal/repository/request_repo.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"upi-wallet/internal/domain"
)

// RechargeRepository defines the data operations on recharge requests.
// Entries are append-only; the status transition is the only update.
type RechargeRepository interface {
	// CreateRecharge returns util.ErrDuplicateUTR when the UTR was used before.
	CreateRecharge(ctx context.Context, q DBExecutor, entry *domain.RechargeEntry) error
	GetRechargeByUTR(ctx context.Context, q DBExecutor, userID int64, utr string) (*domain.RechargeEntry, error)
	// TransitionRecharge moves a PENDING entry to status. It reports false
	// when the entry was no longer pending.
	TransitionRecharge(ctx context.Context, q DBExecutor, id uuid.UUID, status domain.RequestStatus, decidedAt time.Time) (bool, error)
	ListRecharges(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.RechargeEntry, int64, error)
	ListRechargesByUser(ctx context.Context, q DBExecutor, userID int64) ([]domain.RechargeEntry, error)
}

// WithdrawalRepository defines the data operations on withdrawal requests.
type WithdrawalRepository interface {
	CreateWithdrawal(ctx context.Context, q DBExecutor, entry *domain.WithdrawalEntry) error
	GetWithdrawalByID(ctx context.Context, q DBExecutor, userID int64, id uuid.UUID) (*domain.WithdrawalEntry, error)
	TransitionWithdrawal(ctx context.Context, q DBExecutor, id uuid.UUID, status domain.RequestStatus, decidedAt time.Time) (bool, error)
	ListWithdrawals(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.WithdrawalEntry, int64, error)
	ListWithdrawalsByUser(ctx context.Context, q DBExecutor, userID int64) ([]domain.WithdrawalEntry, error)
}
