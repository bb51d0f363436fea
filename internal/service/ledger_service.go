// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"upi-wallet/internal/domain"
	"upi-wallet/internal/repository"
	"upi-wallet/internal/util"
	"upi-wallet/internal/validation"
	"upi-wallet/pkg/db"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// LedgerService defines the recharge/withdrawal request lifecycle and its
// effect on user balances.
type LedgerService interface {
	SubmitRecharge(ctx context.Context, userID int64, in validation.RechargeInput) (*domain.RechargeEntry, error)
	DecideRecharge(ctx context.Context, username, utr string, decision domain.RequestStatus) (*domain.RechargeEntry, decimal.Decimal, error)
	SubmitWithdrawal(ctx context.Context, userID int64, in validation.WithdrawalInput) (*domain.WithdrawalEntry, error)
	DecideWithdrawal(ctx context.Context, username string, requestID uuid.UUID, decision domain.WithdrawalDecision) (*domain.WithdrawalEntry, decimal.Decimal, error)
	ListRechargeRequests(ctx context.Context, limit, offset int) ([]domain.RechargeEntry, int64, error)
	ListWithdrawalRequests(ctx context.Context, limit, offset int) ([]domain.WithdrawalEntry, int64, error)
	GetHistory(ctx context.Context, userID int64) (*domain.History, error)
}

// LedgerConfig carries the ledger's policy switches.
type LedgerConfig struct {
	// AllowNegativeBalance lets approved withdrawals overdraw the balance.
	// When false, submissions and approvals above the balance fail with
	// util.ErrBalanceTooLow.
	AllowNegativeBalance bool
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner     db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor     repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo       repository.UserRepository
	rechargeRepo   repository.RechargeRepository
	withdrawalRepo repository.WithdrawalRepository
	beginTx        db.BeginTxFunc
	commitTx       db.CommitTxFunc
	rollbackTx     db.RollbackTxFunc
	cfg            LedgerConfig
	logger         *slog.Logger
	now            func() time.Time
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	rechargeRepo repository.RechargeRepository,
	withdrawalRepo repository.WithdrawalRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	cfg LedgerConfig,
	logger *slog.Logger,
) LedgerService {
	return &ledgerService{
		dbBeginner:     dbBeginner,
		dbExecutor:     dbExecutor,
		userRepo:       userRepo,
		rechargeRepo:   rechargeRepo,
		withdrawalRepo: withdrawalRepo,
		beginTx:        beginTx,
		commitTx:       commitTx,
		rollbackTx:     rollbackTx,
		cfg:            cfg,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SubmitRecharge appends a PENDING recharge request. The balance is untouched
// until an admin decides it.
func (s *ledgerService) SubmitRecharge(ctx context.Context, userID int64, in validation.RechargeInput) (*domain.RechargeEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("submit recharge: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("submit recharge: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.LockUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("submit recharge: failed to get user %d: %w", userID, err)
	}

	entry := domain.NewRechargeEntry(user.ID, user.Username, in.Amount, in.UTR)
	if err := s.rechargeRepo.CreateRecharge(ctx, txExecutor, entry); err != nil {
		return nil, fmt.Errorf("submit recharge: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("submit recharge: failed to commit transaction: %w", err)
	}

	s.logger.Info("recharge submitted", "user_id", user.ID, "utr", entry.UTR, "amount", entry.Amount.String())
	return entry, nil
}

// DecideRecharge moves the user's recharge identified by utr from PENDING to
// decision, crediting the amount on SUCCESS. It returns the updated entry and
// the resulting balance.
func (s *ledgerService) DecideRecharge(ctx context.Context, username, utr string, decision domain.RequestStatus) (*domain.RechargeEntry, decimal.Decimal, error) {
	if !decision.IsTerminal() {
		return nil, decimal.Zero, validation.Errors{{Field: "status", Message: "must be Success or Failed"}}
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide recharge: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("decide recharge: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.LockUserByUsername(ctx, txExecutor, username)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide recharge: failed to get user %s: %w", username, err)
	}

	entry, err := s.rechargeRepo.GetRechargeByUTR(ctx, txExecutor, user.ID, utr)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide recharge: %w", err)
	}
	if entry.Status.IsTerminal() {
		return nil, decimal.Zero, util.ErrAlreadyDecided
	}

	decidedAt := s.now()
	swapped, err := s.rechargeRepo.TransitionRecharge(ctx, txExecutor, entry.ID, decision, decidedAt)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide recharge: %w", err)
	}
	if !swapped {
		return nil, decimal.Zero, util.ErrAlreadyDecided
	}

	balance := user.Balance
	if decision == domain.RequestStatusSuccess {
		balance, err = s.userRepo.AdjustBalance(ctx, txExecutor, user.ID, entry.Amount, true)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("decide recharge: failed to credit user %d: %w", user.ID, err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide recharge: failed to commit transaction: %w", err)
	}

	entry.Status = decision
	entry.DecidedAt = &decidedAt
	s.logger.Info("recharge decided", "user_id", user.ID, "utr", entry.UTR, "status", decision, "balance", balance.String())
	return entry, balance, nil
}

// SubmitWithdrawal appends a PENDING withdrawal request.
func (s *ledgerService) SubmitWithdrawal(ctx context.Context, userID int64, in validation.WithdrawalInput) (*domain.WithdrawalEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("submit withdrawal: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("submit withdrawal: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.LockUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("submit withdrawal: failed to get user %d: %w", userID, err)
	}
	if !s.cfg.AllowNegativeBalance && user.Balance.LessThan(in.Amount) {
		return nil, util.ErrBalanceTooLow
	}

	entry := domain.NewWithdrawalEntry(user.ID, user.Username, in.Amount, in.UPIID, in.HolderName)
	if err := s.withdrawalRepo.CreateWithdrawal(ctx, txExecutor, entry); err != nil {
		return nil, fmt.Errorf("submit withdrawal: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("submit withdrawal: failed to commit transaction: %w", err)
	}

	s.logger.Info("withdrawal submitted", "user_id", user.ID, "request_id", entry.ID, "amount", entry.Amount.String())
	return entry, nil
}

// DecideWithdrawal approves or rejects the user's withdrawal requestID.
// Approval debits the amount; a failed debit leaves the request PENDING.
func (s *ledgerService) DecideWithdrawal(ctx context.Context, username string, requestID uuid.UUID, decision domain.WithdrawalDecision) (*domain.WithdrawalEntry, decimal.Decimal, error) {
	if decision != domain.WithdrawalApproved && decision != domain.WithdrawalRejected {
		return nil, decimal.Zero, validation.Errors{{Field: "status", Message: "must be approved or rejected"}}
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide withdrawal: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("decide withdrawal: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.LockUserByUsername(ctx, txExecutor, username)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide withdrawal: failed to get user %s: %w", username, err)
	}

	entry, err := s.withdrawalRepo.GetWithdrawalByID(ctx, txExecutor, user.ID, requestID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide withdrawal: %w", err)
	}
	if entry.Status.IsTerminal() {
		return nil, decimal.Zero, util.ErrAlreadyDecided
	}

	status := decision.Status()
	decidedAt := s.now()
	swapped, err := s.withdrawalRepo.TransitionWithdrawal(ctx, txExecutor, entry.ID, status, decidedAt)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide withdrawal: %w", err)
	}
	if !swapped {
		return nil, decimal.Zero, util.ErrAlreadyDecided
	}

	balance := user.Balance
	if decision == domain.WithdrawalApproved {
		balance, err = s.userRepo.AdjustBalance(ctx, txExecutor, user.ID, entry.Amount.Neg(), s.cfg.AllowNegativeBalance)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("decide withdrawal: failed to debit user %d: %w", user.ID, err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, decimal.Zero, fmt.Errorf("decide withdrawal: failed to commit transaction: %w", err)
	}

	entry.Status = status
	entry.DecidedAt = &decidedAt
	s.logger.Info("withdrawal decided", "user_id", user.ID, "request_id", entry.ID, "status", status, "balance", balance.String())
	return entry, balance, nil
}

// ListRechargeRequests returns one page of every user's recharge requests,
// newest first, and the total count.
func (s *ledgerService) ListRechargeRequests(ctx context.Context, limit, offset int) ([]domain.RechargeEntry, int64, error) {
	limit, offset = NormalizePage(limit, offset)
	entries, total, err := s.rechargeRepo.ListRecharges(ctx, s.dbExecutor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list recharge requests: %w", err)
	}
	return entries, total, nil
}

func (s *ledgerService) ListWithdrawalRequests(ctx context.Context, limit, offset int) ([]domain.WithdrawalEntry, int64, error) {
	limit, offset = NormalizePage(limit, offset)
	entries, total, err := s.withdrawalRepo.ListWithdrawals(ctx, s.dbExecutor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list withdrawal requests: %w", err)
	}
	return entries, total, nil
}

// GetHistory returns the user's balance and both request histories.
func (s *ledgerService) GetHistory(ctx context.Context, userID int64) (*domain.History, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get history: failed to get user %d: %w", userID, err)
	}
	recharges, err := s.rechargeRepo.ListRechargesByUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	withdrawals, err := s.withdrawalRepo.ListWithdrawalsByUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return &domain.History{
		Balance:     user.Balance,
		Recharges:   recharges,
		Withdrawals: withdrawals,
	}, nil
}

// NormalizePage applies the default and maximum page size and clamps a
// negative offset to zero.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
