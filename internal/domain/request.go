// internal/domain/request.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle state of a recharge or withdrawal request.
// PENDING is the only non-terminal state.
type RequestStatus string

const (
	RequestStatusPending RequestStatus = "PENDING"
	RequestStatusSuccess RequestStatus = "SUCCESS"
	RequestStatusFailed  RequestStatus = "FAILED"
)

// IsTerminal reports whether s is a decided state.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusSuccess || s == RequestStatusFailed
}

// ParseRechargeDecision accepts "Success"/"Failed" in any case.
func ParseRechargeDecision(raw string) (RequestStatus, bool) {
	switch RequestStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case RequestStatusSuccess:
		return RequestStatusSuccess, true
	case RequestStatusFailed:
		return RequestStatusFailed, true
	}
	return "", false
}

// WithdrawalDecision is the admin verdict on a withdrawal request.
type WithdrawalDecision string

const (
	WithdrawalApproved WithdrawalDecision = "approved"
	WithdrawalRejected WithdrawalDecision = "rejected"
)

// ParseWithdrawalDecision accepts "approved"/"rejected" in any case.
func ParseWithdrawalDecision(raw string) (WithdrawalDecision, bool) {
	switch WithdrawalDecision(strings.ToLower(strings.TrimSpace(raw))) {
	case WithdrawalApproved:
		return WithdrawalApproved, true
	case WithdrawalRejected:
		return WithdrawalRejected, true
	}
	return "", false
}

// Status is the terminal request status the decision leads to.
func (d WithdrawalDecision) Status() RequestStatus {
	if d == WithdrawalApproved {
		return RequestStatusSuccess
	}
	return RequestStatusFailed
}

// RechargeEntry is a user-submitted deposit awaiting admin approval.
type RechargeEntry struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Seq       int64           `db:"seq" json:"-"`
	UserID    int64           `db:"user_id" json:"userId"`
	Username  string          `db:"username" json:"username"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	UTR       string          `db:"utr" json:"utr"`
	Status    RequestStatus   `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	DecidedAt *time.Time      `db:"decided_at" json:"decidedAt,omitempty"`
}

// NewRechargeEntry creates a pending recharge entry.
func NewRechargeEntry(userID int64, username string, amount decimal.Decimal, utr string) *RechargeEntry {
	return &RechargeEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  username,
		Amount:    amount,
		UTR:       strings.TrimSpace(utr),
		Status:    RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// WithdrawalEntry is a user-submitted payout awaiting admin approval.
type WithdrawalEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Seq        int64           `db:"seq" json:"-"`
	UserID     int64           `db:"user_id" json:"userId"`
	Username   string          `db:"username" json:"username"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	UPIID      string          `db:"upi_id" json:"upiId"`
	HolderName string          `db:"holder_name" json:"holderName"`
	Status     RequestStatus   `db:"status" json:"status"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	DecidedAt  *time.Time      `db:"decided_at" json:"decidedAt,omitempty"`
}

// NewWithdrawalEntry creates a pending withdrawal entry.
func NewWithdrawalEntry(userID int64, username string, amount decimal.Decimal, upiID, holderName string) *WithdrawalEntry {
	return &WithdrawalEntry{
		ID:         uuid.New(),
		UserID:     userID,
		Username:   username,
		Amount:     amount,
		UPIID:      strings.TrimSpace(upiID),
		HolderName: strings.TrimSpace(holderName),
		Status:     RequestStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

// History is one user's ledger view, newest entries first.
type History struct {
	Balance     decimal.Decimal   `json:"balance"`
	Recharges   []RechargeEntry   `json:"rechargeHistory"`
	Withdrawals []WithdrawalEntry `json:"withdrawalHistory"`
}
