// internal/validation/inputs.go
package validation

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"upi-wallet/internal/domain"
)

type SignupInput struct {
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PhoneNumber  string  `json:"phoneNumber"`
	Password     string  `json:"password"`
	ReferralCode *string `json:"referralCode,omitempty"`
}

func (in SignupInput) Validate() error {
	v := New()
	v.Required("username", in.Username)
	v.Required("name", in.Name)
	v.Email("email", in.Email)
	v.IndianPhone("phoneNumber", in.PhoneNumber)
	v.Password("password", in.Password)
	return v.Err()
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	v := New()
	v.Required("username", in.Username)
	v.MinLength("password", in.Password, MinPasswordLength)
	return v.Err()
}

// ForgotPasswordInput names the account by username or email.
type ForgotPasswordInput struct {
	Identifier string `json:"identifier"`
}

func (in ForgotPasswordInput) Validate() error {
	v := New()
	v.Required("identifier", in.Identifier)
	return v.Err()
}

// ResetPasswordInput carries the identifier (username or email) under the
// "username" key used by existing clients.
type ResetPasswordInput struct {
	Identifier  string `json:"username"`
	AccessToken string `json:"accessToken"`
	NewPassword string `json:"newPassword"`
}

func (in ResetPasswordInput) Validate() error {
	v := New()
	v.Required("username", in.Identifier)
	v.Required("accessToken", in.AccessToken)
	v.Password("newPassword", in.NewPassword)
	return v.Err()
}

type RechargeInput struct {
	Amount decimal.Decimal `json:"amount"`
	UTR    string          `json:"utr"`
}

func (in RechargeInput) Validate() error {
	v := New()
	v.PositiveAmount("amount", in.Amount)
	v.Required("utr", in.UTR)
	return v.Err()
}

type WithdrawalInput struct {
	Amount     decimal.Decimal `json:"amount"`
	UPIID      string          `json:"upiId"`
	HolderName string          `json:"holderName"`
}

func (in WithdrawalInput) Validate() error {
	v := New()
	v.PositiveAmount("amount", in.Amount)
	v.Required("upiId", in.UPIID)
	v.Required("holderName", in.HolderName)
	return v.Err()
}

type DecideRechargeInput struct {
	Username string `json:"username"`
	UTR      string `json:"utr"`
	Status   string `json:"status"`
}

// Decision validates the input and returns the parsed terminal status.
func (in DecideRechargeInput) Decision() (domain.RequestStatus, error) {
	v := New()
	v.Required("username", in.Username)
	v.Required("utr", in.UTR)
	status, ok := domain.ParseRechargeDecision(in.Status)
	v.Check(ok, "status", "must be Success or Failed")
	return status, v.Err()
}

type DecideWithdrawalInput struct {
	Username  string `json:"username"`
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

// Decision validates the input and returns the parsed request id and verdict.
func (in DecideWithdrawalInput) Decision() (uuid.UUID, domain.WithdrawalDecision, error) {
	v := New()
	v.Required("username", in.Username)
	id, err := uuid.Parse(strings.TrimSpace(in.RequestID))
	v.Check(err == nil, "requestId", "must be a valid request id")
	decision, ok := domain.ParseWithdrawalDecision(in.Status)
	v.Check(ok, "status", "must be approved or rejected")
	return id, decision, v.Err()
}

// UpdateUserInfoInput holds optional profile changes; nil fields are left alone.
type UpdateUserInfoInput struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func (in UpdateUserInfoInput) Validate() error {
	v := New()
	v.Check(in.Username != nil || in.Email != nil, "body", "at least one of username or email is required")
	if in.Username != nil {
		v.Required("username", *in.Username)
	}
	if in.Email != nil {
		v.Email("email", *in.Email)
	}
	return v.Err()
}

type AdminSignupInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	SignupKey string `json:"signupKey,omitempty"`
}

func (in AdminSignupInput) Validate() error {
	v := New()
	v.Required("username", in.Username)
	v.Email("email", in.Email)
	v.Password("password", in.Password)
	return v.Err()
}

type AdminLoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in AdminLoginInput) Validate() error {
	v := New()
	v.Email("email", in.Email)
	v.Required("password", in.Password)
	return v.Err()
}
