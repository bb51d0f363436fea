// internal/api/handler/user.go
package handler

import (
	"log/slog"
	"net/http"

	"upi-wallet/internal/api/respond"
	"upi-wallet/internal/domain"
	"upi-wallet/internal/service"
	"upi-wallet/internal/util"
	"upi-wallet/internal/validation"
)

// UserHandler handles HTTP requests made by wallet users.
type UserHandler struct {
	identity service.IdentityService
	ledger   service.LedgerService
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(identity service.IdentityService, ledger service.LedgerService, tokens TokenIssuer, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		identity: identity,
		ledger:   ledger,
		tokens:   tokens,
		logger:   logger,
	}
}

// Signup registers a user and logs them in.
// POST /user/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in validation.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	user, err := h.identity.Register(r.Context(), in)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Username, domain.RoleUser)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "success.user_signup", map[string]any{
		"user":         user,
		"access_token": token,
	})
}

// Login exchanges a username and password for an access token.
// POST /user/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in validation.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	if err := in.Validate(); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	user, err := h.identity.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	if user == nil {
		respond.Error(w, h.logger, util.ErrInvalidCredential)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Username, domain.RoleUser)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.user_login", map[string]any{
		"user":         user,
		"access_token": token,
	})
}

// ForgotPassword issues a reset code for the account named by username or email.
// POST /user/forgot-password
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in validation.ForgotPasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	ticket, err := h.identity.IssuePasswordResetToken(r.Context(), in.Identifier)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.forgot_password", ticket)
}

// ResetPassword sets a new password using a live reset code.
// POST /user/reset-login-password
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in validation.ResetPasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	if err := h.identity.ConsumeResetToken(r.Context(), in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.reset_password", nil)
}

// Me returns the caller's profile.
// GET /user/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFrom(r)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	user, err := h.identity.GetUser(r.Context(), userID)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.user_profile", map[string]any{"user": user})
}

// UpdateInfo changes the caller's username and/or email.
// PATCH /user/info
func (h *UserHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFrom(r)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	var in validation.UpdateUserInfoInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	user, err := h.identity.UpdateUserInfo(r.Context(), userID, in)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.user_updated", map[string]any{"user": user})
}

// Recharge submits a pending recharge request.
// POST /user/recharge
func (h *UserHandler) Recharge(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFrom(r)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	var in validation.RechargeInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	entry, err := h.ledger.SubmitRecharge(r.Context(), userID, in)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "success.recharge_submitted", map[string]any{"request": entry})
}

// Withdraw submits a pending withdrawal request.
// POST /user/withdraw
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFrom(r)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	var in validation.WithdrawalInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	entry, err := h.ledger.SubmitWithdrawal(r.Context(), userID, in)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "success.withdrawal_submitted", map[string]any{"request": entry})
}

// History returns the caller's balance and request history.
// GET /user/history
func (h *UserHandler) History(w http.ResponseWriter, r *http.Request) {
	_, userID, err := claimsFrom(r)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	history, err := h.ledger.GetHistory(r.Context(), userID)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.user_history", history)
}

// ListUsers returns a page of users. Admin only.
// GET /user/all?limit=&offset=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	users, total, err := h.identity.ListUsers(r.Context(), limit, offset)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.user_list", map[string]any{
		"users":       users,
		"limit":       limit,
		"offset":      offset,
		"total_count": total,
	})
}
