// internal/api/handler/admin.go
package handler

import (
	"log/slog"
	"net/http"

	"upi-wallet/internal/api/respond"
	"upi-wallet/internal/api/types"
	"upi-wallet/internal/domain"
	"upi-wallet/internal/service"
	"upi-wallet/internal/util"
	"upi-wallet/internal/validation"
)

// AdminHandler handles admin account and request-review endpoints.
type AdminHandler struct {
	identity service.IdentityService
	ledger   service.LedgerService
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(identity service.IdentityService, ledger service.LedgerService, tokens TokenIssuer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		identity: identity,
		ledger:   ledger,
		tokens:   tokens,
		logger:   logger,
	}
}

// Signup registers an admin account.
// POST /admin/signup
func (h *AdminHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in validation.AdminSignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	admin, err := h.identity.RegisterAdmin(r.Context(), in)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	token, err := h.tokens.Generate(admin.ID, admin.Username, domain.RoleAdmin)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "success.admin_signup", map[string]any{
		"admin":        admin,
		"access_token": token,
	})
}

// Login authenticates an admin by email and password.
// POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in validation.AdminLoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	if err := in.Validate(); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	admin, err := h.identity.AuthenticateAdmin(r.Context(), in.Email, in.Password)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	if admin == nil {
		respond.Error(w, h.logger, util.ErrInvalidCredential)
		return
	}

	token, err := h.tokens.Generate(admin.ID, admin.Username, domain.RoleAdmin)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.admin_login", map[string]any{
		"admin":        admin,
		"access_token": token,
	})
}

// ListRecharges returns all recharge requests, newest first.
// GET /admin/recharge-requests?limit=&offset=
func (h *AdminHandler) ListRecharges(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	entries, total, err := h.ledger.ListRechargeRequests(r.Context(), limit, offset)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.recharge_requests", types.PaginatedResponse[domain.RechargeEntry]{
		Data:       entries,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// ListWithdrawals returns all withdrawal requests, newest first.
// GET /admin/withdrawal-requests?limit=&offset=
func (h *AdminHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	entries, total, err := h.ledger.ListWithdrawalRequests(r.Context(), limit, offset)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.withdrawal_requests", types.PaginatedResponse[domain.WithdrawalEntry]{
		Data:       entries,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// DecideRecharge marks a pending recharge Success or Failed.
// POST /admin/recharge-requests/decide
func (h *AdminHandler) DecideRecharge(w http.ResponseWriter, r *http.Request) {
	var in validation.DecideRechargeInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	status, err := in.Decision()
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	entry, balance, err := h.ledger.DecideRecharge(r.Context(), trimmed(in.Username), trimmed(in.UTR), status)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.recharge_decided", map[string]any{
		"request": entry,
		"balance": balance,
	})
}

// DecideWithdrawal approves or rejects a pending withdrawal.
// POST /admin/withdrawal-requests/decide
func (h *AdminHandler) DecideWithdrawal(w http.ResponseWriter, r *http.Request) {
	var in validation.DecideWithdrawalInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	requestID, decision, err := in.Decision()
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	entry, balance, err := h.ledger.DecideWithdrawal(r.Context(), trimmed(in.Username), requestID, decision)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, "success.withdrawal_decided", map[string]any{
		"request": entry,
		"balance": balance,
	})
}
