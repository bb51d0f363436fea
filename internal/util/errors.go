// internal/util/errors.go
package util

import (
	"errors"
	"net/http"
)

// Error kinds. Every error the services return either is, or wraps, one of these.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input provided")
	ErrAlreadyProcessed  = errors.New("request already processed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInternal          = errors.New("internal server error")
)

// AppError is a specific failure carrying a stable message key for clients.
// It unwraps to its kind so errors.Is works against both.
type AppError struct {
	Kind    error
	Key     string
	Message string
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Kind }

func newError(kind error, key, message string) *AppError {
	return &AppError{Kind: kind, Key: key, Message: message}
}

// Specific application errors.
var (
	ErrUserNotFound      = newError(ErrNotFound, "error.user_not_found", "user not found")
	ErrAdminNotFound     = newError(ErrNotFound, "error.admin_not_found", "admin not found")
	ErrEntryNotFound     = newError(ErrNotFound, "error.request_not_found", "request not found")
	ErrUsernameTaken     = newError(ErrConflict, "error.username_taken", "User with this username already exists.")
	ErrEmailTaken        = newError(ErrConflict, "error.email_taken", "User with this email already exists.")
	ErrPhoneTaken        = newError(ErrConflict, "error.phone_taken", "User with this phoneNumber already exists.")
	ErrAdminEmailTaken   = newError(ErrConflict, "error.admin_email_taken", "Admin with this email already exists.")
	ErrDuplicateUTR      = newError(ErrConflict, "error.duplicate_utr", "a recharge with this UTR has already been submitted")
	ErrInvalidToken      = newError(ErrUnauthorized, "error.invalid_token", "invalid reset token")
	ErrTokenExpired      = newError(ErrUnauthorized, "error.token_expired", "reset token has expired")
	ErrInvalidCredential = newError(ErrUnauthorized, "error.invalid_credentials", "invalid credentials")
	ErrAlreadyDecided    = newError(ErrAlreadyProcessed, "error.already_processed", "request has already been processed")
	ErrBalanceTooLow     = newError(ErrInsufficientFunds, "error.insufficient_balance", "insufficient balance")
)

// HTTPStatus maps an error to its transport status code. Unknown errors are
// internal.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// MessageKey returns the stable client-facing key for err, falling back to a
// key derived from its kind.
func MessageKey(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Key
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "error.invalid_input"
	case errors.Is(err, ErrUnauthorized):
		return "error.unauthorized"
	case errors.Is(err, ErrNotFound):
		return "error.not_found"
	case errors.Is(err, ErrConflict):
		return "error.conflict"
	case errors.Is(err, ErrAlreadyProcessed):
		return "error.already_processed"
	case errors.Is(err, ErrInsufficientFunds):
		return "error.insufficient_balance"
	default:
		return "error.internal"
	}
}
