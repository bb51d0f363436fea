// internal/api/respond/respond.go
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"upi-wallet/internal/util"
	"upi-wallet/internal/validation"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Success    bool   `json:"success"`
	MessageKey string `json:"messageKey"`
	Data       any    `json:"data"`
}

// JSON writes payload inside the envelope. Success follows the status code.
func JSON(w http.ResponseWriter, status int, messageKey string, data any) {
	if data == nil {
		data = struct{}{}
	}
	response, err := json.Marshal(Envelope{Success: status < http.StatusBadRequest, MessageKey: messageKey, Data: data})
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// Error maps err to its status and message key. Errors without a known kind
// are logged and reported as internal without their detail.
func Error(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := util.HTTPStatus(err)
	data := map[string]any{"error": detail(err)}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		data["fields"] = verrs
	}
	if status == http.StatusInternalServerError {
		logger.Error("Unhandled service error", "error", err)
	}

	JSON(w, status, util.MessageKey(err), data)
}

func detail(err error) string {
	var appErr *util.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return "validation failed"
	}
	for _, kind := range []error{
		util.ErrInvalidInput,
		util.ErrUnauthorized,
		util.ErrNotFound,
		util.ErrConflict,
		util.ErrAlreadyProcessed,
		util.ErrInsufficientFunds,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return util.ErrInternal.Error()
}
