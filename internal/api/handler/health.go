// internal/api/handler/health.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"upi-wallet/internal/api/respond"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports process liveness and database reachability.
// GET /health
func Health(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check: database unreachable", "error", err)
			respond.JSON(w, http.StatusServiceUnavailable, "error.unavailable", map[string]string{"status": "database unreachable"})
			return
		}
		respond.JSON(w, http.StatusOK, "success.health", map[string]string{"status": "ok"})
	}
}

