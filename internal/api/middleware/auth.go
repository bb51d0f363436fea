// internal/api/middleware/auth.go
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"upi-wallet/internal/api/respond"
	"upi-wallet/internal/auth"
	"upi-wallet/internal/domain"
	"upi-wallet/internal/util"
)

type contextKey struct{}

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// token's claims in the request context.
func Authenticate(parser TokenParser, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				respond.Error(w, logger, fmt.Errorf("missing bearer token: %w", util.ErrUnauthorized))
				return
			}

			claims, err := parser.Parse(strings.TrimSpace(raw))
			if err != nil {
				logger.Debug("token rejected", "error", err, "path", r.URL.Path)
				respond.Error(w, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole lets through only requests whose claims carry role. It must be
// mounted after Authenticate.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Role != role {
				respond.Error(w, logger, fmt.Errorf("%s role required: %w", role, util.ErrUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser is RequireRole for regular accounts.
func RequireUser(logger *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole(domain.RoleUser, logger)
}

// RequireAdmin is RequireRole for admin accounts.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin, logger)
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*auth.Claims)
	return claims, ok
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}
