// internal/api/middleware/ratelimit.go
package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"upi-wallet/internal/api/respond"
	"upi-wallet/pkg/ratelimit"
)

// RateLimit limits requests per client IP and path. chi's RealIP must run
// first so proxied requests carry the client address. Limiter failures let
// the request through.
func RateLimit(limiter ratelimit.Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r) + ":" + r.URL.Path
			allowed, retryAfter, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				respond.JSON(w, http.StatusTooManyRequests, "error.too_many_requests",
					map[string]string{"error": "too many requests, try again later"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP drops the port from RemoteAddr so every connection from one host
// shares a window. RealIP leaves a bare IP, which is returned unchanged.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
