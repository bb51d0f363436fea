// internal/api/handler/handler.go
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"upi-wallet/internal/api/middleware"
	"upi-wallet/internal/auth"
	"upi-wallet/internal/service"
	"upi-wallet/internal/util"
)

// DefaultTimeout bounds the handling of a single request.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps request bodies; every payload here is a handful of fields.
const maxBodyBytes = 1 << 20

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	Generate(id int64, username, role string) (string, error)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("malformed request body: %w", util.ErrInvalidInput)
	}
	return nil
}

// claimsFrom returns the caller's claims and numeric account id.
func claimsFrom(r *http.Request) (*auth.Claims, int64, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, 0, fmt.Errorf("missing claims: %w", util.ErrUnauthorized)
	}
	id, err := claims.SubjectID()
	if err != nil {
		return nil, 0, err
	}
	return claims, id, nil
}

// pageParams reads limit and offset from the query string. Unparseable values
// fall back to the defaults.
func pageParams(r *http.Request) (int, int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 0
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil {
		offset = 0
	}
	return service.NormalizePage(limit, offset)
}

func trimmed(s string) string { return strings.TrimSpace(s) }
