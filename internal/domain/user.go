// internal/domain/user.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// User is the per-identity record shared by the identity and ledger services.
type User struct {
	ID               int64           `db:"id" json:"id"`
	Username         string          `db:"username" json:"username"`
	Name             string          `db:"name" json:"name"`
	Email            string          `db:"email" json:"email"`
	PhoneNumber      string          `db:"phone_number" json:"phoneNumber"`
	PasswordHash     string          `db:"password_hash" json:"-"`
	ReferralCode     *string         `db:"referral_code" json:"referralCode,omitempty"`
	Balance          decimal.Decimal `db:"balance" json:"balance"`
	ResetToken       *string         `db:"reset_token" json:"-"`
	ResetTokenExpiry *time.Time      `db:"reset_token_expiry" json:"-"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
}

// NewUser creates a User with an empty ledger.
func NewUser(username, name, email, phoneNumber, passwordHash string, referralCode *string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     strings.TrimSpace(username),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PhoneNumber:  CanonicalPhoneNumber(phoneNumber),
		PasswordHash: passwordHash,
		ReferralCode: referralCode,
		Balance:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CanonicalPhoneNumber rewrites an Indian mobile number given with or without
// a +91, 91 or 0 prefix as +91 followed by its ten digits. Input that does not
// reduce to ten digits is returned trimmed.
func CanonicalPhoneNumber(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return strings.TrimSpace(raw)
	}
	return "+91" + digits
}

// HasLiveResetToken reports whether a reset token is stored and unexpired at now.
func (u *User) HasLiveResetToken(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpiry != nil && now.Before(*u.ResetTokenExpiry)
}
