// internal/validation/validator.go
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"upi-wallet/internal/util"
)

const (
	MinPasswordLength = 6
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72

	// MaxAmountScale is the number of decimal places an amount may carry.
	MaxAmountScale = 2
	// maxAmountExponent bounds the exponent of any amount not above MaxAmount.
	maxAmountExponent = 9
	// minAmountExponent rejects absurd scales before any rescaling happens.
	minAmountExponent = -18
)

// MaxAmount caps a single recharge or withdrawal.
var MaxAmount = decimal.New(1, maxAmountExponent)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Indian mobile numbers, optionally prefixed with +91, 91 or 0.
	indianPhoneRegex = regexp.MustCompile(`^(?:\+91[\s-]?|91[\s-]?|0)?[6-9][0-9]{9}$`)
)

// FieldError is a single (field, reason) violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors collects every violation found in one input. It unwraps to
// util.ErrInvalidInput.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error { return util.ErrInvalidInput }

// Validator accumulates field errors.
type Validator struct {
	Errors Errors
}

func New() *Validator {
	return &Validator{Errors: make(Errors, 0)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Err returns nil when no violation was recorded.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return v.Errors
}

func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

func (v *Validator) MinLength(field, value string, n int) {
	v.Check(len(value) >= n, field, fmt.Sprintf("must be at least %d characters long", n))
}

func (v *Validator) Email(field, email string) {
	v.Check(emailRegex.MatchString(strings.TrimSpace(email)), field, "must be a valid email address")
}

func (v *Validator) IndianPhone(field, phone string) {
	v.Check(indianPhoneRegex.MatchString(strings.TrimSpace(phone)), field, "must be a valid Indian number")
}

// Password checks the length bounds of a new password. The upper bound is in
// bytes since bcrypt refuses anything longer.
func (v *Validator) Password(field, value string) {
	v.MinLength(field, value, MinPasswordLength)
	v.Check(len(value) <= MaxPasswordBytes, field, fmt.Sprintf("must be at most %d bytes long", MaxPasswordBytes))
}

// PositiveAmount checks that amount is above zero, no larger than MaxAmount
// and has at most MaxAmountScale decimal places. The exponent is checked
// first so comparisons never rescale a huge coefficient.
func (v *Validator) PositiveAmount(field string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		v.AddError(field, "must be greater than zero")
		return
	}
	exp := amount.Exponent()
	switch {
	case exp < minAmountExponent:
		v.AddError(field, fmt.Sprintf("must have at most %d decimal places", MaxAmountScale))
	case exp > maxAmountExponent || amount.GreaterThan(MaxAmount):
		v.AddError(field, "must not exceed "+MaxAmount.String())
	case !amount.Equal(amount.Truncate(MaxAmountScale)):
		v.AddError(field, fmt.Sprintf("must have at most %d decimal places", MaxAmountScale))
	}
}
