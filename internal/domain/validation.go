package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MinSendAmount = "0.01"
	MaxSendAmount = "50000"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}(_[A-Z]{2})?$`)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateSendAmount validates a transfer amount against the platform
// bounds. Validation failures are rejected before any balance mutation.
func ValidateSendAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	min, _ := decimal.NewFromString(MinSendAmount)
	if amount.LessThan(min) {
		return &ValidationError{Field: "send_amount", Reason: fmt.Sprintf("minimum amount is %s", MinSendAmount)}
	}

	max, _ := decimal.NewFromString(MaxSendAmount)
	if amount.GreaterThan(max) {
		return &ValidationError{Field: "send_amount", Reason: fmt.Sprintf("maximum amount is %s", MaxSendAmount)}
	}

	return nil
}

// ValidateCurrencyCode accepts ISO 4217 codes plus union-member codes in
// the CODE_CC form (e.g. EUR_DE, XOF_SN). Unknown but well-formed codes
// are allowed here; the currency table handles them with safe defaults.
func ValidateCurrencyCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !currencyCodeRe.MatchString(code) {
		return &ValidationError{Field: "currency", Reason: fmt.Sprintf("malformed currency code %q", code)}
	}
	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return &ValidationError{Field: "email", Reason: "invalid email format"}
	}
	return nil
}
